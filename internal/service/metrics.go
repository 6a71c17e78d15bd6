package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики сервисного слоя.
var (
	presenceOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ops_core_presence_online",
		Help: "Количество пользователей в статусе online по последнему снимку",
	})

	alertsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ops_core_alerts_active",
		Help: "Количество активных (нескрытых) оповещений по типу",
	}, []string{"type"})

	deliveryCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_core_delivery_commands_total",
		Help: "Команды над доставками по действию и результату",
	}, []string{"action", "result"}) // result: applied, rejected, failed

	transitionViolationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ops_core_transition_violations_total",
		Help: "Недопустимые переходы, пропущенные в разрешительном режиме",
	})

	unreadTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ops_core_unread_messages",
		Help: "Суммарное число непрочитанных сообщений",
	})

	openConversations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ops_core_open_conversations",
		Help: "Количество открытых переписок с активным опросом",
	})
)
