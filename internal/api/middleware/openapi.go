// openapi.go — валидация запросов по контракту OpenAPI (kin-openapi).
// Параметры и тела запросов проверяются до обработчиков; ответ об ошибке
// в стандартном формате VALIDATION_ERROR. Маршруты вне контракта
// пропускаются: их обрабатывает chi (404/405).
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	apierrors "github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/errors"
)

// OpenAPIValidator создаёт middleware валидации запросов.
// Аутентификация и права проверяются отдельно (JWTAuth, RequireScopes),
// поэтому схемы безопасности контракта здесь не проверяются.
func OpenAPIValidator(spec *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	// Серверы контракта не ограничивают host запроса
	spec.Servers = nil
	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения маршрутов OpenAPI: %w", err)
	}

	opts := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
					logger.Warn("Ошибка поиска маршрута OpenAPI",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("Запрос не соответствует контракту",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				apierrors.ValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// validationMessage — краткое описание ошибки без дампа схемы.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			if field := schemaErr.JSONPointer(); len(field) > 0 {
				return fmt.Sprintf("Некорректное поле %s: %s", strings.Join(field, "."), schemaErr.Reason)
			}
			return "Некорректный запрос: " + schemaErr.Reason
		}
		if reqErr.Parameter != nil {
			return fmt.Sprintf("Некорректный параметр %s: %s", reqErr.Parameter.Name, reqErr.Reason)
		}
		if reqErr.Reason != "" {
			return "Некорректный запрос: " + reqErr.Reason
		}
		return "Некорректное тело запроса"
	}
	return "Некорректный запрос"
}
