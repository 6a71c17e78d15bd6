package service

import (
	"context"
	"sync"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/poller"
)

// viewPoller — поллер представления, пересоздаваемый при повторном
// открытии после teardown.
type viewPoller[T any] struct {
	view     string
	registry *ViewRegistry
	build    func() (*poller.Poller[T], error)

	mu      sync.Mutex
	root    context.Context
	stopped bool
	current *poller.Poller[T]
}

func newViewPoller[T any](view string, registry *ViewRegistry, build func() (*poller.Poller[T], error)) *viewPoller[T] {
	return &viewPoller[T]{view: view, registry: registry, build: build}
}

// start запоминает корневой контекст и открывает представление.
func (v *viewPoller[T]) start(ctx context.Context) error {
	v.mu.Lock()
	v.root = ctx
	v.mu.Unlock()
	return v.open()
}

// open запускает поллер, если представление закрыто.
// До start и после stop ничего не делает.
func (v *viewPoller[T]) open() error {
	v.mu.Lock()
	if v.root == nil || v.stopped || v.current != nil || v.root.Err() != nil {
		v.mu.Unlock()
		return nil
	}
	p, err := v.build()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.current = p
	root := v.root
	v.mu.Unlock()

	v.registry.Register(v.view, func() { v.detach(p) }, p)
	p.Start(root)
	return nil
}

func (v *viewPoller[T]) detach(p *poller.Poller[T]) {
	v.mu.Lock()
	if v.current == p {
		v.current = nil
	}
	v.mu.Unlock()
}

// trigger запрашивает немедленное обновление открытого представления.
func (v *viewPoller[T]) trigger() {
	if p := v.poller(); p != nil {
		p.Trigger()
	}
}

// refreshNow синхронно обновляет открытое представление.
func (v *viewPoller[T]) refreshNow() bool {
	if p := v.poller(); p != nil {
		return p.RefreshNow()
	}
	return false
}

func (v *viewPoller[T]) poller() *poller.Poller[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// stop окончательно закрывает представление.
func (v *viewPoller[T]) stop() {
	v.mu.Lock()
	p := v.current
	v.current = nil
	v.stopped = true
	v.mu.Unlock()

	if p != nil {
		v.registry.release(v.view, p)
		p.Stop()
	}
}
