package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

// Bus is a simple in-process event dispatcher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]func(context.Context, any)
}

// New creates a new Bus.
func New() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(context.Context, any))}
}

func (b *Bus) subscribe(t reflect.Type, h func(context.Context, any)) {
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], h)
	b.mu.Unlock()
}

// emit dispatches e to all handlers of its dynamic type.
func (b *Bus) emit(ctx context.Context, e any) {
	if b == nil {
		return
	}
	t := reflect.TypeOf(e)
	b.mu.RLock()
	hs := append(([]func(context.Context, any))(nil), b.handlers[t]...)
	b.mu.RUnlock()
	for _, fn := range hs {
		fn(ctx, e)
	}
}

var global atomic.Pointer[Bus]

// Use sets the global bus. Passing nil disables event publishing.
func Use(b *Bus) { global.Store(b) }

// Subscribe registers h with the global bus.
func Subscribe[T any](h Handler[T]) {
	if b := global.Load(); b != nil {
		t := reflect.TypeOf((*T)(nil)).Elem()
		b.subscribe(t, func(ctx context.Context, v any) { h(ctx, v.(T)) })
	}
}

// Publish sends e through the global bus.
func Publish[T any](ctx context.Context, e T) {
	if b := global.Load(); b != nil {
		b.emit(ctx, e)
	}
}
