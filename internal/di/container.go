// Package di provides a minimal typed dependency injection container.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry provides read access to registered services.
type ServiceRegistry interface {
	// Get returns the service registered under name, resolving lazy
	// factories on first access. Panics if the name is unknown.
	Get(name string) any
}

// Container extends ServiceRegistry with registration.
type Container interface {
	ServiceRegistry
	// Register stores a ready service instance under name.
	Register(name string, service any)
	// RegisterLazy stores a factory that is invoked once, on first Get.
	RegisterLazy(name string, factory func(ServiceRegistry) any)
}

type entry struct {
	instance any
	factory  func(ServiceRegistry) any
	resolved bool
}

type container struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{instance: service, resolved: true}
}

func (c *container) RegisterLazy(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{factory: factory}
}

func (c *container) Get(name string) any {
	c.mu.Lock()
	e, ok := c.entries[name]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	if e.resolved {
		c.mu.Unlock()
		return e.instance
	}
	// Mark resolved before releasing the lock so factories can resolve
	// their own dependencies without deadlocking.
	factory := e.factory
	c.mu.Unlock()

	instance := factory(c)

	c.mu.Lock()
	e.instance = instance
	e.resolved = true
	c.mu.Unlock()

	return instance
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique registration name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registration name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazily constructed service under the token.
func RegisterToken[T any](c Container, tok Token[T], factory func(ServiceRegistry) T) {
	c.RegisterLazy(tok.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the service registered under the token.
func GetToken[T any](sr ServiceRegistry, tok Token[T]) T {
	v := sr.Get(tok.name)
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", tok.name, v))
	}
	return typed
}
