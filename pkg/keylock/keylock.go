// Package keylock implementa un mutex por clave dentro del proceso.
//
// Cada clave tiene su propio canal de capacidad 1; quien logra enviar al canal posee el
// lock. Las entradas se crean bajo demanda y se eliminan cuando nadie las usa, de modo
// que el mapa no crece con el número histórico de claves.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	sem  chan struct{}
	refs int // goroutines que tienen o esperan el lock
}

// KeyLock serializa el acceso por clave. El valor cero no es utilizable; usar New.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New crea un KeyLock vacío.
func New() *KeyLock {
	return &KeyLock{entries: make(map[string]*entry)}
}

// Lock bloquea hasta obtener el lock de key o hasta que ctx termine.
// Si ctx termina primero devuelve ctx.Err() y no se adquiere nada.
// La función devuelta libera el lock; llamarla más de una vez no tiene efecto.
func (l *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquireEntry(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, nil
}

// TryLock intenta obtener el lock sin esperar.
func (l *KeyLock) TryLock(key string) (func(), bool) {
	e := l.acquireEntry(key)
	select {
	case e.sem <- struct{}{}:
	default:
		l.releaseEntry(key, e)
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, true
}

// Len devuelve cuántas claves tienen entradas activas.
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyLock) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyLock) releaseEntry(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
