// Package memory implementa los repositorios en memoria, para desarrollo y tests.
// Cada colección es un mapa por id protegido por un RWMutex.
package memory

import (
	"errors"
	"strings"
	"sync"

	"vetadmin/internal/platform/apperr"
)

var (
	ErrIDRequired    = errors.New("id required")
	ErrAlreadyExists = errors.New("already exists")
)

type table[T any] struct {
	mu     sync.RWMutex
	entity string
	byID   map[string]T
	id     func(T) string
	clone  func(T) T // nil si T no tiene slices ni punteros compartidos
}

func newTable[T any](entity string, id func(T) string, clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{entity: entity, byID: make(map[string]T), id: id, clone: clone}
}

func (t *table[T]) insert(v T) error {
	id := t.id(v)
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[id]; exists {
		return ErrAlreadyExists
	}
	t.byID[id] = t.clone(v)
	return nil
}

func (t *table[T]) update(v T) error {
	id := t.id(v)
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[id]; !exists {
		return apperr.NotFound(t.entity, id)
	}
	t.byID[id] = t.clone(v)
	return nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[id]; !exists {
		return apperr.NotFound(t.entity, id)
	}
	delete(t.byID, id)
	return nil
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(t.entity, id)
	}
	return t.clone(v), nil
}

// filter devuelve copias de las filas que cumplen keep (nil = todas). Nunca nil.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.byID))
	for _, v := range t.byID {
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}

// removeWhere borra las filas que cumplen match y devuelve cuántas.
func (t *table[T]) removeWhere(match func(T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, v := range t.byID {
		if match(v) {
			delete(t.byID, id)
			n++
		}
	}
	return n
}

// mutate aplica fn a la fila bajo el lock de escritura. Si fn falla, no se guarda nada.
func (t *table[T]) mutate(id string, fn func(v *T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(t.entity, id)
	}
	v = t.clone(v)
	if err := fn(&v); err != nil {
		var zero T
		return zero, err
	}
	t.byID[id] = v
	return t.clone(v), nil
}

// mutateWhere aplica fn a todas las filas que cumplen match.
func (t *table[T]) mutateWhere(match func(T) bool, fn func(v *T)) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, v := range t.byID {
		if match(v) {
			v = t.clone(v)
			fn(&v)
			t.byID[id] = v
			n++
		}
	}
	return n
}
