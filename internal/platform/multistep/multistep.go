// Package multistep registra operaciones compuestas por varias escrituras
// independientes (sin transacción que las envuelva).
//
// Cada paso se ejecuta en orden; si uno falla después de que otro ya quedó
// aplicado, el error devuelto es *PartialFailureError con los pasos completados
// y el paso que falló, para conciliación manual o un reintento futuro.
// No hay compensación automática.
//
// Una operación puede ejecutarse como paso de otra (p. ej. registrar una
// enfermedad dentro de una consulta). En ese caso su fallo parcial se aplana
// en el de la operación externa, y sólo la externa lo loguea y lo cuenta.
package multistep

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/platform/metrics"
)

type Operation struct {
	name      string
	completed []string
	nested    bool
}

type nestedKey struct{}

func New(name string) *Operation {
	return &Operation{name: name}
}

func (o *Operation) Name() string { return o.name }

// Completed devuelve una copia de los pasos aplicados hasta ahora.
func (o *Operation) Completed() []string {
	out := make([]string, len(o.completed))
	copy(out, o.completed)
	return out
}

// Step ejecuta fn como paso "step".
// Si falla y ningún paso previo quedó aplicado, devuelve el error tal cual:
// el sistema sigue intacto y no hay fallo parcial.
//
// Si fn es a su vez una operación que falló parcialmente, sus pasos se agregan
// con el prefijo "step/" y el error resultante es uno solo, de esta operación.
func (o *Operation) Step(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	if ctx.Value(nestedKey{}) != nil {
		o.nested = true
	}
	err := fn(context.WithValue(ctx, nestedKey{}, o.name))
	if err == nil {
		o.completed = append(o.completed, step)
		return nil
	}

	var inner *PartialFailureError
	if !errors.As(err, &inner) {
		if len(o.completed) == 0 {
			return err
		}
		return &PartialFailureError{
			Op:        o.name,
			Completed: o.Completed(),
			Failed:    step,
			Err:       err,
			nested:    o.nested,
		}
	}

	// la operación interna ya dejó escrituras aplicadas: es fallo parcial
	// aunque éste sea el primer paso.
	completed := o.Completed()
	for _, c := range inner.Completed {
		completed = append(completed, step+"/"+c)
	}
	return &PartialFailureError{
		Op:        o.name,
		Completed: completed,
		Failed:    step + "/" + inner.Failed,
		Err:       inner.Err,
		nested:    o.nested,
	}
}

type PartialFailureError struct {
	Op        string
	Completed []string
	Failed    string
	Err       error

	// nested: la operación corre como paso de otra; la externa observa.
	nested bool
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: partial failure at step %q after [%s]: %v",
		e.Op, e.Failed, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

func (e *PartialFailureError) Is(target error) bool {
	return target == apperr.ErrPartialFailure
}

// Observe loguea y cuenta err si es un fallo parcial de una operación de
// primer nivel; cualquier otro error se ignora.
// Devuelve err sin cambios para usarlo en el return.
func Observe(log logger.Logger, err error) error {
	var pf *PartialFailureError
	if !errors.As(err, &pf) || pf.nested {
		return err
	}
	metrics.PartialFailures.WithLabelValues(pf.Op).Inc()
	if log != nil {
		log.Error("partial failure", map[string]any{
			"operation": pf.Op,
			"completed": strings.Join(pf.Completed, ","),
			"failed":    pf.Failed,
			"error":     pf.Err.Error(),
		})
	}
	return err
}
