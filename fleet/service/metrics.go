package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/wricardo/fleet-garage/fleet/service"

// Outcome labels recorded on the operations counter
const (
	outcomeOK              = "ok"
	outcomeInvalidArgument = "invalid_argument"
	outcomeNotFound        = "not_found"
	outcomeError           = "error"
)

type serviceMetrics struct {
	operations metric.Int64Counter
}

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// newServiceMetrics registers instruments on the global provider (no-op unless configured)
func newServiceMetrics(vehicles VehicleStore) (*serviceMetrics, error) {
	m := meter()

	operations, err := m.Int64Counter(
		"fleet.vehicle.operations",
		metric.WithDescription("Vehicle operations by name and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operations counter: %w", err)
	}

	registered, err := m.Int64ObservableGauge(
		"fleet.vehicles.registered",
		metric.WithDescription("Vehicles currently registered in the store"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registered gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(registered, int64(vehicles.Len()))
			return nil
		},
		registered,
	)
	if err != nil {
		return nil, fmt.Errorf("registering registered callback: %w", err)
	}

	return &serviceMetrics{operations: operations}, nil
}

func (m *serviceMetrics) record(ctx context.Context, operation string, err error) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcomeOf(err)),
	))
}

// outcomeOf maps an operation error to its metric label
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrInvalidArgument):
		return outcomeInvalidArgument
	case errors.Is(err, ErrNotFound), errors.Is(err, catalog.ErrPresetNotFound):
		return outcomeNotFound
	}
	if code := vehicle.FaultCode(err); code != "" {
		return code
	}
	return outcomeError
}
