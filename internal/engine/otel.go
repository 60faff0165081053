package engine

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/SeamusWaldron/cubeanim/internal/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
