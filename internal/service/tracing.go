package service

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("notebook-tree-be/internal/service")

func withNotebook(id uuid.UUID) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("notebook.id", id.String()))
}
