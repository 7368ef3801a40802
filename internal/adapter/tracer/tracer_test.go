package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/charlietlamb/openai-hack/internal/adapter/tracer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		exporter string
		wantNoop bool
		wantErr  bool
	}{
		{exporter: "", wantNoop: true},
		{exporter: "noop", wantNoop: true},
		{exporter: "stdout"},
		{exporter: "jaeger", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.exporter, func(t *testing.T) {
			shutdown, err := tracer.Setup(context.Background(), tc.exporter)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer shutdown(context.Background()) //nolint:errcheck

			_, isNoop := otel.GetTracerProvider().(noop.TracerProvider)
			assert.Equal(t, tc.wantNoop, isNoop)
		})
	}
}

func TestStartSpanAndEnd(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	ctx, span := tracer.StartSpan(context.Background(), "poll", attribute.Int("population", 5))
	require.NotNil(t, ctx)
	tracer.End(span, nil)

	_, span = tracer.StartSpan(context.Background(), "agent")
	tracer.End(span, errors.New("boom"))
}
