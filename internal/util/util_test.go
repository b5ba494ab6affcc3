package util

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	loggers := make([]interface{}, 8)
	for i := range loggers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loggers[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	for _, l := range loggers {
		assert.Same(t, GetLogger(), l)
	}
}

func TestStartSpanConcurrentWithoutInitTracer(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, span := StartSpan(context.Background(), "CatalogService.ListProducts")
			defer span.End()
			assert.NotNil(t, ctx)
		}()
	}
	wg.Wait()
	require.NotNil(t, GetTracer())
}

func TestInitTracerWithoutEndpoint(t *testing.T) {
	tp, err := InitTracer(ServiceName, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := StartSpan(context.Background(), "Store.RecordLoginSubmission")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
}
