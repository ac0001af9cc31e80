package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestGinMiddleware_RecordsRouteAndStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.POST("/api/quest/verify/:questId/:targetUserId", func(c *gin.Context) {
		_, span := Start(c.Request.Context(), "VerificationService.SubmitVerification", UserID(7))
		span.End()
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quest/verify/1/2", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	inner, outer := spans[0], spans[1]
	assert.Equal(t, "VerificationService.SubmitVerification", inner.Name)
	assert.Contains(t, inner.Attributes, attribute.Int64("campus.user_id", 7))
	assert.Equal(t, outer.SpanContext.TraceID(), inner.SpanContext.TraceID())

	assert.Equal(t, "POST /api/quest/verify/:questId/:targetUserId", outer.Name)
	assert.Equal(t, codes.Error, outer.Status.Code)
	assert.Contains(t, outer.Attributes, attribute.Int("http.status_code", http.StatusInternalServerError))
}
