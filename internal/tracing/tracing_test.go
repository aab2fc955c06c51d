package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"resume-extract-go/internal/config"
)

func TestMaskPII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a", "*"},
		{"张三", "张*"},
		{"王小明", "王*明"},
		{"jane@example.com", "ja************om"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskPII(tt.in))
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "ab...yz", TruncateString("abcdefghijklmnopqrstuvwxyz", 7))
}

func TestSafeAttributeValue(t *testing.T) {
	assert.Equal(t, MaskPII("jane@example.com"), SafeAttributeValue("contact.email", "jane@example.com", 100))
	assert.Equal(t, "Python", SafeAttributeValue("skill", "Python", 100))
}

func attrMap(kvs []attribute.KeyValue) map[string]string {
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.Emit()
	}
	return m
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "load")

	RecordError(span, errors.New("bad xref table"), ErrorTypeDecode)
	RecordError(span, nil, ErrorTypeDecode)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "decode", attrs["error.type"])
	assert.Equal(t, "bad xref table", attrs["error.message"])
}

func TestRecordHTTPError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "request")

	RecordHTTPError(span, errors.New("unsupported"), 415)
	span.End()

	attrs := attrMap(recorder.Ended()[0].Attributes())
	assert.Equal(t, "http", attrs["error.type"])
	assert.Equal(t, "client_error", attrs["error.category"])
	assert.Equal(t, "415", attrs["http.status_code"])
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
