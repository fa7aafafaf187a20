package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"livechat/logging"
)

const RequestIDHeader = "X-Request-ID"

var tracer = otel.Tracer("livechat/api")

// LoggingTransport logs every request and response, tags it with a request id
// and wraps it in a client span. Without Log it uses the logger carried by the
// request context. The request-scoped logger is passed on in the context to Base.
type LoggingTransport struct {
	Log  *slog.Logger
	Base http.RoundTripper
}

func (t *LoggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.url", r.URL.String()),
		),
	)
	defer span.End()

	reqID := r.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	logger := t.Log
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	log := logger.With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logging.RequestID(reqID),
	)
	ctx = logging.WithContext(ctx, log)

	r = r.Clone(ctx)
	r.Header.Set(RequestIDHeader, reqID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

	log.DebugContext(ctx, "api - request started")

	start := time.Now()
	resp, err := base(t.Base).RoundTrip(r)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failed")
		log.ErrorContext(ctx, "api - request failed", logging.Err(err), "elapsed", elapsed)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, "request rejected")
		log.WarnContext(ctx, "api - request rejected", "status", resp.StatusCode, "elapsed", elapsed)
	} else {
		log.InfoContext(ctx, "api - request completed", "status", resp.StatusCode, "elapsed", elapsed)
	}
	return resp, nil
}
