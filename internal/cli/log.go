package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/openmodel/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Inspected 3 documents (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks turns library events into debug log lines. The logger attached
// to the event's context wins over the fallback.
type logHooks struct {
	fallback *log.Logger
}

func registerHooks(l *log.Logger) {
	h := logHooks{fallback: l}
	observability.SetCodecHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) logger(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return h.fallback
}

func (h logHooks) OnDecode(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.logger(ctx).Debug("decoded document", "format", format, "size", humanize.Bytes(uint64(size)), "elapsed", d, "err", err)
}

func (h logHooks) OnEncode(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.logger(ctx).Debug("encoded document", "format", format, "size", humanize.Bytes(uint64(size)), "elapsed", d, "err", err)
}

func (h logHooks) OnStoreHit(ctx context.Context, backend, id string) {
	h.logger(ctx).Debug("store hit", "backend", backend, "id", id)
}

func (h logHooks) OnStoreMiss(ctx context.Context, backend, id string) {
	h.logger(ctx).Debug("store miss", "backend", backend, "id", id)
}

func (h logHooks) OnStorePut(ctx context.Context, backend, id string, size int) {
	h.logger(ctx).Debug("store put", "backend", backend, "id", id, "size", humanize.Bytes(uint64(size)))
}

func (h logHooks) OnStoreDelete(ctx context.Context, backend, id string) {
	h.logger(ctx).Debug("store delete", "backend", backend, "id", id)
}

func (h logHooks) OnRequest(context.Context, string, string) {}

func (h logHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	h.logger(ctx).Debug("http", "method", method, "route", route, "status", status, "elapsed", d)
}
