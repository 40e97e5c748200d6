package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, so the trace
// appears only with --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to l. A nil logger discards.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &LogHooks{logger: l.WithPrefix("trace")}
}

var _ Hooks = (*LogHooks)(nil)

func (h *LogHooks) OnAnalyzeStart(_ context.Context, name, version string) {
	h.logger.Debug("analyze start", "package", name, "version", version)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, name, version string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("analyze degraded", "package", name, "version", version, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("analyze done", "package", name, "version", version, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnResolveStart(_ context.Context, name, version string) {
	h.logger.Debug("resolve start", "package", name, "version", version)
}

func (h *LogHooks) OnResolveComplete(_ context.Context, name string, nodes int, d time.Duration) {
	h.logger.Debug("resolve done", "package", name, "nodes", nodes, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, cache string) {
	h.logger.Debug("cache hit", "cache", cache)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, cache string) {
	h.logger.Debug("cache miss", "cache", cache)
}

func (h *LogHooks) OnCacheSet(_ context.Context, cache string, size int) {
	h.logger.Debug("cache store", "cache", cache, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
