package logging

import (
	"context"
	"log/slog"

	"github.com/roach88/docmerge/internal/reconcile"
)

// Reporter returns a reconcile.Reporter that logs each event's message at
// info level, with the event fields as attributes.
func Reporter(logger *slog.Logger) reconcile.Reporter {
	return reconcile.ReporterFunc(func(e reconcile.Event) {
		attrs := []slog.Attr{slog.String("event", string(e.Kind))}
		if e.Collection != "" {
			attrs = append(attrs, slog.String("collection", e.Collection))
		}
		if e.Count != 0 {
			attrs = append(attrs, slog.Int("count", e.Count))
		}
		if e.RunID != "" {
			attrs = append(attrs, slog.String("run_id", e.RunID))
		}
		logger.LogAttrs(context.Background(), slog.LevelInfo, e.String(), attrs...)
	})
}
