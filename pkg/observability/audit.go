package observability

import (
	"log/slog"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// AuditLogger returns an observer that logs every structural change at info
// level and view-only changes at debug level.
func AuditLogger(logger *slog.Logger) domain.Observer {
	return func(ev domain.ChangeEvent) {
		attrs := []any{"event", ev.Type}
		if ev.NodeID != "" {
			attrs = append(attrs, "node_id", ev.NodeID)
		}
		if ev.EdgeID != "" {
			attrs = append(attrs, "edge_id", ev.EdgeID)
		}
		if ev.Structural {
			logger.Info("flow changed", attrs...)
			return
		}
		logger.Debug("view changed", attrs...)
	}
}
