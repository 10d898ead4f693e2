package catalog

import (
	"context"
	"log/slog"
	"time"
)

// Subscriber is the part of the event client Watch needs.
type Subscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte)) error
}

const reloadTimeout = 15 * time.Second

// Watch reloads reg whenever a message arrives on subject. Reloads stop once
// ctx is cancelled.
func Watch(ctx context.Context, sub Subscriber, subject string, reg *Registry, logger *slog.Logger) error {
	return sub.Subscribe(subject, func(subj string, _ []byte) {
		if ctx.Err() != nil {
			return
		}
		reloadCtx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()
		if _, err := reg.Reload(reloadCtx); err != nil {
			logger.Warn("catalog reload failed", "subject", subj, "error", err)
		}
	})
}
