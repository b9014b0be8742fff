package cli

import (
	"context"
	"time"
)

// checkOnline pings the health endpoint once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.api.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher re-checks connectivity every interval until ctx
// is done. A non-positive interval disables the watcher.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.logger.Warn(ctx, "online watcher disabled", "interval", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
