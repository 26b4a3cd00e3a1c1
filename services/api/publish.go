package api

import (
	"context"
	"time"
)

// publishJSON emits an event on the bus without blocking the request path.
// Publishing is best effort: failures are logged, never returned, and a nil
// bus turns the call into a no-op.
func (a *API) publishJSON(subject string, payload any) {
	if a.store.Bus == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.Bus.Publish(ctx, subject, payload); err != nil {
			a.logger.Printf("WARN publish %s failed: %v", subject, err)
		}
	}()
}
