package runtime

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"
)

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Stopper is one component released during shutdown.
type Stopper struct {
	Name string
	Stop func(context.Context) error
}

// Shutdown runs the stoppers in order under one shared deadline and joins their errors.
// Each failure is logged with the component name.
func Shutdown(logger *slog.Logger, timeout time.Duration, stoppers ...Stopper) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, s := range stoppers {
		if s.Stop == nil {
			continue
		}
		if err := s.Stop(ctx); err != nil {
			if logger != nil {
				logger.Error("shutdown failed", "component", s.Name, "err", err)
			}
			errs = append(errs, errors.New(s.Name+": "+err.Error()))
		}
	}
	return errors.Join(errs...)
}
