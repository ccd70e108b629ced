package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM. The
// poll loop finishes the cycle in progress and exits; a second signal exits
// immediately. stop releases the signal subscription.
func SetupSignalHandler(parent context.Context, logger *slog.Logger) (ctx context.Context, stop func()) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn("received second shutdown signal, forcing exit", "signal", sig.String())
			os.Exit(1)
		case <-done:
		}
	}()

	stop = func() {
		signal.Stop(sigCh)
		close(done)
		cancel()
	}

	return ctx, stop
}
