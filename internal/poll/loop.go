// Package poll drives collection cycles from a line-oriented trigger stream.
//
// Every line read from the input starts one cycle. A cycle runs the
// configured checks in order and writes their records to the output. A
// failing check is logged and replaced by its single fallback record, so the
// collector always receives a liveness signal for every configured check.
// End of input or cancellation stops the loop between cycles.
package poll

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/util"
)

// maxTriggerLine bounds a single trigger line; content is ignored anyway
const maxTriggerLine = 64 * 1024

// Check is one independently failing unit of collection
type Check interface {
	// Name identifies the check in logs
	Name() string

	// Collect returns the complete record set of one cycle or an error
	Collect(ctx context.Context) ([]metrics.Record, error)

	// Fallback returns the record reported in place of a failed collection
	Fallback() metrics.Record
}

// Loop runs checks on each trigger and writes their records
type Loop struct {
	runner  *executor.Runner
	checks  map[string]Check
	emitter *metrics.Emitter
	logger  *slog.Logger
	cycles  int
}

// NewLoop creates a loop running checks in the given order and writing
// records to out
func NewLoop(checks []Check, out io.Writer, logger *slog.Logger) (*Loop, error) {
	if len(checks) == 0 {
		return nil, fmt.Errorf("at least one check is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	l := &Loop{
		runner:  executor.NewRunner(logger),
		checks:  make(map[string]Check, len(checks)),
		emitter: metrics.NewEmitter(out),
		logger:  logger,
	}

	for _, c := range checks {
		if err := l.runner.Submit(executor.Task{Name: c.Name(), Execute: c.Collect}); err != nil {
			return nil, fmt.Errorf("failed to register check %s: %w", c.Name(), err)
		}
		l.checks[c.Name()] = c
	}

	return l, nil
}

// Cycles returns the number of completed cycles
func (l *Loop) Cycles() int {
	return l.cycles
}

// Run waits for trigger lines on in and runs one cycle per line. It returns
// nil on end of input or when ctx is cancelled; a cycle already in progress
// is always completed first. Errors writing to the output are fatal.
func (l *Loop) Run(ctx context.Context, in io.Reader) error {
	triggers, readErr := readTriggers(in)

	l.logger.Info("waiting for triggers", "checks", l.runner.TaskNames())

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping", "reason", "cancelled", "cycles", l.cycles)
			return nil

		case _, ok := <-triggers:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read trigger: %w", err)
				}
				l.logger.Info("stopping", "reason", "end of input", "cycles", l.cycles)
				return nil
			}

			// the cycle finishes even if ctx is cancelled meanwhile; every
			// network call is bounded by the client timeout
			if _, err := l.RunCycle(context.WithoutCancel(ctx)); err != nil {
				return err
			}
		}
	}
}

// RunCycle runs every check once, writing each check's records as soon as
// it finishes. The returned error is only set when the output cannot be
// written; check failures are reported through their results. A check whose
// records cannot be encoded is reported as failed.
func (l *Loop) RunCycle(ctx context.Context) ([]executor.Result, error) {
	var emitErr error
	emitted := make([]executor.Result, 0, len(l.checks))

	_, err := l.runner.RunWithCallback(ctx, func(r executor.Result) {
		if emitErr != nil {
			return
		}
		r, emitErr = l.emit(r)
		emitted = append(emitted, r)
	})
	if err != nil {
		return nil, err
	}
	if emitErr != nil {
		return emitted, emitErr
	}

	l.cycles++
	l.logger.Debug("cycle completed", "cycle", l.cycles, "summary", executor.Summarize(emitted).String())

	return emitted, nil
}

// emit writes the records of r, or its fallback when r failed or its
// records do not encode. It returns r as reported.
func (l *Loop) emit(r executor.Result) (executor.Result, error) {
	if r.Error == nil {
		lines, err := metrics.EncodeAll(r.Records)
		if err == nil {
			return r, l.emitter.WriteLines(lines)
		}
		r.Error = err
		r.Records = nil
	}

	l.logger.Error("check failed",
		"check", r.CheckName,
		"error", util.WrapCheckError(r.CheckName, r.Error),
		"hint", util.FriendlyError(r.Error),
		"duration", r.Duration)

	check, ok := l.checks[r.CheckName]
	if !ok {
		return r, fmt.Errorf("no fallback for check %q", r.CheckName)
	}
	return r, l.emitter.Emit(check.Fallback())
}

// readTriggers forwards each input line to the returned channel, which is
// closed at end of input. The error channel yields the read error, if any,
// after the line channel is closed.
func readTriggers(in io.Reader) (<-chan struct{}, <-chan error) {
	lines := make(chan struct{})
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 1024), maxTriggerLine)
		for scanner.Scan() {
			lines <- struct{}{}
		}

		err := scanner.Err()
		if errors.Is(err, bufio.ErrTooLong) {
			err = fmt.Errorf("trigger line longer than %d bytes: %w", maxTriggerLine, err)
		}
		errc <- err
	}()

	return lines, errc
}
