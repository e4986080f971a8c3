package notify

import (
	"context"
	"time"

	"github.com/felixgeelhaar/driftguard/internal/errors"
	"github.com/felixgeelhaar/driftguard/internal/log"
)

// Dispatcher delivers a message to each notifier in turn
type Dispatcher struct {
	notifiers []Notifier

	// timeout bounds each notifier's delivery
	timeout time.Duration

	logger *log.Logger
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(notifiers []Notifier, timeout time.Duration, logger *log.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Dispatcher{
		notifiers: notifiers,
		timeout:   timeout,
		logger:    logger,
	}
}

// Len returns how many channels are configured
func (d *Dispatcher) Len() int {
	return len(d.notifiers)
}

// Dispatch sends msg to every channel. Failures are logged as warnings and
// recorded in the results; they are never returned to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) []Result {
	if len(d.notifiers) == 0 {
		return nil
	}

	results := make([]Result, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		result, err := d.send(ctx, n, msg)
		if err != nil {
			d.logger.WithError(errors.NewNotifyError(n.Name(), err)).
				Warn("notification failed", "channel", n.Name(), "duration", result.Duration)
		} else {
			d.logger.Info("notification sent", "channel", n.Name(), "duration", result.Duration)
		}
		results = append(results, result)
	}

	return results
}

func (d *Dispatcher) send(ctx context.Context, n Notifier, msg *Message) (Result, error) {
	result := Result{
		Channel:   n.Name(),
		Timestamp: time.Now(),
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := n.Notify(sendCtx, msg)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	result.Success = true
	return result, nil
}

// Failed returns the results that did not succeed
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
