// Package notify surfaces non-fatal failures (export, file IO) to the user
// and, when a DSN is configured, to Sentry. Nothing here ever aborts the
// caller.
package notify

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Options configures error reporting
type Options struct {
	DSN         string
	Environment string
	Release     string
}

// Init sets up the Sentry client. With an empty DSN the client is a no-op,
// which is the normal local setup.
func Init(opts Options) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// Enabled reports whether events are actually sent
func Enabled() bool {
	client := sentry.CurrentHub().Client()
	return client != nil && client.Options().Dsn != ""
}

// Flush waits briefly for buffered events
func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports an error with tags; nil errors are ignored
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Warner is the part of the application logger the notifier needs
type Warner interface {
	Warnf(format string, args ...interface{})
}

// Notifier turns a failed side operation into a warning
type Notifier struct {
	logger  Warner
	capture func(err error, tags map[string]string)
}

// New creates a notifier that logs through logger and reports to Sentry
func New(logger Warner) *Notifier {
	return &Notifier{logger: logger, capture: CaptureError}
}

// Failure records that op failed. It returns normally so the caller can go
// on with its remaining work.
func (n *Notifier) Failure(op string, err error, tags map[string]string) {
	if err == nil {
		return
	}
	if n.logger != nil {
		n.logger.Warnf("%s failed: %v", op, err)
	}
	all := map[string]string{"op": op}
	for k, v := range tags {
		all[k] = v
	}
	if n.capture != nil {
		n.capture(err, all)
	}
}
