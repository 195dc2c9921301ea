// Package reporter forwards unexpected failures to Sentry. Every entry
// point is a no-op when no DSN is configured, so local and test runs
// need no setup.
package reporter

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

var initialized bool

// Init configures the Sentry client. An empty dsn disables reporting.
func Init(dsn, environment string) {
	if dsn == "" {
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		log.Printf("sentry initialization failed: %v", err)
		return
	}
	initialized = true
}

// Capture sends an error to Sentry.
func Capture(err error) {
	if !initialized || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush waits for buffered events to be delivered, typically on shutdown.
func Flush(timeout time.Duration) {
	if !initialized {
		return
	}
	sentry.Flush(timeout)
}
