package testutil

import (
	"time"

	"github.com/skosovsky/chatsy"
)

// NewTestDispatcher returns a Dispatcher with long timeout and panic recovery
// enabled, suitable for tests.
func NewTestDispatcher(tools ...chatsy.Tool) *chatsy.Dispatcher {
	d := chatsy.NewDispatcher(
		chatsy.WithDefaultTimeout(30*time.Second),
		chatsy.WithRecoverPanics(true),
	)
	for _, t := range tools {
		d.Register(t)
	}
	return d
}
