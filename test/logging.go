package test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// Setup adjusts the global zerolog settings exactly once.
var setup = sync.OnceFunc(func() {
	zerolog.DurationFieldUnit = time.Millisecond
})

// Logging returns a [context.Context] carrying a [zerolog.Logger] that writes
// to the provided [testing.TB] output.
func Logging(t testing.TB, parent ...context.Context) context.Context {
	setup()
	var ctx context.Context
	if len(parent) > 0 {
		ctx = parent[0]
	} else {
		// Don't use the test Context: users should pass that in if that's what
		// they want.
		ctx = context.Background()
	}
	l := zerolog.New(zerolog.NewTestWriter(t)).
		Level(zerolog.DebugLevel).
		With().
		Str("test", t.Name()).
		Logger()
	return l.WithContext(ctx)
}
