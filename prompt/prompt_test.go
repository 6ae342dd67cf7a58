package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/test"
)

func TestAlways(t *testing.T) {
	ctx := test.Logging(t)
	for _, want := range []bool{true, false} {
		got, err := Always(want).YesNo(ctx, "Title", "Question?", "Yes")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got: %v, want: %v", got, want)
		}
	}
}

func TestTerminalCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(test.Logging(t))
	cancel()
	_, err := Terminal{}.YesNo(ctx, "Title", "Question?", "Yes")
	if !errors.Is(err, addonrepo.ErrCanceled) {
		t.Errorf("unexpected error: %v", err)
	}
}
