// Package prompt implements yes or no questions for the user.
package prompt

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// Terminal asks questions on the controlling terminal.
type Terminal struct {
	// Default is the answer selected when the user just presses enter.
	Default bool
}

type answer struct {
	ok  bool
	err error
}

// YesNo shows "title" as a header, then asks "message" with "confirm" as the
// affirmative choice.
//
// If the Context is canceled first, YesNo returns an error; the question
// stays on screen until answered.
func (t Terminal) YesNo(ctx context.Context, title, message, confirm string) (bool, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "prompt/Terminal.YesNo").
		Str("title", title).
		Logger()
	if err := ctx.Err(); err != nil {
		return false, addonrepo.Canceled(ctx, "prompt/Terminal.YesNo")
	}
	ch := make(chan answer, 1)
	go func() {
		pterm.DefaultSection.Println(title)
		ok, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(t.Default).
			WithConfirmText(confirm).
			Show(message)
		ch <- answer{ok: ok, err: err}
	}()
	select {
	case <-ctx.Done():
		return false, addonrepo.Canceled(ctx, "prompt/Terminal.YesNo")
	case a := <-ch:
		if a.err != nil {
			return false, &addonrepo.Error{
				Op:      "prompt/Terminal.YesNo",
				Kind:    addonrepo.ErrInternal,
				Message: fmt.Sprintf("unable to read answer to %q", title),
				Inner:   a.err,
			}
		}
		log.Debug().Bool("answer", a.ok).Msg("answered")
		return a.ok, nil
	}
}

// Always answers every question with its own value, without asking.
type Always bool

// YesNo implements the question by logging it.
func (a Always) YesNo(ctx context.Context, title, message, _ string) (bool, error) {
	zerolog.Ctx(ctx).Info().
		Str("component", "prompt/Always.YesNo").
		Str("title", title).
		Str("question", message).
		Bool("answer", bool(a)).
		Msg("answered without asking")
	return bool(a), nil
}
