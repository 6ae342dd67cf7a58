package broken

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quay/addonrepo"
)

// Prompt texts. The English text is the catalog key.
const (
	msgBroken       = "This add-on has been marked broken by its repository (%s). Would you like to disable it?"
	msgDependencies = "This add-on's dependencies can no longer be met. Would you like to disable it?"
	msgDisable      = "Disable"
)

func init() {
	for _, m := range []struct {
		tag      language.Tag
		key, msg string
	}{
		{language.German, msgBroken, "Dieses Add-on wurde von seiner Paketquelle als defekt markiert (%s). Soll es deaktiviert werden?"},
		{language.German, msgDependencies, "Die Abhängigkeiten dieses Add-ons können nicht mehr erfüllt werden. Soll es deaktiviert werden?"},
		{language.German, msgDisable, "Deaktivieren"},
	} {
		if err := message.SetString(m.tag, m.key, m.msg); err != nil {
			panic(err)
		}
	}
}

// PromptText returns the message and confirm label used when asking to
// disable a package broken for "reason".
func promptText(p *message.Printer, reason string) (msg, confirm string) {
	if reason == addonrepo.BrokenDependenciesNotMet {
		msg = p.Sprintf(msgDependencies)
	} else {
		msg = p.Sprintf(msgBroken, reason)
	}
	return msg, p.Sprintf(msgDisable)
}
