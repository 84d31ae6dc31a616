package identity

import (
	"strings"

	"github.com/migraplan/portal-server/internal/model"
)

// Known provider error phrases. The hosted service reports failures as
// message strings only, so classification is by substring; every match
// must have a test case, and anything unmatched stays Unknown with the
// original message preserved for display.
var knownPhrases = []struct {
	phrase string
	kind   model.ErrorKind
}{
	{"User already registered", model.KindAlreadyRegistered},
	{"has already been registered", model.KindAlreadyRegistered},
	{"Password should be at least", model.KindWeakCredential},
	{"Signup requires a valid password", model.KindWeakCredential},
	{"Invalid login credentials", model.KindInvalidCredential},
	{"Email not confirmed", model.KindInvalidCredential},
	{"User not found", model.KindNotFound},
}

// translateError maps a provider error message to a categorized error.
func translateError(message string) *model.Error {
	for _, known := range knownPhrases {
		if strings.Contains(message, known.phrase) {
			return model.NewError(known.kind, message)
		}
	}
	return model.NewError(model.KindUnknown, message)
}
