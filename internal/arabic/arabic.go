// Package arabic canonicalizes Arabic place-name text so that dialect and
// orthography variants of the same name compare equal.
package arabic

import (
	"regexp"
	"strings"
)

// Leading attachment clitics: definite article plus common preposition and
// conjunction prefixes that get glued onto place names in channel messages.
var clitics = regexp.MustCompile(`^(ال|ل|لل|بال|ول|في|عن|من|عند|وال)`)

// Letter folds collapsing orthographic variants to one canonical letter:
// taa marbuta to haa, alef-hamza variants to bare alef.
var letterFolds = strings.NewReplacer(
	"ة", "ه",
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
)

// Normalize returns the canonical form of text. It is pure, deterministic and
// idempotent; empty input yields the empty string. The same function must be
// applied to checkpoint names at registration and to message text at match
// time, otherwise substring matching breaks.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = letterFolds.Replace(strings.TrimSpace(text))
	// Strip clitics to a fixed point so a folded form that re-exposes a
	// prefix (e.g. آل -> ال) still collapses to the same canonical name.
	for {
		stripped := clitics.ReplaceAllString(text, "")
		if stripped == text {
			break
		}
		text = stripped
	}
	return strings.TrimSpace(text)
}
