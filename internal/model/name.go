package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalName trims surrounding whitespace and NFC-normalizes a player
// name so that visually identical names are stored byte-identical.
// Returns "" if nothing but whitespace remains.
func CanonicalName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
