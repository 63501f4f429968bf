package textutil

import (
	"regexp"
	"strings"
)

var separatorRegex = regexp.MustCompile(`[\s_-]+`)

// NormalizeName lowercases a name and removes whitespace, dashes and
// underscores so "Pick Rate", "pick-rate" and "pickrate" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return separatorRegex.ReplaceAllString(name, "")
}
