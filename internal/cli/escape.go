package cli

import (
	"strconv"
	"strings"
)

// Unescape turns escape sequences typed on the command line, such as \n
// or \t, into the characters they stand for. Values that are not valid
// escapes are returned unchanged.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	unquoted, err := strconv.Unquote(quoted)
	if err != nil {
		return s
	}
	return unquoted
}
