package snippet

import (
	"strings"
	"unicode"
)

// snakeCase converts a CamelCase RPC name to snake_case. Acronym runs
// stay together: "CreateCustomClass" -> "create_custom_class",
// "GetIAMPolicy" -> "get_iam_policy".
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
