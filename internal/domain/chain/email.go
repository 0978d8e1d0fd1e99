package chain

import (
	"strings"
	"unicode"
)

// NormalizeEmail returns the form stored in the spread ledger.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.IndexFunc(email, isBlank) < 0
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// NormalizeEmails keeps the valid candidates in their first-seen order,
// without repetition.
func NormalizeEmails(candidates []string) []string {
	seen := map[string]struct{}{}
	result := []string{}
	for _, c := range candidates {
		email := NormalizeEmail(c)
		if !IsValidEmail(email) {
			continue
		}

		if _, ok := seen[email]; ok {
			continue
		}

		seen[email] = struct{}{}
		result = append(result, email)
	}

	return result
}
