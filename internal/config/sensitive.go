package config

import "strings"

// sensitiveFragments are matched case-insensitively against key names.
// A value resolved through a key containing any of them is masked before
// it appears in any log message.
var sensitiveFragments = []string{
	"key", "token", "pass", "secret", "auth", "cred", "cert", "jwt",
}

// maskKeepRunes is how much of a sensitive value survives masking.
const maskKeepRunes = 5

// IsSensitiveKey reports whether a key name marks its value as sensitive.
func IsSensitiveKey(name string) bool {
	lower := strings.ToLower(name)
	for _, frag := range sensitiveFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// MaskValue truncates a sensitive value to its first five characters
// followed by an ellipsis. Short values are returned unchanged.
func MaskValue(value string) string {
	runes := []rune(value)
	if len(runes) <= maskKeepRunes {
		return value
	}
	return string(runes[:maskKeepRunes]) + "…"
}

// MaskIfSensitive masks value when the key name demands it.
func MaskIfSensitive(key, value string) string {
	if IsSensitiveKey(key) {
		return MaskValue(value)
	}
	return value
}
