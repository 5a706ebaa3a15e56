package util

import (
	"strings"
	"unicode/utf8"
)

// MaskEmail oculta el email para logs de nivel info:
// "ali.khan@example.com" -> "a…@e….com".
// Trabaja por runas, nunca corta un carácter multibyte.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.LastIndexByte(s, '@')
	if i <= 0 {
		if s == "" {
			return ""
		}
		if utf8.RuneCountInString(s) <= 3 {
			return "***"
		}
		return firstRune(s) + "…" + lastRune(s)
	}
	user, dom := s[:i], s[i+1:]
	if utf8.RuneCountInString(user) > 1 {
		user = firstRune(user) + "…"
	}
	dparts := strings.Split(dom, ".")
	if utf8.RuneCountInString(dparts[0]) > 1 {
		dparts[0] = firstRune(dparts[0]) + "…"
	}
	return user + "@" + strings.Join(dparts, ".")
}

func firstRune(s string) string {
	_, n := utf8.DecodeRuneInString(s)
	return s[:n]
}

func lastRune(s string) string {
	_, n := utf8.DecodeLastRuneInString(s)
	return s[len(s)-n:]
}
