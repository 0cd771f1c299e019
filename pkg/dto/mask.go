package dto

import (
	"strings"
	"unicode/utf8"
)

// MaskName keeps the first character: "홍길동" -> "홍**".
func MaskName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(name)
	rest := utf8.RuneCountInString(name[size:])
	if rest == 0 {
		return string(first)
	}

	return string(first) + strings.Repeat("*", rest)
}

// MaskTail hides everything but the last keep characters.
func MaskTail(s string, keep int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= keep {
		return strings.Repeat("*", len(runes))
	}

	return strings.Repeat("*", len(runes)-keep) + string(runes[len(runes)-keep:])
}

// MaskPhone keeps the last four digits and the separators.
func MaskPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	var b strings.Builder
	seen := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= digits-4 {
				b.WriteRune('*')
				continue
			}
		}
		b.WriteRune(r)
	}

	return b.String()
}

func maskedPtr(s *string, fn func(string) string) *string {
	if s == nil {
		return nil
	}
	masked := fn(*s)
	return &masked
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
