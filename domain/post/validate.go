package post

import (
	"unicode"
	"unicode/utf8"
)

const MaxContentRunes = 280

type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidateContent enforces the posting rules before anything reaches
// the store: non-empty, at most 280 runes, emojis only.
func ValidateContent(content string) error {
	if content == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return &ValidationError{Field: "content", Reason: "must be at most 280 characters"}
	}
	for _, r := range content {
		if !emojiRune(r) {
			return &ValidationError{Field: "content", Reason: "only emojis are allowed"}
		}
	}
	return nil
}

func emojiRune(r rune) bool {
	switch r {
	case 0x200D, 0xFE0E, 0xFE0F, 0x20E3:
		// zero-width joiner, variation selectors, combining keycap
		return true
	case '#', '*':
		// keycap bases
		return true
	}
	if r >= '0' && r <= '9' {
		// keycap bases
		return true
	}
	if r >= 0x1F1E6 && r <= 0x1F1FF {
		// regional indicators (flag pairs)
		return true
	}
	return unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r)
}
