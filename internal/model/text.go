package model

import "unicode/utf8"

// TextLength counts runes, which is what the length limits are measured in.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}

// TooLong reports whether s exceeds TextValueMaxLength.
func TooLong(s string) bool {
	return TextLength(s) > TextValueMaxLength
}

// SplitString splits text after n runes.
//
// A negative n, or one past the end of text, returns the whole text and an empty tail.
func SplitString(text string, n int) (string, string) {
	if n < 0 || n > TextLength(text) {
		return text, ""
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos], text[pos:]
		}
		i++
	}
	return text, ""
}

// Truncate keeps at most n runes of text.
func Truncate(text string, n int) string {
	head, _ := SplitString(text, n)
	return head
}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
