package shared

import (
	"regexp"
	"unicode/utf8"
)

// forbiddenChars matches characters that are unsafe in file names on common filesystems,
// plus the C0 and C1 control ranges.
var forbiddenChars = regexp.MustCompile(`[/?<>\\:*|"\x00-\x1f\x{80}-\x{9f}]`)

// TruncateRunes returns at most n characters of s, cutting on rune boundaries.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// SanitizeFilename builds an output file name from a track title.
//
// The title is cut to maxLen characters, ext is appended, and every forbidden character
// in the result is replaced with an underscore.
func SanitizeFilename(title, ext string, maxLen int) string {
	return forbiddenChars.ReplaceAllString(TruncateRunes(title, maxLen)+ext, "_")
}
