package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameRunes = 120

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName keeps the base name of an upload, replacing separators and
// control characters with '_' and shortening long stems while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if strings.Trim(s, "_. ") == "" {
		return "", ErrInvalidFileName
	}

	if utf8.RuneCountInString(s) > maxFileNameRunes {
		ext := filepath.Ext(s)
		stem := []rune(strings.TrimSuffix(s, ext))
		keep := maxFileNameRunes - utf8.RuneCountInString(ext)
		if keep < 1 {
			keep = 1
			ext = ""
		}
		if len(stem) > keep {
			stem = stem[:keep]
		}
		s = string(stem) + ext
	}
	return s, nil
}
