package core

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxTitleLength bounds titles so the resulting file name stays portable.
const MaxTitleLength = 200

// ValidateTitle checks that a title can be used verbatim as a file name
// fragment inside the notes directory.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidTitle)
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d bytes", ErrInvalidTitle, MaxTitleLength)
	}
	if title == "." || title == ".." {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidTitle, title)
	}
	// Dot files in the notes directory are settings and temp files, never notes.
	if strings.HasPrefix(title, ".") {
		return fmt.Errorf("%w: title cannot start with a dot", ErrInvalidTitle)
	}
	if strings.TrimSpace(title) != title {
		return fmt.Errorf("%w: leading or trailing whitespace", ErrInvalidTitle)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character in title", ErrInvalidTitle)
		}
		if strings.ContainsRune(`/\<>:"|?*`, r) {
			return fmt.Errorf("%w: character %q not allowed", ErrInvalidTitle, r)
		}
	}
	return nil
}
