package entry

import (
	"fmt"
	"unicode/utf8"
)

// Recommended lengths for entry text. These are advisory only: storage
// never rejects an entry for exceeding them.
const (
	TitleMinLen = 1
	TitleMaxLen = 10
	BodyMaxLen  = 1000
)

// Advise returns human-readable warnings for fields outside the recommended
// lengths. An empty result means the entry is within every recommendation.
func Advise(title, body string) []string {
	var warnings []string
	if n := utf8.RuneCountInString(title); n < TitleMinLen || n > TitleMaxLen {
		warnings = append(warnings, fmt.Sprintf("title is %d characters (recommended %d-%d)", n, TitleMinLen, TitleMaxLen))
	}
	if n := utf8.RuneCountInString(body); n > BodyMaxLen {
		warnings = append(warnings, fmt.Sprintf("body is %d characters (recommended at most %d)", n, BodyMaxLen))
	}
	return warnings
}
