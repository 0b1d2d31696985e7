package candidate

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ExtractEmail returns the first email address found in the text, or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone number found in the text, or "".
func ExtractPhone(text string) string {
	return phonePattern.FindString(text)
}

// GuessName scans the first lines of a resume for something that looks like a
// person's name. When nothing matches, the filename (without extension) is
// used as a fallback.
func GuessName(text, fallbackFilename string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(strings.Fields(line)) > 4 {
			continue
		}
		if strings.ContainsFunc(line, unicode.IsDigit) {
			continue
		}
		return line
	}

	if fallbackFilename != "" {
		base := fallbackFilename
		if idx := strings.LastIndex(base, "."); idx > 0 {
			base = base[:idx]
		}
		return titleCase(strings.ReplaceAll(base, "_", " "))
	}

	return UnknownName
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
