// Package ocr turns text recognised from identity documents into profile prefill suggestions.
package ocr

import (
	"regexp"
	"strings"
)

// Keys of the map returned by ExtractFields
const (
	FieldName        = "name"
	FieldDateOfBirth = "dateOfBirth"
	FieldPhone       = "phone"
	FieldNationality = "nationality"
	FieldGender      = "gender"
	FieldAddress     = "address"
)

var (
	capitalisedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
	dateInLine      = regexp.MustCompile(`\b(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})\b`)
	phoneInLine     = regexp.MustCompile(`\b0\d{9}\b`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]+`)
)

// ExtractFields scans the lines of recognised text and returns whatever fields it can identify.
// Bilingual documents print "<local> | <English>" so the part after the first pipe is preferred.
func ExtractFields(text string) map[string]string {
	lines := splitLines(text)
	out := make(map[string]string)

	for i, line := range lines {
		if i == 0 {
			if eng, ok := englishPart(line); ok {
				out[FieldName] = eng
			} else if len(capitalisedWord.FindAllString(line, -1)) >= 2 {
				out[FieldName] = line
			}
		}

		if _, done := out[FieldDateOfBirth]; !done && strings.ContainsAny(line, "/-") {
			if m := dateInLine.FindStringSubmatch(line); m != nil {
				out[FieldDateOfBirth] = m[1]
			}
		}

		if _, done := out[FieldPhone]; !done {
			if m := phoneInLine.FindString(line); m != "" {
				out[FieldPhone] = m
			}
		}

		if _, done := out[FieldNationality]; !done && strings.Contains(strings.ToLower(line), "ethiopian") {
			out[FieldNationality] = "Ethiopian"
		}

		if _, done := out[FieldGender]; !done {
			if g := gender(line); g != "" {
				out[FieldGender] = g
			}
		}

		if _, done := out[FieldAddress]; !done && hasLetter.MatchString(line) && capitalisedWord.MatchString(line) {
			out[FieldAddress] = line
		}
	}

	if _, ok := out[FieldName]; !ok {
		for _, line := range lines {
			if len(capitalisedWord.FindAllString(line, -1)) >= 2 {
				if eng, ok := englishPart(line); ok {
					out[FieldName] = eng
				} else {
					out[FieldName] = line
				}
				break
			}
		}
	}

	return out
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func englishPart(line string) (string, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return "", false
	}
	eng := strings.TrimSpace(parts[1])
	return eng, eng != ""
}

// gender checks "female" first since it contains "male".
func gender(line string) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "female"):
		return "Female"
	case strings.Contains(lower, "male"):
		return "Male"
	}
	return ""
}
