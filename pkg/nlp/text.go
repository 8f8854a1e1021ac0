// Package nlp holds the small text matching helpers used to relate a
// profile to a job description.
package nlp

import (
	"regexp"
	"strings"
)

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// Normalize приводит текст к нижнему регистру и заменяет всё, кроме букв,
// цифр, "+" и "#", на пробелы, чтобы "C++" и "C#" не терялись.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ContainsPhrase проверяет наличие фразы (уже нормализованной) как целых слов.
// Пример: "rest api" найдётся в " ... rest api ..." но не в " ... rest apis ..."
func ContainsPhrase(normalizedText, normalizedPhrase string) bool {
	if normalizedPhrase == "" {
		return false
	}
	hay := " " + normalizedText + " "
	needle := " " + normalizedPhrase + " "
	return strings.Contains(hay, needle)
}
