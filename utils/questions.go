package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tieubaoca/feasibility-be/types"
)

// questionPattern matches "Q<n>" followed by ".", ":" or "!", the question
// body up to and including its terminator, and an optional hint written as
// "(...)", "- Example: ...," or "Example: ...,".
var questionPattern = regexp.MustCompile(
	`(?i)Q(\p{Nd}+)[.:!]\s*([^?!.]+[?!.])\s*(?:\(([^)]+)\)|- Example: ([^,]+),|Example: ([^,]+),)?`,
)

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")", "{", "(", "}", ")")

// ParseQuestions extracts the numbered questions and their hints from an LLM
// completion. It never fails: text it cannot make sense of yields fewer
// questions, possibly none. A question number seen twice keeps the last value.
func ParseQuestions(response string) *types.QuestionSet {
	text := bracketReplacer.Replace(collapseWhitespace(response))
	questions := types.NewQuestionSet()

	for pos := 0; pos < len(text); {
		loc := questionPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		if !isWordBoundary(text, loc[0]) {
			// "xQ1:" is not a marker; resume right after the rejected "Q"
			_, size := utf8.DecodeRuneInString(text[loc[0]:])
			pos = loc[0] + size
			continue
		}

		number := text[loc[2]:loc[3]]
		question := strings.TrimSpace(text[loc[4]:loc[5]])
		hint := types.NO_HINT_PROVIDED
		for group := 3; group <= 5; group++ {
			start, end := loc[2*group], loc[2*group+1]
			if start >= 0 && end > start {
				hint = strings.TrimSpace(text[start:end])
				break
			}
		}
		questions.Set("Q"+number, types.ParsedQuestion{Text: question, Hint: hint})
		pos = loc[1]
	}

	return questions
}

// collapseWhitespace turns every run of whitespace into a single space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace also treats the ASCII information separators (FS, GS, RS, US) as
// whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isWordBoundary reports whether the word character at offset i starts a word.
func isWordBoundary(s string, i int) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(prev)
}
