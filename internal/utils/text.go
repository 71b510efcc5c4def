package utils

import (
	"regexp"
	"strings"
)

func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}

// Conversational filler tokens stripped from answers before scoring. These
// come from voice-transcribed sessions where control words and acknowledgements
// leak into the answer text.
var fillerTokens = map[string]bool{
	"start":  true,
	"stop":   true,
	"pause":  true,
	"resume": true,
	"ok":     true,
	"okay":   true,
	"yeah":   true,
	"yes":    true,
	"no":     true,
	"umm":    true,
	"um":     true,
	"uh":     true,
	"hmm":    true,
	"please": true,
	"thanks": true,
	"thank":  true,
	"hello":  true,
	"hi":     true,
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanAnswer trims the raw answer, strips filler tokens, and collapses
// whitespace. The second return value is the number of tokens that survived
// cleaning, which callers use to reject noise-only input.
func CleanAnswer(raw string) (string, int) {
	tokens := strings.Fields(strings.TrimSpace(raw))
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		normalized := strings.ToLower(strings.Trim(tok, ".,!?;:"))
		if fillerTokens[normalized] {
			continue
		}
		kept = append(kept, tok)
	}
	cleaned := whitespaceRe.ReplaceAllString(strings.Join(kept, " "), " ")
	return strings.TrimSpace(cleaned), len(kept)
}

// IsNoiseAnswer reports whether a raw answer is junk: nothing meaningful
// survives cleaning, or the input was only a handful of tokens all of which
// were filler.
func IsNoiseAnswer(raw string) bool {
	cleaned, keptTokens := CleanAnswer(raw)
	if len(cleaned) < 3 {
		return true
	}
	rawTokens := len(strings.Fields(strings.TrimSpace(raw)))
	return keptTokens == 0 && rawTokens <= 5
}

// StripFences removes markdown code-fence lines from provider output and
// trims the result. Providers regularly wrap JSON in ```json blocks despite
// being told not to.
func StripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
