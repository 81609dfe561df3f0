package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Matches quantity, price and date lines ("12", "4.99", "2024")
var digitRunPattern = regexp.MustCompile(`[0-9]{2,}`)

// DefaultStoplist holds receipt boilerplate words that disqualify a line as a product name
var DefaultStoplist = []string{
	"total", "subtotal", "tax", "change", "visa", "mastercard", "cash", "qty", "price",
}

const (
	defaultMinNameLength = 3
	defaultMaxNameLength = 28
)

// Lexicon configures which OCR lines may be taken as a product name
type Lexicon struct {
	Stoplist  []string
	MinLength int
	MaxLength int
}

// DefaultLexicon returns the built-in stoplist and length bounds
func DefaultLexicon() Lexicon {
	return Lexicon{
		Stoplist:  append([]string(nil), DefaultStoplist...),
		MinLength: defaultMinNameLength,
		MaxLength: defaultMaxNameLength,
	}
}

// NameGuesser picks a likely product name out of noisy OCR text
type NameGuesser struct {
	stoplist           []string
	minLength          int
	maxLength          int
	enableDebugLogging bool
}

// NewNameGuesser creates a guesser from a lexicon. Zero length bounds fall back to
// the defaults; a nil stoplist falls back to DefaultStoplist, an empty one disables it.
func NewNameGuesser(lexicon Lexicon, enableDebugLogging bool) *NameGuesser {
	stoplist := lexicon.Stoplist
	if stoplist == nil {
		stoplist = DefaultStoplist
	}

	lowered := make([]string, 0, len(stoplist))
	for _, word := range stoplist {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			lowered = append(lowered, word)
		}
	}

	minLength := lexicon.MinLength
	if minLength <= 0 {
		minLength = defaultMinNameLength
	}
	maxLength := lexicon.MaxLength
	if maxLength <= 0 {
		maxLength = defaultMaxNameLength
	}

	return &NameGuesser{
		stoplist:           lowered,
		minLength:          minLength,
		maxLength:          maxLength,
		enableDebugLogging: enableDebugLogging,
	}
}

// GuessName returns the first line of rawText that looks like a product name,
// or "" when nothing qualifies.
func (g *NameGuesser) GuessName(rawText string) string {
	if rawText == "" {
		return ""
	}

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if g.qualifies(line) {
			if g.enableDebugLogging {
				log.Printf("[OCR] Guessed name %q", line)
			}
			return line
		}
	}

	return ""
}

// qualifies checks the length bounds, the digit-run rule and the stoplist
func (g *NameGuesser) qualifies(line string) bool {
	length := utf8.RuneCountInString(line)
	if length < g.minLength || length > g.maxLength {
		return false
	}

	if digitRunPattern.MatchString(line) {
		return false
	}

	lower := strings.ToLower(line)
	for _, word := range g.stoplist {
		if strings.Contains(lower, word) {
			return false
		}
	}

	return true
}
