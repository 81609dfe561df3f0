package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// Scoring weights for date candidates found in OCR text
const (
	expiryKeywordBonus  = 3  // per expiry keyword near the date
	nonExpiryClueMalus  = 2  // per receipt/payment word near the date
	pastDateMalus       = 4  // past dates are usually order or receipt dates
	farFutureMalus      = 1  // more than farFutureYears ahead
	farFutureYears      = 3  // horizon for farFutureMalus
	contextRadius       = 40 // characters on each side of the date
	maxReturnCandidates = 5
)

var expiryKeywords = []string{
	"EXP", "EXPIRES", "EXPIRY", "EXPIRATION",
	"BEST BEFORE", "BEST-BEFORE", "BB", "BBD",
	"USE BY", "USE-BY",
}

var nonExpiryClues = []string{
	"ORDER", "TOTAL", "SUBTOTAL", "TAX", "VISA", "MASTERCARD",
	"AMOUNT", "BALANCE", "AUTH", "APPROVED", "TIME", "PM", "AM",
}

const monthAlternation = `(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|SEPT|OCT|NOV|DEC)`

// Date shapes, tried in order; each pattern contributes its own candidates
var datePatterns = []*regexp.Regexp{
	// 2025-12-20
	regexp.MustCompile(`\b(20\d{2})[-/.](\d{1,2})[-/.](\d{1,2})\b`),
	// 20/12/2025
	regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](20\d{2})\b`),
	// 20.12.25
	regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{2})\b`),
	// DEC 20, 2025
	regexp.MustCompile(`\b` + monthAlternation + `[A-Z]*\s+\d{1,2},?\s+(20\d{2})\b`),
	// 20 DEC 2025
	regexp.MustCompile(`\b\d{1,2}\s+` + monthAlternation + `[A-Z]*\s+(20\d{2})\b`),
}

var (
	isoDatePattern       = regexp.MustCompile(`^(20\d{2})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	dayFirstLongPattern  = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](20\d{2})$`)
	dayFirstShortPattern = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{2})$`)
	digitsPattern        = regexp.MustCompile(`^\d+$`)
)

var monthsByName = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March, "APR": time.April,
	"MAY": time.May, "JUN": time.June, "JUL": time.July, "AUG": time.August,
	"SEP": time.September, "SEPT": time.September, "OCT": time.October,
	"NOV": time.November, "DEC": time.December,
	"JANUARY": time.January, "FEBRUARY": time.February, "MARCH": time.March,
	"APRIL": time.April, "JUNE": time.June, "JULY": time.July, "AUGUST": time.August,
	"SEPTEMBER": time.September, "OCTOBER": time.October, "NOVEMBER": time.November,
	"DECEMBER": time.December,
}

type dateMatch struct {
	raw     string
	context string
}

// ExtractExpiry scans OCR text for the date most likely to be an expiry date.
// Candidates are scored by nearby keywords and by how plausible the date is
// relative to today; the best one is picked and its score mapped to a confidence.
func ExtractExpiry(text string, today domain.Date) domain.ExpiryExtraction {
	normalized := normalizeOCRText(text)

	scored := make([]domain.ScoredDate, 0)
	for _, m := range findDateStrings(normalized) {
		parsed, ok := parseDateString(m.raw)
		if !ok {
			continue
		}

		score := 0
		for _, kw := range expiryKeywords {
			if strings.Contains(m.context, kw) {
				score += expiryKeywordBonus
			}
		}
		for _, clue := range nonExpiryClues {
			if strings.Contains(m.context, clue) {
				score -= nonExpiryClueMalus
			}
		}
		if parsed.Before(today) {
			score -= pastDateMalus
		}
		if today.AddYears(farFutureYears).Before(parsed) {
			score -= farFutureMalus
		}

		scored = append(scored, domain.ScoredDate{
			Raw:     m.raw,
			Parsed:  parsed,
			Score:   score,
			Context: strings.TrimSpace(m.context),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[j].Parsed.Before(scored[i].Parsed)
	})

	result := domain.ExpiryExtraction{Candidates: scored}
	if len(scored) > maxReturnCandidates {
		result.Candidates = scored[:maxReturnCandidates]
	}

	if len(scored) > 0 {
		picked := scored[0]
		result.Picked = &picked
		result.ExpiryDate = picked.Parsed
		result.Confidence = scoreToConfidence(picked.Score)
	}

	return result
}

// scoreToConfidence maps a candidate score onto [0,1]; 6 and above is full confidence
func scoreToConfidence(score int) float64 {
	c := float64(score+2) / 8
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// normalizeOCRText upper-cases the text and repairs the letter O read between two digits
func normalizeOCRText(text string) string {
	upper := []byte(strings.ToUpper(text))
	out := make([]byte, len(upper))
	copy(out, upper)

	for i := 1; i+1 < len(upper); i++ {
		if upper[i] == 'O' && isDigit(upper[i-1]) && isDigit(upper[i+1]) {
			out[i] = '0'
		}
	}
	return string(out)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func findDateStrings(text string) []dateMatch {
	var matches []dateMatch
	for _, pattern := range datePatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			matches = append(matches, dateMatch{
				raw:     text[start:end],
				context: contextWindow(text, start, end),
			})
		}
	}
	return matches
}

// contextWindow returns up to contextRadius bytes around [start,end), widened to rune boundaries
func contextWindow(text string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}

	to := end + contextRadius
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	return text[from:to]
}

func parseDateString(raw string) (domain.Date, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", " "))

	if m := isoDatePattern.FindStringSubmatch(raw); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	// day-first is the common order on labels
	if m := dayFirstLongPattern.FindStringSubmatch(raw); m != nil {
		return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}

	if m := dayFirstShortPattern.FindStringSubmatch(raw); m != nil {
		return makeDate(2000+atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}

	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return domain.Date{}, false
	}

	// MON DD YYYY
	if month, ok := monthsByName[fields[0]]; ok && isDayToken(fields[1]) && isYearToken(fields[2]) {
		return makeDate(atoi(fields[2]), int(month), atoi(fields[1]))
	}

	// DD MON YYYY
	if month, ok := monthsByName[fields[1]]; ok && isDayToken(fields[0]) && isYearToken(fields[2]) {
		return makeDate(atoi(fields[2]), int(month), atoi(fields[0]))
	}

	return domain.Date{}, false
}

// makeDate rejects dates that time.Date would silently normalize (Feb 30, month 13)
func makeDate(year, month, day int) (domain.Date, bool) {
	if month < 1 || month > 12 || day < 1 {
		return domain.Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return domain.Date{}, false
	}
	return domain.DateOf(t), true
}

func isDayToken(s string) bool {
	return len(s) >= 1 && len(s) <= 2 && digitsPattern.MatchString(s)
}

func isYearToken(s string) bool {
	return len(s) == 4 && digitsPattern.MatchString(s)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
