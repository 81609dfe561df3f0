package usecase

import (
	"testing"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

func TestExtractExpiry(t *testing.T) {
	today := domain.MustParseDate("2024-06-01")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso with keyword", "EXP 2024-12-20", "2024-12-20"},
		{"day first", "BEST BEFORE 12/06/2024", "2024-06-12"},
		{"dotted short year", "USE BY 20.12.25", "2025-12-20"},
		{"month name first", "BB DEC 20, 2024", "2024-12-20"},
		{"full month name", "Expires December 20 2024", "2024-12-20"},
		{"day then month name", "BBD 20 DEC 2024", "2024-12-20"},
		{"lower case", "best before 15/07/2024", "2024-07-15"},
		{"letter O between digits", "EXP 2O24-10-15", "2024-10-15"},
		{"no date", "FRESH BASIL", ""},
		{"impossible date", "EXP 31/02/2025", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractExpiry(tt.text, today)
			if got.ExpiryDate.String() != tt.want {
				t.Errorf("ExtractExpiry(%q) = %q, want %q", tt.text, got.ExpiryDate, tt.want)
			}
			if tt.want == "" && (got.Picked != nil || got.Confidence != 0) {
				t.Errorf("no date expected, got picked=%+v confidence=%v", got.Picked, got.Confidence)
			}
		})
	}
}

func TestExtractExpiry_PrefersExpiryOverReceiptDates(t *testing.T) {
	today := domain.MustParseDate("2024-06-01")
	text := "ORDER DATE 2024-05-20\nBEST BEFORE 2024-06-15"

	got := ExtractExpiry(text, today)

	if got.ExpiryDate != domain.MustParseDate("2024-06-15") {
		t.Errorf("ExpiryDate = %s, want 2024-06-15", got.ExpiryDate)
	}
	if len(got.Candidates) != 2 {
		t.Fatalf("Candidates = %d, want 2", len(got.Candidates))
	}
	if got.Candidates[0].Score <= got.Candidates[1].Score {
		t.Errorf("candidates not sorted by score: %+v", got.Candidates)
	}
}

func TestExtractExpiry_Confidence(t *testing.T) {
	today := domain.MustParseDate("2024-06-01")

	got := ExtractExpiry("EXP 2024-12-20", today)
	if got.Picked == nil || got.Picked.Score != 3 {
		t.Fatalf("Picked = %+v, want score 3", got.Picked)
	}
	if got.Confidence != 0.625 {
		t.Errorf("Confidence = %v, want 0.625", got.Confidence)
	}

	// a bare past date scores -4, which clamps to zero confidence
	past := ExtractExpiry("2024-01-02", today)
	if past.ExpiryDate != domain.MustParseDate("2024-01-02") || past.Confidence != 0 {
		t.Errorf("past date = %s confidence %v, want 2024-01-02 with 0", past.ExpiryDate, past.Confidence)
	}

	for score, want := range map[int]float64{-9: 0, -2: 0, 2: 0.5, 6: 1, 12: 1} {
		if got := scoreToConfidence(score); got != want {
			t.Errorf("scoreToConfidence(%d) = %v, want %v", score, got, want)
		}
	}
}

func TestExtractExpiry_TiesPickTheLaterDate(t *testing.T) {
	got := ExtractExpiry("EXP 2024-07-01 2024-08-01", domain.MustParseDate("2024-06-01"))
	if got.ExpiryDate != domain.MustParseDate("2024-08-01") {
		t.Errorf("ExpiryDate = %s, want 2024-08-01", got.ExpiryDate)
	}
}

func TestExtractExpiry_CapsCandidates(t *testing.T) {
	text := "EXP 01/07/2024\n02/07/2024\n03/07/2024\n04/07/2024\n05/07/2024\n06/07/2024\n07/07/2024"

	got := ExtractExpiry(text, domain.MustParseDate("2024-06-01"))
	if len(got.Candidates) != maxReturnCandidates {
		t.Errorf("Candidates = %d, want %d", len(got.Candidates), maxReturnCandidates)
	}
	if got.Picked == nil {
		t.Errorf("Picked = nil")
	}
}

func TestNormalizeOCRText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"exp 1O/1O/2O24", "EXP 1O/1O/2024"},
		{"1O5O7", "10507"},
		{"2O24", "2024"},
		{"OO1", "OO1"},
		{"best before", "BEST BEFORE"},
	}

	for _, tt := range tests {
		if got := normalizeOCRText(tt.in); got != tt.want {
			t.Errorf("normalizeOCRText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
