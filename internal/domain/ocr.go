package domain

// ExpiryCandidate is an expiry date detected in OCR text with its confidence in [0,1]
type ExpiryCandidate struct {
	Date       Date
	Confidence float64
}

// OCRResult is what the client consumes from one upload: the raw text and an
// optional expiry candidate. It is consumed once by reconciliation and then discarded.
type OCRResult struct {
	Filename string
	Text     string
	Expiry   *ExpiryCandidate
}

// ScoredDate is one date found in OCR text together with its heuristic score
type ScoredDate struct {
	Raw     string `json:"raw"`
	Parsed  Date   `json:"parsed"`
	Score   int    `json:"score"`
	Context string `json:"context"`
}

// ExpiryExtraction is the server-side result of scanning OCR text for an expiry date
type ExpiryExtraction struct {
	ExpiryDate Date         `json:"expiry_date"`
	Confidence float64      `json:"confidence"`
	Picked     *ScoredDate  `json:"picked"`
	Candidates []ScoredDate `json:"candidates"`
}

// OCRScan is the full response of the OCR endpoint
type OCRScan struct {
	Filename string           `json:"filename"`
	Text     string           `json:"text"`
	Expiry   ExpiryExtraction `json:"expiry"`
}

// Result narrows a scan to the contract the client consumes
func (s *OCRScan) Result() OCRResult {
	result := OCRResult{Filename: s.Filename, Text: s.Text}
	if !s.Expiry.ExpiryDate.IsZero() {
		result.Expiry = &ExpiryCandidate{
			Date:       s.Expiry.ExpiryDate,
			Confidence: s.Expiry.Confidence,
		}
	}
	return result
}
