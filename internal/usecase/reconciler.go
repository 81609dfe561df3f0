package usecase

import "github.com/AlvinMun/bestbeforeai/internal/domain"

// Reconciliation is the outcome of merging one OCR result into the add-item form
type Reconciliation struct {
	Form domain.FormState

	// Confidence of the detected expiry date, nil when no date was detected.
	// Display only: nothing is gated on it.
	Confidence *float64

	// Mode is the tab to switch to so the user can confirm the reconciled fields
	Mode domain.Tab

	NameGuessed   bool
	ExpiryApplied bool
}

// Reconciler merges OCR output into user-editable form state without clobbering user input
type Reconciler struct {
	guesser *NameGuesser
}

// NewReconciler creates a reconciler backed by the given name guesser
func NewReconciler(guesser *NameGuesser) *Reconciler {
	if guesser == nil {
		guesser = NewNameGuesser(DefaultLexicon(), false)
	}
	return &Reconciler{guesser: guesser}
}

// Reconcile applies result to form:
//   - a detected expiry date always replaces the form's date
//   - a guessed name is only used when the form's name is empty
//   - storage is left alone
func (r *Reconciler) Reconcile(result domain.OCRResult, form domain.FormState) Reconciliation {
	out := Reconciliation{Form: form, Mode: domain.TabAdd}

	if result.Expiry != nil {
		confidence := result.Expiry.Confidence
		out.Confidence = &confidence

		if !result.Expiry.Date.IsZero() {
			out.Form.ExpiryDate = result.Expiry.Date
			out.ExpiryApplied = true
		}
	}

	if guess := r.guesser.GuessName(result.Text); guess != "" && form.Name == "" {
		out.Form.Name = guess
		out.NameGuessed = true
	}

	return out
}
