package rsvp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/vocabulary"
)

// Submission is a validated-shape RSVP form. Empty optional fields mean "not supplied".
type Submission struct {
	Name           string
	Email          string
	Attending      bool
	DessertChoice  string
	DessertTopping string
	Allergies      string
}

// Change is what a guest may alter through their update link.
type Change struct {
	Attending      bool
	DessertChoice  string
	DessertTopping string
	Allergies      string
}

// Normalizer turns submissions into canonical guest records.
type Normalizer struct {
	vocab *vocabulary.Vocabulary
}

// NewNormalizer creates a normalizer bound to a vocabulary
func NewNormalizer(vocab *vocabulary.Vocabulary) *Normalizer {
	return &Normalizer{vocab: vocab}
}

// Normalize cleans a new submission. The returned record has no identifier or
// creation time; those belong to the create path.
func (n *Normalizer) Normalize(s Submission) (models.GuestRecord, error) {
	rec := models.GuestRecord{
		Name:      TitleCase(s.Name),
		Email:     NormalizeEmail(s.Email),
		Attending: s.Attending,
	}

	var problems []FieldProblem
	if rec.Name == "" {
		problems = append(problems, FieldProblem{Field: FieldName, Reason: ReasonMissing})
	}
	if rec.Email == "" {
		problems = append(problems, FieldProblem{Field: FieldEmail, Reason: ReasonMissing})
	}
	problems = append(problems, n.gate(&rec, s.DessertChoice, s.DessertTopping, s.Allergies)...)

	if len(problems) > 0 {
		return models.GuestRecord{}, &ValidationError{Problems: problems}
	}
	return rec, nil
}

// ApplyChange re-applies attendance gating to an existing record.
// Identifier, name, email and creation time are carried over unchanged.
func (n *Normalizer) ApplyChange(existing models.GuestRecord, c Change) (models.GuestRecord, error) {
	rec := existing
	rec.Attending = c.Attending
	if problems := n.gate(&rec, c.DessertChoice, c.DessertTopping, c.Allergies); len(problems) > 0 {
		return models.GuestRecord{}, &ValidationError{Problems: problems}
	}
	return rec, nil
}

// FromRecord rebuilds the submission that would produce rec.
func FromRecord(rec models.GuestRecord) Submission {
	return Submission{
		Name:           rec.Name,
		Email:          rec.Email,
		Attending:      rec.Attending,
		DessertChoice:  rec.DessertChoice,
		DessertTopping: rec.DessertTopping,
		Allergies:      rec.Allergies,
	}
}

// gate enforces that the dessert fields exist exactly when the guest attends.
func (n *Normalizer) gate(rec *models.GuestRecord, choice, topping, allergies string) []FieldProblem {
	if !rec.Attending {
		rec.DessertChoice = ""
		rec.DessertTopping = ""
		rec.Allergies = ""
		return nil
	}

	var problems []FieldProblem
	choice = strings.TrimSpace(choice)
	topping = strings.TrimSpace(topping)

	var ok bool
	switch {
	case choice == "":
		problems = append(problems, FieldProblem{Field: FieldDessertChoice, Reason: ReasonMissing})
	default:
		if choice, ok = n.vocab.Desserts.Resolve(choice); !ok {
			problems = append(problems, FieldProblem{Field: FieldDessertChoice, Reason: ReasonUnknown})
		}
	}
	switch {
	case topping == "":
		problems = append(problems, FieldProblem{Field: FieldDessertTopping, Reason: ReasonMissing})
	default:
		if topping, ok = n.vocab.Toppings.Resolve(topping); !ok {
			problems = append(problems, FieldProblem{Field: FieldDessertTopping, Reason: ReasonUnknown})
		}
	}

	rec.DessertChoice = choice
	rec.DessertTopping = topping
	rec.Allergies = SentenceCase(allergies)
	return problems
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TitleCase upper-cases the first letter of each whitespace-separated word and
// lower-cases the rest, joining words with single spaces.
func TitleCase(name string) string {
	words := strings.Fields(norm.NFC.String(name))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// SentenceCase trims text and capitalises the first letter of each sentence.
// Other letters are left alone.
func SentenceCase(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	b.Grow(len(text))

	start, ended := true, false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if ended {
				start, ended = true, false
			}
		case start:
			r = unicode.ToUpper(r)
			start = false
			ended = isTerminator(r)
		default:
			ended = isTerminator(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
