package questionnaire

import (
	"fmt"
	"maps"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
)

// Answers maps a question key to the chosen option.
type Answers map[string]string

// Clone returns an independent copy; nil stays nil.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// Line is one labelled answer, in question order.
type Line struct {
	Label  string `json:"label"`
	Answer string `json:"answer"`
}

// Lines lists the answered questions in presentation order. Keys that match
// no question are ignored.
func (a Answers) Lines() []Line {
	var out []Line
	for _, q := range questions {
		if v, ok := a[q.Key]; ok && v != "" {
			out = append(out, Line{Label: q.Label, Answer: v})
		}
	}
	return out
}

// Bullets renders Lines as "• Label: answer" strings.
func (a Answers) Bullets() []string {
	lines := a.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("• %s: %s", l.Label, l.Answer)
	}
	return out
}

// Validate checks that a could have been produced by a Stepper: every key
// names a question and every value is one of its options.
func (a Answers) Validate() error {
	known := 0
	for _, q := range questions {
		v, ok := a[q.Key]
		if !ok {
			continue
		}
		known++
		if !q.HasOption(v) {
			return fmt.Errorf("%s: %w", q.Key, ErrInvalidOption)
		}
	}
	if known != len(a) {
		return ErrUnknownKey
	}
	return nil
}

// Recommend picks the package that best fits the answers. Only the objective
// and the biggest pain are consulted; the first matching rule wins.
func Recommend(a Answers) string {
	objective, pain := a[KeyObjective], a[KeyPain]

	switch {
	case pain == PainSlowSite || objective == ObjectiveDirectSales:
		return catalog.React
	case objective == ObjectivePortfolio || objective == ObjectiveInstitutional:
		return catalog.Complete
	case objective == ObjectiveAuthority:
		return catalog.Professional
	default:
		return catalog.Basic
	}
}
