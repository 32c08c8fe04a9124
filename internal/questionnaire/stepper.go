package questionnaire

import "errors"

var (
	ErrInvalidOption = errors.New("option does not belong to the current question")
	ErrCompleted     = errors.New("questionnaire already completed")
	ErrUnknownKey    = errors.New("answer does not belong to any question")
)

// CompleteFunc receives the full answer set once the last question is answered.
type CompleteFunc func(Answers)

// Stepper walks the intake one question at a time. It is not safe for
// concurrent use; callers serialise access per visitor.
type Stepper struct {
	questions  []Question
	index      int
	answers    Answers
	done       bool
	onComplete CompleteFunc
}

// NewStepper starts at the first question. onComplete may be nil.
func NewStepper(onComplete CompleteFunc) *Stepper {
	return &Stepper{
		questions:  Questions(),
		answers:    make(Answers),
		onComplete: onComplete,
	}
}

// Current returns the question awaiting an answer.
func (s *Stepper) Current() Question { return s.questions[s.index] }

// Index is the 0-based position of the current question.
func (s *Stepper) Index() int { return s.index }

// Total is the number of questions.
func (s *Stepper) Total() int { return len(s.questions) }

// Done reports whether the completion callback has fired.
func (s *Stepper) Done() bool { return s.done }

// Progress is the share of the intake reached, counting the current question.
func (s *Stepper) Progress() float64 {
	return float64(s.index+1) / float64(len(s.questions))
}

// Answers returns a copy of what has been recorded so far.
func (s *Stepper) Answers() Answers { return s.answers.Clone() }

// Selected returns the recorded answer for the current question, if any.
// It is set when the visitor went back to an already answered question.
func (s *Stepper) Selected() (string, bool) {
	v, ok := s.answers[s.Current().Key]
	return v, ok
}

// Select records option for the current question and advances. On the last
// question it marks the stepper done, fires the callback and returns true.
func (s *Stepper) Select(option string) (bool, error) {
	if s.done {
		return false, ErrCompleted
	}
	q := s.Current()
	if !q.HasOption(option) {
		return false, ErrInvalidOption
	}
	s.answers[q.Key] = option

	if s.index < len(s.questions)-1 {
		s.index++
		return false, nil
	}

	s.done = true
	if s.onComplete != nil {
		s.onComplete(s.answers.Clone())
	}
	return true, nil
}

// Back returns to the previous question, keeping every recorded answer.
// It reports false when already at the first question or done.
func (s *Stepper) Back() bool {
	if s.done || s.index == 0 {
		return false
	}
	s.index--
	return true
}
