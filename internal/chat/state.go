package chat

import (
	"errors"
	"slices"
	"time"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/questionnaire"
)

// Stage is the node of the dialogue the visitor is at.
type Stage string

const (
	StageWelcome         Stage = "WELCOME"
	StageEnteringName    Stage = "ENTERING_NAME"
	StageChoosingService Stage = "CHOOSING_SERVICE"
	StagePackageDetails  Stage = "PACKAGE_DETAILS"
	StageHandedOff       Stage = "HANDED_OFF"
)

// Sender tags who wrote a message.
type Sender string

const (
	SenderAssistant Sender = "assistant"
	SenderVisitor   Sender = "visitor"
)

var (
	ErrWrongStage       = errors.New("action not available at this stage")
	ErrBusy             = errors.New("assistant is still typing")
	ErrEmptyName        = errors.New("company name is empty")
	ErrUnknownPackage   = errors.New("unknown package")
	ErrAddOnUnavailable = errors.New("package already includes the scheduling add-on")
)

// Message is one line of the transcript.
type Message struct {
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Entry is how the visitor reached the assistant. Both fields are optional;
// Answers takes precedence over Package.
type Entry struct {
	Package string
	Answers questionnaire.Answers
}

// State is the per-session record of the dialogue.
type State struct {
	Stage       Stage
	Messages    []Message
	CompanyName string
	Selected    *catalog.Package
	AddOn       bool
	Answers     questionnaire.Answers
	// Recommended is the questionnaire suggestion; it is shown, never selected.
	Recommended string
	// Typing is set while scripted messages are still on their way. The
	// visitor cannot act until it clears.
	Typing bool
}

func initialState() State {
	return State{Stage: StageWelcome}
}

func (s State) clone() State {
	out := s
	out.Messages = slices.Clone(s.Messages)
	out.Answers = s.Answers.Clone()
	if s.Selected != nil {
		p := *s.Selected
		p.Bullets = slices.Clone(p.Bullets)
		out.Selected = &p
	}
	return out
}

// Details is what the package details card shows.
type Details struct {
	Package      catalog.Package
	AddOn        catalog.Package
	Quote        catalog.Quote
	AddOnOffered bool
	AddOnActive  bool
}
