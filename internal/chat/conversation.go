// Package chat implements NexusIA, the scripted sales assistant: a small
// dialogue that collects the visitor's company, settles on a package and
// produces the WhatsApp handoff.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/handoff"
	"github.com/MiguesFerreira/NexusDev/internal/questionnaire"
)

// Pacing holds the cosmetic delays between scripted messages.
type Pacing struct {
	Greeting       time.Duration // after the greeting, before the context follow-up
	Recommendation time.Duration // between the answer summary and the suggestion
	Reply          time.Duration // after the company name
	Ack            time.Duration // after a package is chosen
	Reveal         time.Duration // before the details card appears
}

func DefaultPacing() Pacing {
	return Pacing{
		Greeting:       800 * time.Millisecond,
		Recommendation: time.Second,
		Reply:          600 * time.Millisecond,
		Ack:            500 * time.Millisecond,
		Reveal:         800 * time.Millisecond,
	}
}

// Options configures a Conversation. Zero values fall back to defaults.
type Options struct {
	Scheduler Scheduler
	Pacing    *Pacing
	Opener    handoff.Opener
	Number    string
	Listener  Listener
	Now       func() time.Time
}

// Conversation is one visitor's session with the assistant. It is safe for
// concurrent use; paced steps run on the scheduler's goroutines.
type Conversation struct {
	catalog  *catalog.Catalog
	sched    Scheduler
	pacing   Pacing
	opener   handoff.Opener
	number   string
	listener Listener
	now      func() time.Time

	mu sync.Mutex
	// epoch identifies the live session; paced steps from an older epoch are dropped.
	epoch  uint64
	state  State
	link   string
	steps  []step
	events []Event

	// delivery keeps listener events in commit order across goroutines.
	delivery sync.Mutex
}

type step struct {
	delay time.Duration
	epoch uint64
	fn    func()
}

func New(c *catalog.Catalog, opts Options) *Conversation {
	conv := &Conversation{
		catalog:  c,
		sched:    opts.Scheduler,
		pacing:   DefaultPacing(),
		opener:   opts.Opener,
		number:   opts.Number,
		listener: opts.Listener,
		now:      opts.Now,
		state:    initialState(),
	}
	if conv.sched == nil {
		conv.sched = InlineScheduler{}
	}
	if opts.Pacing != nil {
		conv.pacing = *opts.Pacing
	}
	if conv.opener == nil {
		conv.opener = handoff.Nop
	}
	if conv.number == "" {
		conv.number = handoff.DefaultNumber
	}
	if conv.now == nil {
		conv.now = time.Now
	}
	return conv
}

// Open starts a fresh session from the given entry context, discarding
// anything left from a previous one.
func (c *Conversation) Open(e Entry) {
	c.apply(func() error {
		c.reset()
		c.say(msgGreeting)
		c.state.Typing = true

		if len(e.Answers) > 0 {
			c.openFromQuestionnaire(e.Answers)
			return nil
		}

		if pkg, err := c.catalog.Get(e.Package); err == nil {
			c.openFromPackage(pkg)
			return nil
		} else if e.Package != "" {
			log.Debug().Str("package", e.Package).Msg("chat: unknown preselection, starting cold")
		}

		c.later(c.pacing.Greeting, func() {
			c.say(msgAskNameColdStart)
			c.enter(StageEnteringName)
		})
		return nil
	})
}

func (c *Conversation) openFromQuestionnaire(answers questionnaire.Answers) {
	c.state.Answers = answers.Clone()
	suggestion := questionnaire.Recommend(answers)
	c.state.Recommended = suggestion

	c.later(c.pacing.Greeting, func() {
		c.say(msgAnswersReceived)
		c.say(strings.Join(c.state.Answers.Bullets(), "\n"))
		c.later(c.pacing.Recommendation, func() {
			c.say(msgRecommendation(suggestion))
			c.say(msgAskNameProposal)
			c.enter(StageEnteringName)
		})
	})
}

func (c *Conversation) openFromPackage(pkg catalog.Package) {
	if pkg.AddOn {
		c.say(msgInterestAddOn)
		c.state.AddOn = true
	} else {
		c.say(msgInterest(pkg.Name))
		c.state.Selected = &pkg
	}

	c.later(c.pacing.Greeting, func() {
		c.say(msgAskNameForDetails)
		c.enter(StageEnteringName)
	})
}

// SubmitName records the visitor's company. Blank input changes nothing.
func (c *Conversation) SubmitName(name string) error {
	return c.apply(func() error {
		if err := c.ready(StageEnteringName); err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrEmptyName
		}

		c.state.CompanyName = name
		c.hear(name)
		c.state.Typing = true

		c.later(c.pacing.Reply, func() {
			if c.state.Selected == nil && !c.state.AddOn {
				c.say(msgNiceToMeet(name))
				c.enter(StageChoosingService)
				return
			}

			c.say(msgExcellentChoice(name))
			c.say(msgDetailsIntro)
			if c.state.Selected == nil {
				// The add-on needs a base package first.
				c.say(msgPickBaseForAddOn)
				c.enter(StageChoosingService)
				return
			}
			c.enter(StagePackageDetails)
		})
		return nil
	})
}

// ChooseService selects one of the base packages.
func (c *Conversation) ChooseService(name string) error {
	return c.apply(func() error {
		if err := c.ready(StageChoosingService); err != nil {
			return err
		}
		pkg, err := c.catalog.Get(name)
		if err != nil || pkg.AddOn {
			return fmt.Errorf("%w: %q", ErrUnknownPackage, name)
		}

		c.state.Selected = &pkg
		if !pkg.AcceptsAddOn() {
			c.state.AddOn = false
		}
		c.hear(msgVisitorInterest(pkg.Name))
		c.state.Typing = true

		c.later(c.pacing.Ack, func() {
			c.say(msgGreatChoice(pkg.Name))
			c.say(msgPreparingDetails)
			c.later(c.pacing.Reveal, func() {
				c.enter(StagePackageDetails)
			})
		})
		return nil
	})
}

// ToggleAddOn flips the scheduling add-on and returns the new value.
func (c *Conversation) ToggleAddOn() (bool, error) {
	var on bool
	err := c.apply(func() error {
		if err := c.ready(StagePackageDetails); err != nil {
			return err
		}
		if !c.state.Selected.AcceptsAddOn() {
			return ErrAddOnUnavailable
		}
		c.state.AddOn = !c.state.AddOn
		on = c.state.AddOn
		d, _ := c.details()
		c.emit(Event{Kind: EventAddOn, AddOn: on, Details: &d})
		return nil
	})
	return on, err
}

// Back returns to the package list and drops the add-on.
func (c *Conversation) Back() error {
	return c.apply(func() error {
		if err := c.ready(StagePackageDetails); err != nil {
			return err
		}
		if c.state.AddOn {
			c.state.AddOn = false
			c.emit(Event{Kind: EventAddOn, AddOn: false})
		}
		c.enter(StageChoosingService)
		return nil
	})
}

// Confirm builds the handoff link, hands it to the opener and returns it.
// Opener failures are logged; they never change the conversation.
func (c *Conversation) Confirm(ctx context.Context) (string, error) {
	var link string
	err := c.apply(func() error {
		if c.state.Stage == StageHandedOff {
			link = c.link
			return nil
		}
		if err := c.ready(StagePackageDetails); err != nil {
			return err
		}

		pkg := *c.state.Selected
		summary := handoff.Summary{
			Company: c.state.CompanyName,
			Package: pkg,
			Quote:   c.catalog.Quote(pkg, c.state.AddOn),
			Answers: c.state.Answers,
		}
		c.link = handoff.Link(c.number, summary.Text())
		link = c.link
		c.enter(StageHandedOff)
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := c.opener.Open(ctx, link); err != nil {
		log.Warn().Err(err).Msg("chat: opening handoff link failed")
	}
	return link, nil
}

// Close ends the session. Paced messages still on their way are discarded.
func (c *Conversation) Close() {
	c.apply(func() error {
		c.reset()
		c.emit(Event{Kind: EventClosed, Stage: StageWelcome})
		return nil
	})
}

// Snapshot returns a copy of the current state.
func (c *Conversation) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Stage is a shortcut for Snapshot().Stage.
func (c *Conversation) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Stage
}

// Link is the handoff link, empty until the conversation is handed off.
func (c *Conversation) Link() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.link
}

// Options lists the packages offered while choosing a service.
func (c *Conversation) Options() []catalog.Package {
	return c.catalog.Bases()
}

// Details describes the selected package with the current pricing. It
// reports false when nothing is selected yet.
func (c *Conversation) Details() (Details, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details()
}

func (c *Conversation) details() (Details, bool) {
	if c.state.Selected == nil {
		return Details{}, false
	}
	pkg := *c.state.Selected
	q := c.catalog.Quote(pkg, c.state.AddOn)
	return Details{
		Package:      pkg,
		AddOn:        c.catalog.AddOn(),
		Quote:        q,
		AddOnOffered: pkg.AcceptsAddOn(),
		AddOnActive:  q.WithAddOn,
	}, true
}

// ready checks that the visitor may act at stage.
func (c *Conversation) ready(stage Stage) error {
	if c.state.Typing {
		return ErrBusy
	}
	if c.state.Stage != stage {
		return fmt.Errorf("%w: %s", ErrWrongStage, c.state.Stage)
	}
	return nil
}

func (c *Conversation) reset() {
	c.epoch++
	c.state = initialState()
	c.link = ""
	c.steps = nil
}

func (c *Conversation) say(text string) { c.append(SenderAssistant, text) }

func (c *Conversation) hear(text string) { c.append(SenderVisitor, text) }

func (c *Conversation) append(from Sender, text string) {
	m := Message{Sender: from, Text: text, At: c.now()}
	c.state.Messages = append(c.state.Messages, m)
	c.emit(Event{Kind: EventMessage, Message: m})
}

func (c *Conversation) enter(stage Stage) {
	c.state.Stage = stage
	c.state.Typing = false
	e := Event{Kind: EventStage, Stage: stage}
	if d, ok := c.details(); ok && stage == StagePackageDetails {
		e.Details = &d
	}
	c.emit(e)
}

func (c *Conversation) emit(e Event) {
	if c.listener != nil {
		c.events = append(c.events, e)
	}
}

// later queues fn for the current session; it is dispatched once the lock is released.
func (c *Conversation) later(delay time.Duration, fn func()) {
	c.steps = append(c.steps, step{delay: delay, epoch: c.epoch, fn: fn})
}

// apply runs fn under the lock, then delivers the events it produced and
// hands its paced steps to the scheduler.
func (c *Conversation) apply(fn func() error) error {
	c.mu.Lock()
	err := fn()
	steps, events := c.steps, c.events
	c.steps, c.events = nil, nil
	c.delivery.Lock()
	c.mu.Unlock()

	for _, e := range events {
		c.listener.Notify(e)
	}
	c.delivery.Unlock()

	for _, s := range steps {
		c.sched.After(s.delay, func() { c.run(s) })
	}
	return err
}

func (c *Conversation) run(s step) {
	c.apply(func() error {
		if s.epoch != c.epoch {
			return nil
		}
		s.fn()
		return nil
	})
}

// IsRejection reports whether err is one of the "do nothing" outcomes of a
// visitor action, as opposed to a failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrWrongStage) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrUnknownPackage) ||
		errors.Is(err, ErrAddOnUnavailable)
}
