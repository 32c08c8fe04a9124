package chat

// EventKind says what changed in a conversation.
type EventKind int

const (
	EventMessage EventKind = iota + 1
	EventStage
	EventAddOn
	EventClosed
)

// Event is delivered to a Listener after the change is committed. Events of
// one conversation arrive in the order they happened.
type Event struct {
	Kind    EventKind
	Message Message
	Stage   Stage
	AddOn   bool
	// Details is set when the details card appears or its price changes.
	Details *Details
}

// Listener observes a conversation. Notify must not call back into the
// conversation that emitted the event.
type Listener interface {
	Notify(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) Notify(e Event) { f(e) }
