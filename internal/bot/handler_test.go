package bot

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/chat"
	"github.com/MiguesFerreira/NexusDev/internal/whatsapp"
)

const visitor = "5511900000001"

type sent struct {
	kind    string
	to      string
	body    string
	buttons []whatsapp.Button
	rows    []whatsapp.SectionRow
	link    string
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []sent
}

func (f *fakeSender) record(s sent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, s)
	return nil
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	return f.record(sent{kind: "text", to: to, body: body})
}

func (f *fakeSender) SendInteractiveButtons(_ context.Context, to, body string, buttons []whatsapp.Button) error {
	return f.record(sent{kind: "buttons", to: to, body: body, buttons: buttons})
}

func (f *fakeSender) SendList(_ context.Context, to, body, _ string, sections []whatsapp.Section) error {
	var rows []whatsapp.SectionRow
	for _, s := range sections {
		rows = append(rows, s.Rows...)
	}
	return f.record(sent{kind: "list", to: to, body: body, rows: rows})
}

func (f *fakeSender) SendCTAButton(_ context.Context, to, body, _ string, link string) error {
	return f.record(sent{kind: "cta", to: to, body: body, link: link})
}

// take returns and forgets everything sent so far.
func (f *fakeSender) take() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.msgs
	f.msgs = nil
	return out
}

func newTestHandler() (*Handler, *fakeSender) {
	wa := &fakeSender{}
	return NewHandler(wa, catalog.Default(), chat.InlineScheduler{}, "5515996901137"), wa
}

func text(s string) whatsapp.Incoming {
	return whatsapp.Incoming{From: visitor, ID: "m", Text: s}
}

func reply(id, title string) whatsapp.Incoming {
	return whatsapp.Incoming{From: visitor, ID: "m", Text: title, ReplyID: id}
}

func kinds(msgs []sent) string {
	k := make([]string, len(msgs))
	for i, m := range msgs {
		k[i] = m.kind
	}
	return strings.Join(k, ",")
}

func buttonIDs(m sent) string {
	ids := make([]string, len(m.buttons))
	for i, b := range m.buttons {
		ids[i] = b.Reply.ID
	}
	return strings.Join(ids, ",")
}

func TestHandler_ColdStartToHandoff(t *testing.T) {
	h, wa := newTestHandler()
	ctx := context.Background()

	h.HandleMessage(ctx, text("Oi"))
	got := wa.take()
	if kinds(got) != "text,text" || !strings.Contains(got[1].body, "nome da sua empresa") {
		t.Fatalf("unexpected opening %+v", got)
	}

	h.HandleMessage(ctx, text("Beta Ltda"))
	got = wa.take()
	if kinds(got) != "text,list" {
		t.Fatalf("expected reply and package list, got %s", kinds(got))
	}
	if len(got[1].rows) != 4 || got[1].rows[0].ID != "pkg:basico" || got[1].rows[3].Title != catalog.React {
		t.Fatalf("unexpected rows %+v", got[1].rows)
	}
	if got[1].rows[0].Description != "R$ 500,00 + R$ 100,00/mês" {
		t.Errorf("unexpected row description %q", got[1].rows[0].Description)
	}

	h.HandleMessage(ctx, reply("pkg:basico", catalog.Basic))
	got = wa.take()
	if kinds(got) != "text,text,buttons" {
		t.Fatalf("expected acknowledgment and details, got %s", kinds(got))
	}
	details := got[2]
	if buttonIDs(details) != "addon,back,confirm" || !strings.Contains(details.body, "R$ 500,00") {
		t.Fatalf("unexpected details %+v", details)
	}

	h.HandleMessage(ctx, reply("addon", "Incluir agendamento"))
	got = wa.take()
	if len(got) != 1 || !strings.Contains(got[0].body, "*Investimento:* R$ 1.000,00") {
		t.Fatalf("expected updated details, got %+v", got)
	}
	if got[0].buttons[0].Reply.Title != "Remover agendamento" {
		t.Errorf("unexpected toggle title %q", got[0].buttons[0].Reply.Title)
	}

	h.HandleMessage(ctx, reply("confirm", "Confirmar"))
	got = wa.take()
	if len(got) != 1 || got[0].kind != "cta" {
		t.Fatalf("expected CTA button, got %+v", got)
	}
	u, err := url.Parse(got[0].link)
	if err != nil || u.Host != "wa.me" || u.Path != "/5515996901137" {
		t.Fatalf("unexpected link %q", got[0].link)
	}
	if msg := u.Query().Get("text"); !strings.Contains(msg, "*Beta Ltda*") ||
		!strings.Contains(msg, "Pacote Básico + Sistema de Agendamento") {
		t.Errorf("unexpected handoff text %q", msg)
	}

	// Anything after the handoff starts over.
	h.HandleMessage(ctx, text("Olá de novo"))
	got = wa.take()
	if kinds(got) != "text,text" || got[0].body != "Olá! Sou o assistente de negócios da Nexus Dev. 🚀" {
		t.Fatalf("expected a fresh greeting, got %+v", got)
	}
}

func TestHandler_PreselectedReact(t *testing.T) {
	h, wa := newTestHandler()
	ctx := context.Background()

	h.HandleMessage(ctx, text("Quero saber do pacote react"))
	got := wa.take()
	if kinds(got) != "text,text,text" || !strings.Contains(got[1].body, "Pacote React") {
		t.Fatalf("unexpected opening %+v", got)
	}

	h.HandleMessage(ctx, text("Acme"))
	got = wa.take()
	if kinds(got) != "text,text,buttons" {
		t.Fatalf("expected details after name, got %s", kinds(got))
	}
	if buttonIDs(got[2]) != "back,confirm" {
		t.Errorf("React must not offer the add-on, got %s", buttonIDs(got[2]))
	}
	if !strings.Contains(got[2].body, "R$ 3.500,00") || !strings.Contains(got[2].body, "já incluso") {
		t.Errorf("unexpected details body %q", got[2].body)
	}
}

func TestHandler_WordsContainingExtraStartCold(t *testing.T) {
	h, wa := newTestHandler()
	ctx := context.Background()

	h.HandleMessage(ctx, text("Olá, achei o site de vocês extraordinário!"))
	got := wa.take()
	if kinds(got) != "text,text" || !strings.Contains(got[1].body, "para começarmos") {
		t.Fatalf("expected cold start greeting, got %+v", got)
	}

	h.HandleMessage(ctx, text("Acme"))
	got = wa.take()
	if kinds(got) != "text,list" {
		t.Fatalf("expected reply and package list, got %s", kinds(got))
	}
	if strings.Contains(got[0].body, "agendamento") {
		t.Errorf("must not ask for a base for the add-on: %q", got[0].body)
	}
}

func TestHandler_LogsProfileNameOnStart(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	h, _ := newTestHandler()
	in := text("oi")
	in.Name = "Maria Souza"
	h.HandleMessage(context.Background(), in)

	if !strings.Contains(buf.String(), `"profile":"Maria Souza"`) {
		t.Errorf("expected profile name in start log, got %s", buf.String())
	}
}

func TestHandler_RepeatsPromptOnUnexpectedInput(t *testing.T) {
	h, wa := newTestHandler()
	ctx := context.Background()

	h.HandleMessage(ctx, text("Oi"))
	h.HandleMessage(ctx, text("Acme"))
	wa.take()

	h.HandleMessage(ctx, text("não sei"))
	got := wa.take()
	if kinds(got) != "list" {
		t.Fatalf("expected package list again, got %s", kinds(got))
	}

	h.HandleMessage(ctx, text("pacote completo"))
	got = wa.take()
	if kinds(got) != "text,text,buttons" || !strings.Contains(got[2].body, "R$ 1.500,00") {
		t.Fatalf("typed package name should select it, got %+v", got)
	}

	h.HandleMessage(ctx, text("hmm"))
	got = wa.take()
	if kinds(got) != "buttons" {
		t.Fatalf("expected details again, got %s", kinds(got))
	}

	h.HandleMessage(ctx, reply("back", "Voltar"))
	got = wa.take()
	if kinds(got) != "list" {
		t.Fatalf("Back should show the list, got %s", kinds(got))
	}
}

func TestHandler_ExitCommand(t *testing.T) {
	h, wa := newTestHandler()
	ctx := context.Background()

	h.HandleMessage(ctx, text("Oi"))
	wa.take()

	h.HandleMessage(ctx, text("  SAIR "))
	got := wa.take()
	if len(got) != 1 || got[0].body != msgGoodbye {
		t.Fatalf("expected goodbye, got %+v", got)
	}
	if _, ok := h.sessions.Get(visitor); ok {
		t.Fatal("session survived exit")
	}

	h.HandleMessage(ctx, text("Acme"))
	got = wa.take()
	if kinds(got) != "text,text" || !strings.Contains(got[0].body, "Olá!") {
		t.Fatalf("expected a new conversation, got %+v", got)
	}
}

func TestHandler_Cleanup(t *testing.T) {
	h, wa := newTestHandler()
	h.HandleMessage(context.Background(), text("Oi"))
	wa.take()

	if n := h.Cleanup(-1); n != 1 {
		t.Fatalf("expected 1 evicted conversation, got %d", n)
	}
	if len(wa.take()) != 0 {
		t.Error("eviction should not message the visitor")
	}
}

func TestWhatsappMarkup(t *testing.T) {
	got := whatsappMarkup("💡 o **Pacote React** é ideal")
	if got != "💡 o *Pacote React* é ideal" {
		t.Errorf("whatsappMarkup = %q", got)
	}
}
