package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/chat"
	"github.com/MiguesFerreira/NexusDev/internal/handoff"
	"github.com/MiguesFerreira/NexusDev/internal/session"
	"github.com/MiguesFerreira/NexusDev/internal/whatsapp"
)

// Sender is the part of the Cloud API client the bot talks through.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendInteractiveButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) error
	SendList(ctx context.Context, to, body, buttonText string, sections []whatsapp.Section) error
	SendCTAButton(ctx context.Context, to, body, label, link string) error
}

// Reply ids of the interactive messages the bot sends.
const (
	replyPackage = "pkg:"
	replyAddOn   = "addon"
	replyBack    = "back"
	replyConfirm = "confirm"
)

const exitCommand = "sair"

var errRestart = errors.New("conversation finished")

// Handler runs one assistant conversation per WhatsApp number.
type Handler struct {
	wa       Sender
	catalog  *catalog.Catalog
	sched    chat.Scheduler
	number   string
	sessions *session.Manager[*chat.Conversation]
}

func NewHandler(wa Sender, c *catalog.Catalog, sched chat.Scheduler, number string) *Handler {
	return &Handler{
		wa:      wa,
		catalog: c,
		sched:   sched,
		number:  number,
		sessions: session.NewManager(func(phone string, conv *chat.Conversation) {
			conv.Close()
		}),
	}
}

func (h *Handler) HandleMessage(ctx context.Context, in whatsapp.Incoming) {
	phone := in.From
	logger := log.With().Str("phone", phone).Str("message_id", in.ID).Logger()

	if strings.EqualFold(strings.TrimSpace(in.Text), exitCommand) {
		if err := h.sessions.Delete(phone); err == nil {
			logger.Info().Msg("bot: conversation closed by visitor")
		}
		h.send(ctx, phone, msgGoodbye)
		return
	}

	err := h.sessions.WithLock(phone, func(conv *chat.Conversation) error {
		return h.dispatch(ctx, conv, in)
	})
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotFound):
		h.start(in)
	case errors.Is(err, errRestart):
		h.sessions.Delete(phone)
		h.start(in)
	case errors.Is(err, chat.ErrBusy):
		logger.Debug().Msg("bot: assistant still typing, message ignored")
	default:
		logger.Error().Err(err).Msg("bot: handling message failed")
	}
}

// Cleanup closes conversations idle for longer than maxAge.
func (h *Handler) Cleanup(maxAge time.Duration) int {
	return h.sessions.Cleanup(maxAge)
}

func (h *Handler) start(in whatsapp.Incoming) {
	phone := in.From
	conv := chat.New(h.catalog, chat.Options{
		Scheduler: h.sched,
		Number:    h.number,
		Listener:  channel{h: h, phone: phone},
		Opener: handoff.OpenerFunc(func(ctx context.Context, link string) error {
			return h.wa.SendCTAButton(ctx, phone, msgHandoff, labelHandoff, link)
		}),
	})
	h.sessions.Put(phone, conv)

	var entry chat.Entry
	if p, ok := h.catalog.Find(in.Text); ok {
		entry.Package = p.Name
	}
	log.Info().
		Str("phone", phone).
		Str("profile", in.Name).
		Str("package", entry.Package).
		Msg("bot: conversation started")
	conv.Open(entry)
}

func (h *Handler) dispatch(ctx context.Context, conv *chat.Conversation, in whatsapp.Incoming) error {
	err := h.act(ctx, conv, in)
	if err == nil || errors.Is(err, chat.ErrBusy) || !chat.IsRejection(err) {
		return err
	}
	log.Debug().Err(err).Str("phone", in.From).Msg("bot: action rejected, repeating prompt")
	h.nudge(ctx, in.From, conv)
	return nil
}

func (h *Handler) act(ctx context.Context, conv *chat.Conversation, in whatsapp.Incoming) error {
	switch conv.Stage() {
	case chat.StageEnteringName:
		return conv.SubmitName(in.Text)

	case chat.StageChoosingService:
		name := in.Text
		if id, ok := strings.CutPrefix(in.ReplyID, replyPackage); ok {
			name = id
		} else if p, ok := h.catalog.Find(in.Text); ok {
			name = p.Name
		}
		return conv.ChooseService(name)

	case chat.StagePackageDetails:
		switch in.ReplyID {
		case replyAddOn:
			_, err := conv.ToggleAddOn()
			return err
		case replyBack:
			return conv.Back()
		case replyConfirm:
			_, err := conv.Confirm(ctx)
			return err
		}
		return chat.ErrWrongStage

	case chat.StageHandedOff:
		return errRestart
	}
	return chat.ErrBusy
}

// nudge repeats what the visitor is expected to answer.
func (h *Handler) nudge(ctx context.Context, phone string, conv *chat.Conversation) {
	var err error
	switch conv.Stage() {
	case chat.StageEnteringName:
		err = h.wa.SendText(ctx, phone, msgAskNameAgain)
	case chat.StageChoosingService:
		err = h.sendOptions(ctx, phone)
	case chat.StagePackageDetails:
		if d, ok := conv.Details(); ok {
			err = h.sendDetails(ctx, phone, d)
		}
	}
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("bot: failed to repeat prompt")
	}
}

func (h *Handler) send(ctx context.Context, phone, text string) {
	if err := h.wa.SendText(ctx, phone, text); err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("bot: failed to send reply")
	}
}

func (h *Handler) sendOptions(ctx context.Context, phone string) error {
	bases := h.catalog.Bases()
	rows := make([]whatsapp.SectionRow, len(bases))
	for i, p := range bases {
		price := fmt.Sprintf("%s + %s/mês", handoff.FormatBRL(p.Price), handoff.FormatBRL(p.Maintenance))
		rows[i] = whatsapp.NewRow(replyPackage+p.ID, p.Name, price)
	}
	sections := []whatsapp.Section{{Title: "Pacotes", Rows: rows}}
	return h.wa.SendList(ctx, phone, msgPickPackage, labelPackages, sections)
}

func (h *Handler) sendDetails(ctx context.Context, phone string, d chat.Details) error {
	buttons := make([]whatsapp.Button, 0, whatsapp.MaxButtons)
	switch {
	case d.AddOnOffered && d.AddOnActive:
		buttons = append(buttons, whatsapp.NewReplyButton(replyAddOn, "Remover agendamento"))
	case d.AddOnOffered:
		buttons = append(buttons, whatsapp.NewReplyButton(replyAddOn, "Incluir agendamento"))
	}
	buttons = append(buttons,
		whatsapp.NewReplyButton(replyBack, "Voltar"),
		whatsapp.NewReplyButton(replyConfirm, "Confirmar"),
	)
	return h.wa.SendInteractiveButtons(ctx, phone, detailsText(d), buttons)
}

// channel relays a conversation's events to one WhatsApp number.
type channel struct {
	h     *Handler
	phone string
}

func (ch channel) Notify(e chat.Event) {
	// Paced steps fire long after the webhook request is gone.
	ctx := context.Background()

	var err error
	switch e.Kind {
	case chat.EventMessage:
		// The visitor's own lines already sit in their WhatsApp.
		if e.Message.Sender == chat.SenderAssistant {
			err = ch.h.wa.SendText(ctx, ch.phone, whatsappMarkup(e.Message.Text))
		}
	case chat.EventStage:
		switch {
		case e.Stage == chat.StageChoosingService:
			err = ch.h.sendOptions(ctx, ch.phone)
		case e.Stage == chat.StagePackageDetails && e.Details != nil:
			err = ch.h.sendDetails(ctx, ch.phone, *e.Details)
		}
	case chat.EventAddOn:
		if e.Details != nil {
			err = ch.h.sendDetails(ctx, ch.phone, *e.Details)
		}
	}
	if err != nil {
		log.Error().Err(err).Str("phone", ch.phone).Msg("bot: failed to relay event")
	}
}
