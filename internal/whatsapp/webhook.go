package whatsapp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// MessageHandler is called for each inbound text, button or list reply.
type MessageHandler func(ctx context.Context, in Incoming)

type WebhookHandler struct {
	verifyToken string
	onMessage   MessageHandler
}

func NewWebhookHandler(verifyToken string, onMessage MessageHandler) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
	}
}

// HandleVerify handles the GET webhook verification from Meta.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/get-started#webhook-verification
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) == 1 {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	log.Warn().Str("mode", mode).Msg("webhook: verification rejected")
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications. Meta retries
// anything that is not a 200, so decode failures are logged and acknowledged.
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Error().Err(err).Msg("webhook: failed to decode payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				in, ok := toIncoming(msg)
				if !ok {
					log.Debug().Str("type", msg.Type).Str("from", msg.From).Msg("webhook: ignoring message")
					continue
				}
				in.Name = names[msg.From]
				h.onMessage(r.Context(), in)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

func toIncoming(msg Message) (Incoming, bool) {
	in := Incoming{From: msg.From, ID: msg.ID}
	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return in, false
		}
		in.Text = msg.Text.Body
		return in, true
	case "interactive":
		if msg.Interactive == nil {
			return in, false
		}
		var reply *ReplyItem
		switch msg.Interactive.Type {
		case "button_reply":
			reply = msg.Interactive.ButtonReply
		case "list_reply":
			reply = msg.Interactive.ListReply
		}
		if reply == nil {
			return in, false
		}
		in.Text, in.ReplyID = reply.Title, reply.ID
		return in, true
	}
	return in, false
}
