package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/chat"
	"github.com/MiguesFerreira/NexusDev/internal/questionnaire"
	"github.com/MiguesFerreira/NexusDev/internal/session"
)

type openChatRequest struct {
	Package string            `json:"package" validate:"max=64"`
	Answers map[string]string `json:"answers" validate:"omitempty,answers"`
}

type nameRequest struct {
	Name string `json:"name" validate:"max=120"`
}

type serviceRequest struct {
	Package string `json:"package" validate:"required,max=64"`
}

type detailsView struct {
	Package      catalog.Package `json:"package"`
	AddOn        catalog.Package `json:"add_on"`
	Quote        catalog.Quote   `json:"quote"`
	AddOnOffered bool            `json:"add_on_offered"`
	AddOnActive  bool            `json:"add_on_active"`
}

type chatView struct {
	ID          string            `json:"id"`
	Stage       chat.Stage        `json:"stage"`
	Typing      bool              `json:"typing"`
	Messages    []chat.Message    `json:"messages"`
	CompanyName string            `json:"company_name,omitempty"`
	Recommended string            `json:"recommended,omitempty"`
	Options     []catalog.Package `json:"options,omitempty"`
	Details     *detailsView      `json:"details,omitempty"`
	Link        string            `json:"link,omitempty"`
}

type actionResponse struct {
	Accepted bool     `json:"accepted"`
	Reason   string   `json:"reason,omitempty"`
	Chat     chatView `json:"chat"`
}

func newChatView(id string, conv *chat.Conversation) chatView {
	st := conv.Snapshot()
	v := chatView{
		ID:          id,
		Stage:       st.Stage,
		Typing:      st.Typing,
		Messages:    st.Messages,
		CompanyName: st.CompanyName,
		Recommended: st.Recommended,
		Link:        conv.Link(),
	}
	if v.Messages == nil {
		v.Messages = []chat.Message{}
	}
	switch st.Stage {
	case chat.StageChoosingService:
		v.Options = conv.Options()
	case chat.StagePackageDetails, chat.StageHandedOff:
		if d, ok := conv.Details(); ok {
			v.Details = &detailsView{
				Package:      d.Package,
				AddOn:        d.AddOn,
				Quote:        d.Quote,
				AddOnOffered: d.AddOnOffered,
				AddOnActive:  d.AddOnActive,
			}
		}
	}
	return v
}

func (s *Server) newConversation() *chat.Conversation {
	return chat.New(s.catalog, chat.Options{
		Scheduler: s.sched,
		Pacing:    s.pacing,
		Number:    s.number,
	})
}

func (s *Server) handleChatOpen(w http.ResponseWriter, r *http.Request) {
	var req openChatRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := s.newID()
	conv := s.newConversation()
	s.chats.Put(id, conv)
	conv.Open(chat.Entry{Package: req.Package, Answers: questionnaire.Answers(req.Answers)})

	log.Info().Str("chat", id).Str("package", req.Package).Int("answers", len(req.Answers)).Msg("chat opened")
	writeJSON(w, http.StatusCreated, newChatView(id, conv))
}

func (s *Server) handleChatGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view chatView
	err := s.chats.WithLock(id, func(conv *chat.Conversation) error {
		view = newChatView(id, conv)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleChatName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.act(w, r, func(conv *chat.Conversation) error {
		return conv.SubmitName(req.Name)
	})
}

func (s *Server) handleChatService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.act(w, r, func(conv *chat.Conversation) error {
		return conv.ChooseService(req.Package)
	})
}

func (s *Server) handleChatAddOn(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(conv *chat.Conversation) error {
		_, err := conv.ToggleAddOn()
		return err
	})
}

func (s *Server) handleChatBack(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(conv *chat.Conversation) error {
		return conv.Back()
	})
}

func (s *Server) handleChatConfirm(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(conv *chat.Conversation) error {
		_, err := conv.Confirm(r.Context())
		return err
	})
}

func (s *Server) handleChatClose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.chats.Delete(id); errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	log.Info().Str("chat", id).Msg("chat closed")
	w.WriteHeader(http.StatusNoContent)
}

// act runs a visitor action on the chat named in the URL. Rejected actions
// are reported with accepted=false next to the unchanged view.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func(conv *chat.Conversation) error) {
	id := chi.URLParam(r, "id")

	var (
		view   chatView
		actErr error
	)
	err := s.chats.WithLock(id, func(conv *chat.Conversation) error {
		actErr = fn(conv)
		view = newChatView(id, conv)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}

	resp := actionResponse{Accepted: actErr == nil, Chat: view}
	if actErr != nil {
		if !chat.IsRejection(actErr) {
			log.Error().Err(actErr).Str("chat", id).Msg("chat action failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp.Reason = actErr.Error()
		log.Debug().Err(actErr).Str("chat", id).Str("path", r.URL.Path).Msg("chat action rejected")
	}
	writeJSON(w, http.StatusOK, resp)
}
