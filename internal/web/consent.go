package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/consent"
)

type consentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept refuse"`
}

type consentResponse struct {
	Prompt        bool             `json:"prompt"`
	Decision      consent.Decision `json:"decision,omitempty"`
	PromptAfterMS int64            `json:"prompt_after_ms,omitempty"`
}

// visitorID returns the anonymous id from the request, issuing a new cookie
// when the visitor has none yet.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(consent.VisitorCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, consent.VisitorIDCookie(id))
	return id
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) handleConsentGet(w http.ResponseWriter, r *http.Request) {
	visitor := visitorID(w, r)

	d, ok, err := s.consent.Lookup(cookieValue(r, consent.CookieName), visitor)
	if err != nil {
		log.Error().Err(err).Str("visitor", visitor).Msg("consent lookup failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := consentResponse{Prompt: !ok, Decision: d}
	if !ok {
		resp.PromptAfterMS = consent.PromptDelay.Milliseconds()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConsentPut(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if !s.decode(w, r, &req) {
		return
	}
	d, err := consent.ParseDecision(req.Decision)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	visitor := visitorID(w, r)
	if err := s.consent.Record(visitor, d); err != nil {
		log.Error().Err(err).Str("visitor", visitor).Msg("consent record failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, consent.Cookie(d))
	writeJSON(w, http.StatusOK, consentResponse{Decision: d})
}
