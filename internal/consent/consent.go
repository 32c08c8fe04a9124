// Package consent keeps the visitor's answer to the cookie banner.
package consent

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/store"
)

// Decision is the visitor's answer.
type Decision string

const (
	Accept Decision = "accept"
	Refuse Decision = "refuse"
)

const (
	// CookieName carries the decision in the browser.
	CookieName = "nexus_cookie_consent"
	// VisitorCookie carries the anonymous id the stored record is keyed by.
	VisitorCookie = "nexus_visitor"

	// PromptDelay is how long the site waits before showing the banner.
	PromptDelay = 2 * time.Second

	cookieMaxAge = 365 * 24 * time.Hour
)

var ErrInvalidDecision = errors.New("invalid consent decision")

// ParseDecision accepts "accept" or "refuse".
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case Accept, Refuse:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDecision, s)
}

// Records is the part of the store the service needs.
type Records interface {
	SaveConsent(c store.Consent) error
	GetConsent(visitorID string) (*store.Consent, error)
}

type Service struct {
	records Records
	now     func() time.Time
}

func NewService(records Records) *Service {
	return &Service{records: records, now: time.Now}
}

// Lookup resolves the decision from the cookie value first and the stored
// record second. It reports false when the visitor never answered.
func (s *Service) Lookup(cookie, visitorID string) (Decision, bool, error) {
	if d, err := ParseDecision(cookie); err == nil {
		return d, true, nil
	}
	if visitorID == "" {
		return "", false, nil
	}

	rec, err := s.records.GetConsent(visitorID)
	if err != nil {
		return "", false, fmt.Errorf("loading consent for %s: %w", visitorID, err)
	}
	if rec == nil {
		return "", false, nil
	}
	d, err := ParseDecision(rec.Decision)
	if err != nil {
		log.Warn().Str("visitor", visitorID).Str("decision", rec.Decision).Msg("consent: ignoring corrupt record")
		return "", false, nil
	}
	return d, true, nil
}

// ShouldPrompt reports whether the banner must be shown.
func (s *Service) ShouldPrompt(cookie, visitorID string) (bool, error) {
	_, ok, err := s.Lookup(cookie, visitorID)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Record stores the decision for visitorID.
func (s *Service) Record(visitorID string, d Decision) error {
	if _, err := ParseDecision(string(d)); err != nil {
		return err
	}
	err := s.records.SaveConsent(store.Consent{
		VisitorID: visitorID,
		Decision:  string(d),
		DecidedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("saving consent for %s: %w", visitorID, err)
	}
	log.Info().Str("visitor", visitorID).Str("decision", string(d)).Msg("consent recorded")
	return nil
}

// Cookie returns the cookie that remembers d in the browser.
func Cookie(d Decision) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(d),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}

// VisitorIDCookie returns the cookie that carries the anonymous visitor id.
func VisitorIDCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
