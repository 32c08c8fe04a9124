// Package web serves the JSON API behind the site's chat panel,
// questionnaire modal and cookie banner.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/chat"
	"github.com/MiguesFerreira/NexusDev/internal/consent"
	"github.com/MiguesFerreira/NexusDev/internal/questionnaire"
	"github.com/MiguesFerreira/NexusDev/internal/session"
)

// Options wires the server to its collaborators.
type Options struct {
	Catalog   *catalog.Catalog
	Consent   *consent.Service
	Scheduler chat.Scheduler
	Pacing    *chat.Pacing
	// Number is the WhatsApp number handoff links point to.
	Number string
}

type Server struct {
	catalog  *catalog.Catalog
	consent  *consent.Service
	sched    chat.Scheduler
	pacing   *chat.Pacing
	number   string
	validate *validator.Validate

	chats *session.Manager[*chat.Conversation]
	forms *session.Manager[*questionnaire.Stepper]

	newID func() string
}

func NewServer(opts Options) *Server {
	return &Server{
		catalog:  opts.Catalog,
		consent:  opts.Consent,
		sched:    opts.Scheduler,
		pacing:   opts.Pacing,
		number:   opts.Number,
		validate: newValidator(),
		chats: session.NewManager(func(_ string, conv *chat.Conversation) {
			conv.Close()
		}),
		forms: session.NewManager[*questionnaire.Stepper](nil),
		newID: uuid.NewString,
	}
}

// newValidator registers the "answers" tag, which accepts only answer maps
// the questionnaire itself could have produced.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("answers", func(fl validator.FieldLevel) bool {
		a, ok := fl.Field().Interface().(map[string]string)
		return ok && questionnaire.Answers(a).Validate() == nil
	})
	return v
}

// Routes returns the API router, meant to be mounted under /api.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/packages", s.handlePackages)

	r.Route("/questionnaire", func(r chi.Router) {
		r.Post("/", s.handleQuestionnaireStart)
		r.Get("/{id}", s.handleQuestionnaireGet)
		r.Post("/{id}/answer", s.handleQuestionnaireAnswer)
		r.Post("/{id}/back", s.handleQuestionnaireBack)
		r.Delete("/{id}", s.handleQuestionnaireDelete)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Post("/", s.handleChatOpen)
		r.Get("/{id}", s.handleChatGet)
		r.Post("/{id}/name", s.handleChatName)
		r.Post("/{id}/service", s.handleChatService)
		r.Post("/{id}/addon", s.handleChatAddOn)
		r.Post("/{id}/back", s.handleChatBack)
		r.Post("/{id}/confirm", s.handleChatConfirm)
		r.Delete("/{id}", s.handleChatClose)
	})

	r.Get("/consent", s.handleConsentGet)
	r.Put("/consent", s.handleConsentPut)

	return r
}

// Cleanup drops chats and questionnaires idle for longer than maxAge.
func (s *Server) Cleanup(maxAge time.Duration) int {
	return s.chats.Cleanup(maxAge) + s.forms.Cleanup(maxAge)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Packages []catalog.Package `json:"packages"`
	}{s.catalog.List()})
}
