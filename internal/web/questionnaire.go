package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/questionnaire"
	"github.com/MiguesFerreira/NexusDev/internal/session"
)

type answerRequest struct {
	Option string `json:"option" validate:"required,max=128"`
}

type questionnaireView struct {
	ID       string                 `json:"id"`
	Question questionnaire.Question `json:"question"`
	Index    int                    `json:"index"`
	Total    int                    `json:"total"`
	Progress float64                `json:"progress"`
	Selected string                 `json:"selected,omitempty"`
	Answers  questionnaire.Answers  `json:"answers"`
}

// questionnaireResponse answers every questionnaire step. Once Done is set
// the stepper is gone and Answers and Recommended carry the result.
type questionnaireResponse struct {
	Accepted      bool                  `json:"accepted"`
	Reason        string                `json:"reason,omitempty"`
	Done          bool                  `json:"done"`
	Questionnaire *questionnaireView    `json:"questionnaire,omitempty"`
	Answers       questionnaire.Answers `json:"answers,omitempty"`
	Recommended   string                `json:"recommended,omitempty"`
}

func newQuestionnaireView(id string, st *questionnaire.Stepper) *questionnaireView {
	v := &questionnaireView{
		ID:       id,
		Question: st.Current(),
		Index:    st.Index(),
		Total:    st.Total(),
		Progress: st.Progress(),
		Answers:  st.Answers(),
	}
	if sel, ok := st.Selected(); ok {
		v.Selected = sel
	}
	return v
}

func (s *Server) handleQuestionnaireStart(w http.ResponseWriter, r *http.Request) {
	id := s.newID()
	st := questionnaire.NewStepper(nil)
	s.forms.Put(id, st)

	log.Info().Str("questionnaire", id).Msg("questionnaire started")
	writeJSON(w, http.StatusCreated, questionnaireResponse{
		Accepted:      true,
		Questionnaire: newQuestionnaireView(id, st),
	})
}

func (s *Server) handleQuestionnaireGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view *questionnaireView
	err := s.forms.WithLock(id, func(st *questionnaire.Stepper) error {
		view = newQuestionnaireView(id, st)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}
	writeJSON(w, http.StatusOK, questionnaireResponse{Accepted: true, Questionnaire: view})
}

func (s *Server) handleQuestionnaireAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	var resp questionnaireResponse
	err := s.forms.WithLock(id, func(st *questionnaire.Stepper) error {
		done, err := st.Select(req.Option)
		switch {
		case errors.Is(err, questionnaire.ErrInvalidOption):
			resp.Reason = err.Error()
		case err != nil:
			return err
		case done:
			resp.Accepted, resp.Done = true, true
			resp.Answers = st.Answers()
			resp.Recommended = questionnaire.Recommend(resp.Answers)
			return nil
		default:
			resp.Accepted = true
		}
		resp.Questionnaire = newQuestionnaireView(id, st)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}

	if resp.Done {
		// The result travels with the response; the stepper is no longer needed.
		s.forms.Delete(id)
		log.Info().Str("questionnaire", id).Str("recommended", resp.Recommended).Msg("questionnaire completed")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuestionnaireBack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var resp questionnaireResponse
	err := s.forms.WithLock(id, func(st *questionnaire.Stepper) error {
		resp.Accepted = st.Back()
		if !resp.Accepted {
			resp.Reason = "already at the first question"
		}
		resp.Questionnaire = newQuestionnaireView(id, st)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuestionnaireDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.forms.Delete(id); errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
