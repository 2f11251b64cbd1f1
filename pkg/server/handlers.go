package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// sessionView is the JSON body of the session endpoints.
type sessionView struct {
	Session string `json:"session"`
	orchestrator.View
}

// submitResponse is the JSON body of POST /sessions/{id}/submit.
type submitResponse struct {
	validation.Result
	State orchestrator.State `json:"state"`
}

// fieldChange is the JSON body of PATCH /sessions/{id}/fields.
type fieldChange struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.document)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.create()
	http.Redirect(w, r, sessionPath(sess.id), http.StatusSeeOther)
}

func (s *Server) handleCreate(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.create()
	writeJSON(w, http.StatusCreated, sessionView{Session: sess.id, View: sess.orch.View()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	renderer, err := s.registry.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}

	sess.mu.Lock()
	view := sess.orch.View()
	sess.mu.Unlock()

	body, err := renderer.Render(r.Context(), view, render.RenderOptions{
		Action: sessionPath(sess.id),
		Hidden: []render.HiddenField{render.RevisionField(view.Revision)},
		Theme:  s.theme,
	})
	if err != nil {
		s.logger.Error("render session", zap.String("session", sess.id), zap.String("renderer", renderer.Name()), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Vary", "Accept")
	_, _ = w.Write(body)
}

// handleFormPost applies a whole HTML form. Fields are replayed through
// HandleField in display order so a topic change fetches exactly once, then
// the handler waits for that fetch. Only the submit intent validates; the
// update intent just redraws the form with the newly visible section.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	intent, err := render.PostedIntent(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if intent == render.IntentEdit {
		sess.orch.Edit()
		http.Redirect(w, r, sessionPath(sess.id), http.StatusSeeOther)
		return
	}

	if _, err := model.DecodeValues(r.PostForm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	posted, hasRevision, err := render.PostedRevision(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if current := sess.orch.Store().Revision(); hasRevision && posted != current {
		s.logger.Info("rejected form posted against a stale revision",
			zap.String("session", sess.id),
			zap.Uint64("posted", posted),
			zap.Uint64("current", current),
		)
		http.Error(w, "the form changed since this page was loaded; reload and try again", http.StatusConflict)
		return
	}

	for _, field := range sess.orch.View().Catalog.Fields() {
		key := field.Path()
		if _, present := r.PostForm[key]; !present {
			continue
		}
		if err := sess.orch.HandleField(field.Section, field.Name, r.PostForm.Get(key)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := sess.orch.Wait(r.Context()); err != nil {
		http.Error(w, "request canceled", http.StatusServiceUnavailable)
		return
	}
	if intent == render.IntentSubmit {
		sess.orch.Submit()
	}
	http.Redirect(w, r, sessionPath(sess.id), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.remove(chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	view := sess.orch.View()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, sessionView{Session: sess.id, View: view})
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var change fieldChange
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&change); err != nil {
		http.Error(w, "malformed field change", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.orch.HandleField(change.Section, change.Field, change.Value); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrUnknownField) || errors.Is(err, model.ErrInvalidTopic) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, sessionView{Session: sess.id, View: sess.orch.View()})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.orch.Wait(r.Context()); err != nil {
		http.Error(w, "request canceled", http.StatusServiceUnavailable)
		return
	}
	result := sess.orch.Submit()
	writeJSON(w, http.StatusOK, submitResponse{Result: result, State: sess.orch.State()})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.orch.Edit()
	writeJSON(w, http.StatusOK, sessionView{Session: sess.id, View: sess.orch.View()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func sessionPath(id string) string {
	return "/sessions/" + id
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
