package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/schedule"
	"github.com/tavolohq/tavolo/internal/service/output"
	"github.com/tavolohq/tavolo/internal/service/status"
	"github.com/tavolohq/tavolo/internal/storage"
)

type healthResponse struct {
	Status string `json:"status"`
}

type statusResponse struct {
	status.Snapshot
	Phrase string `json:"phrase"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			writeError(w, http.StatusBadRequest, "at must be RFC 3339")
			return
		}
		now = parsed
	}

	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = s.locale
	}

	ctx := r.Context()
	weekly, err := s.store.LoadHours(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("loading hours", "error", err)
		writeError(w, http.StatusInternalServerError, "loading hours")
		return
	}
	closings, err := s.store.LoadClosings(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("loading closings", "error", err)
		writeError(w, http.StatusInternalServerError, "loading closings")
		return
	}
	messages, err := s.store.LoadMessages(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("loading messages", "error", err)
		writeError(w, http.StatusInternalServerError, "loading messages")
		return
	}

	snapshot := s.status.Evaluate(weekly, closings, messages, now)
	phrase := s.status.Phrase(snapshot, now, weekly, schedule.TranslateFunc(s.translator.Func(locale)))
	writeJSON(w, http.StatusOK, statusResponse{Snapshot: snapshot, Phrase: phrase})
}

func (s *Server) handleGetHours(w http.ResponseWriter, r *http.Request) {
	weekly, err := s.store.LoadHours(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		weekly = domain.WeeklySchedule{}
	} else if err != nil {
		s.log.Error("loading hours", "error", err)
		writeError(w, http.StatusInternalServerError, "loading hours")
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}

func (s *Server) handlePutHours(w http.ResponseWriter, r *http.Request) {
	var weekly domain.WeeklySchedule
	if err := readJSON(r, &weekly); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateSchedule(weekly); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SaveHours(r.Context(), weekly); err != nil {
		s.log.Error("saving hours", "error", err)
		writeError(w, http.StatusInternalServerError, "saving hours")
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}

func (s *Server) handleGetClosings(w http.ResponseWriter, r *http.Request) {
	closings, err := s.store.LoadClosings(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		closings = []domain.ClosingRecord{}
	} else if err != nil {
		s.log.Error("loading closings", "error", err)
		writeError(w, http.StatusInternalServerError, "loading closings")
		return
	}
	if closings == nil {
		closings = []domain.ClosingRecord{}
	}
	writeJSON(w, http.StatusOK, closings)
}

func (s *Server) handlePostClosing(w http.ResponseWriter, r *http.Request) {
	var record domain.ClosingRecord
	if err := readJSON(r, &record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(record.Reason) == "" {
		writeError(w, http.StatusBadRequest, "reason must not be empty")
		return
	}
	if record.ID == "" {
		record.ID = output.NewRecordID("cls")
	}

	ctx := r.Context()
	closings, err := s.store.LoadClosings(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("loading closings", "error", err)
		writeError(w, http.StatusInternalServerError, "loading closings")
		return
	}
	closings = append(closings, record)
	if err := s.store.SaveClosings(ctx, closings); err != nil {
		s.log.Error("saving closings", "error", err)
		writeError(w, http.StatusInternalServerError, "saving closings")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleDeleteClosing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx := r.Context()
	closings, err := s.store.LoadClosings(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("loading closings", "error", err)
		writeError(w, http.StatusInternalServerError, "loading closings")
		return
	}

	kept := closings[:0]
	found := false
	for _, c := range closings {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("closing %q not found", id))
		return
	}
	if err := s.store.SaveClosings(ctx, kept); err != nil {
		s.log.Error("saving closings", "error", err)
		writeError(w, http.StatusInternalServerError, "saving closings")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.LoadMessages(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		messages = []domain.SpecialMessage{}
	} else if err != nil {
		s.log.Error("loading messages", "error", err)
		writeError(w, http.StatusInternalServerError, "loading messages")
		return
	}
	if messages == nil {
		messages = []domain.SpecialMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handlePutMessages(w http.ResponseWriter, r *http.Request) {
	var messages []domain.SpecialMessage
	if err := readJSON(r, &messages); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	for i := range messages {
		if strings.TrimSpace(messages[i].Text) == "" {
			writeError(w, http.StatusBadRequest, "message text must not be empty")
			return
		}
		if messages[i].ID == "" {
			messages[i].ID = output.NewRecordID("msg")
		}
	}
	if err := s.store.SaveMessages(r.Context(), messages); err != nil {
		s.log.Error("saving messages", "error", err)
		writeError(w, http.StatusInternalServerError, "saving messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func validateSchedule(weekly domain.WeeklySchedule) error {
	for key, day := range weekly {
		if !isKnownDayKey(key) {
			return fmt.Errorf("unknown day key %q", key)
		}
		for _, p := range day.Periods {
			if strings.TrimSpace(p.Open) == "" || strings.TrimSpace(p.Close) == "" {
				return fmt.Errorf("day %q has a period with empty bounds", key)
			}
		}
	}
	return nil
}

func isKnownDayKey(key string) bool {
	lower := strings.ToLower(key)
	for _, known := range domain.WeekdayKeys {
		if lower == known {
			return true
		}
	}
	return false
}
