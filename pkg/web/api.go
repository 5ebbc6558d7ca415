package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-numerals/pkg/convert"
	"github.com/goliatone/go-numerals/pkg/history"
	"github.com/goliatone/go-numerals/pkg/service"
)

type convertBody struct {
	Input          string `json:"input"`
	Kind           string `json:"kind"`
	Decimal        int    `json:"decimal"`
	Roman          string `json:"roman"`
	ConversionType string `json:"conversion_type"`
	Message        string `json:"message"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
}

type historyBody struct {
	Entries []string `json:"entries"`
}

type rulesBody struct {
	Rules []service.RuleInfo `json:"rules"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	res := s.convert(r.Context(), r.URL.Query().Get("value"))
	if !res.OK() {
		status, body := errorResponse(res.Err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, convertBody{
		Input:          res.Outcome.Input,
		Kind:           res.Outcome.Kind.String(),
		Decimal:        res.Outcome.Decimal.Int(),
		Roman:          res.Outcome.Roman,
		ConversionType: res.ConversionType(),
		Message:        res.Message,
	})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rulesBody{Rules: s.svc.Rules()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	entries, err := s.journal.History(r.Context())
	if err != nil {
		s.internalError(w, r, "history.read_failed", err)
		return
	}
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, historyBody{Entries: entries})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	counters, err := s.journal.Counters(r.Context())
	if err != nil {
		s.internalError(w, r, "history.counters_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	if err := s.journal.Clear(r.Context()); err != nil {
		s.internalError(w, r, "history.clear_failed", err)
		return
	}
	s.logger.InfoContext(r.Context(), "history.cleared")
	writeJSON(w, http.StatusOK, history.Counters{})
}

func (s *Server) requireJournal(w http.ResponseWriter) bool {
	if s.journal != nil {
		return true
	}
	writeJSON(w, http.StatusNotFound, errorBody{Error: apiError{
		Kind:    "history_disabled",
		Message: "History is not enabled.",
	}})
	return false
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, event string, err error) {
	s.logger.ErrorContext(r.Context(), event, "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: apiError{
		Kind:    "internal",
		Message: "The history could not be read.",
	}})
}

// errorResponse maps conversion errors to a status and body. Unparseable
// input is a client error; well-formed but invalid values are unprocessable.
func errorResponse(err error) (int, errorBody) {
	body := errorBody{Error: apiError{Kind: errorKindLabel(err), Message: err.Error()}}
	var convErr *convert.Error
	if errors.As(err, &convErr) {
		body.Error.Messages = convErr.Messages()
	}
	switch convert.KindOf(err) {
	case convert.KindMixedFormat, convert.KindMalformedInput:
		return http.StatusBadRequest, body
	default:
		return http.StatusUnprocessableEntity, body
	}
}

func errorKindLabel(err error) string {
	if kind := convert.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
