package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/translator"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func (s *Server) translation(text string) model.TranslationResponse {
	tokens := s.translator.Tokens(text)
	return model.TranslationResponse{
		Text:        text,
		Translation: translator.Join(tokens),
		Tokens:      tokens,
	}
}

func (s *Server) handleTranslateQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("text") {
		s.writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
		return
	}
	s.writeJSON(w, http.StatusOK, s.translation(q.Get("text")))
}

func (s *Server) handleTranslateBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var body struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "body must be JSON with a 'text' field")
		return
	}
	if body.Text == nil {
		s.writeError(w, http.StatusBadRequest, "body must be JSON with a 'text' field")
		return
	}

	s.writeJSON(w, http.StatusOK, s.translation(*body.Text))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("word") {
		s.writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
		return
	}
	word := q.Get("word")

	a := s.translator.Analyze(word)
	s.writeJSON(w, http.StatusOK, model.AnalysisResponse{
		Word:     word,
		Analysis: s.translator.AnalyzeWord(word),
		Prefix:   a.Prefix,
		Suffix:   a.Suffix,
	})
}

func (s *Server) handleLexicon(w http.ResponseWriter, r *http.Request) {
	lex := s.translator.Lexicon()
	table := lex.Table()
	s.writeJSON(w, http.StatusOK, model.LexiconResponse{
		Prefixes:   table.Prefixes,
		Suffixes:   table.Suffixes,
		Vocabulary: table.Vocabulary,
		Stats:      lex.Stats(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
