package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/lukinkon/lukin/internal/analyzer"
	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/store"
)

type textRequest struct {
	Text   string `json:"text"`
	Refine bool   `json:"refine"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type profileResponse struct {
	Language    lang.Language      `json:"language"`
	Frequencies map[string]float64 `json:"frequencies"`
	Words       []string           `json:"words"`
}

type languageScore struct {
	Language  lang.Language `json:"language"`
	Frequency float64       `json:"frequency"`
	WordHits  int           `json:"word_hits"`
	Total     float64       `json:"total"`
}

type detectResponse struct {
	Encrypted      bool            `json:"encrypted"`
	TotalLetters   int             `json:"total_letters"`
	TooShort       bool            `json:"too_short"`
	TopLetters     []string        `json:"top_letters"`
	FrequencyFlags int             `json:"frequency_flags"`
	Tokens         int             `json:"tokens"`
	ReadableTokens int             `json:"readable_tokens"`
	Readability    float64         `json:"readability"`
	Language       lang.Language   `json:"language"`
	Scores         []languageScore `json:"scores"`
}

type solveResponse struct {
	Best       *analyzer.Result   `json:"best"`
	Candidates []*analyzer.Result `json:"candidates"`
}

type analyzeResponse struct {
	analyzer.Report
	HistoryID int64 `json:"history_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) profiles(w http.ResponseWriter, r *http.Request) {
	var out []profileResponse
	for _, p := range lang.Profiles() {
		freqs := make(map[string]float64)
		for _, f := range p.Frequencies() {
			freqs[string(f.Letter)] = f.Percent
		}
		out = append(out, profileResponse{Language: p.Language(), Frequencies: freqs, Words: p.Words()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	report, err := analyzer.Frequency(req.Text)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	v := cipher.Inspect(req.Text)
	if v.TotalLetters == 0 {
		writeAnalysisError(w, cipher.ErrNoLetters)
		return
	}
	det := cipher.DetectLanguage(req.Text)
	resp := detectResponse{
		Encrypted:      v.Encrypted,
		TotalLetters:   v.TotalLetters,
		TooShort:       v.TooShort,
		FrequencyFlags: v.FrequencyFlags,
		Tokens:         v.Tokens,
		ReadableTokens: v.ReadableTokens,
		Readability:    v.Readability,
		Language:       det.Language,
	}
	for _, c := range v.TopLetters {
		resp.TopLetters = append(resp.TopLetters, string(c))
	}
	for _, sc := range det.Scores {
		resp.Scores = append(resp.Scores, languageScore(sc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) caesar(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	pool, err := cipher.CaesarCandidates(req.Text)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	best, err := cipher.SolveCaesar(req.Text)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{Best: analyzer.NewResult(best), Candidates: results(pool)})
}

func (s *Server) substitution(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	pool, err := s.analyzer.Substitution(r.Context(), req.Text, analyzer.Options{Refine: req.Refine})
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{Best: analyzer.NewResult(cipher.Best(pool)), Candidates: results(pool)})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	report, err := s.analyzer.Analyze(r.Context(), req.Text, analyzer.Options{Refine: req.Refine})
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	resp := analyzeResponse{Report: report}
	if s.config.SaveHistory && s.store != nil {
		id, err := s.store.InsertAnalysis(r.Context(), analyzer.Record(report, time.Now()), analyzer.LetterTotals(report.Statistics))
		if err != nil {
			s.logger.Printf("failed to save analysis: %v", err)
		} else {
			resp.HistoryID = id
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	filter, err := historyFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := s.store.ListAnalyses(r.Context(), filter)
	if err != nil {
		s.logger.Printf("failed to list analyses: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if records == nil {
		records = []model.AnalysisRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) historyEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := s.store.GetAnalysis(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.logger.Printf("failed to get analysis %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func historyFilter(r *http.Request) (model.HistoryFilter, error) {
	q := r.URL.Query()
	filter := model.HistoryFilter{Method: q.Get("method")}
	if v := q.Get("lang"); v != "" {
		l, err := lang.ParseLanguage(v)
		if err != nil {
			return filter, err
		}
		filter.Lang = string(l)
	}
	if v := q.Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid last %q", v)
		}
		filter.Last = n
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid since %q (use RFC3339)", v)
		}
		filter.Since = &t
	}
	return filter, nil
}

func results(pool []cipher.Candidate) []*analyzer.Result {
	out := make([]*analyzer.Result, len(pool))
	for i, c := range pool {
		out[i] = analyzer.NewResult(c)
	}
	return out
}

func decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return req, false
	}
	return req, true
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, cipher.ErrNoLetters) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
