package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/elonfeng/reachscore/internal/store"
	"github.com/elonfeng/reachscore/pkg/batch"
	"github.com/elonfeng/reachscore/pkg/content"
	"github.com/elonfeng/reachscore/pkg/score"
)

const (
	maxBodyBytes    = 1 << 20
	maxDiversityRow = 100
)

// Server provides the HTTP API.
type Server struct {
	calculator *score.Calculator
	analyzer   *content.Analyzer
	batch      *batch.Aggregator
	store      store.Store // optional, nil disables history
	log        *logrus.Logger
	port       int
}

// New creates a new HTTP server. A nil store disables the history endpoint
// and run saving.
func New(s store.Store, log *logrus.Logger, port int) *Server {
	if port == 0 {
		port = 8080
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	calc := score.NewDefaultCalculator()
	analyzer := content.NewAnalyzer()
	return &Server{
		calculator: calc,
		analyzer:   analyzer,
		batch:      batch.New(analyzer, calc),
		store:      s,
		log:        log,
		port:       port,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/score", s.handleScore)
	mux.HandleFunc("/api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/v1/batch", s.handleBatch)
	mux.HandleFunc("/api/v1/diversity", s.handleDiversity)
	mux.HandleFunc("/api/v1/weights", s.handleWeights)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/history/{id}", s.handleHistoryRun)
	return s.logRequests(mux)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.WithField("addr", addr).Info("reachscore server listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

// ScoreRequest is the body of POST /api/v1/score.
type ScoreRequest struct {
	Probabilities score.Probabilities `json:"probabilities"`
	Modifiers     *score.Modifiers    `json:"modifiers"`
	Save          bool                `json:"save"`
}

// ScoreResponse wraps a score report.
type ScoreResponse struct {
	score.Report
	VideoBonusApplied bool  `json:"video_bonus_applied"`
	RunID             int64 `json:"run_id,omitempty"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text         string  `json:"text"`
	PostPosition int     `json:"post_position"`
	AgeHours     float64 `json:"age_hours"`
	OutOfNetwork bool    `json:"out_of_network"`
	Save         bool    `json:"save"`
}

// AnalyzeResponse holds the estimated inputs and the resulting report.
type AnalyzeResponse struct {
	Probabilities score.Probabilities `json:"probabilities"`
	Modifiers     score.Modifiers     `json:"modifiers"`
	Matched       []string            `json:"matched"`
	Report        score.Report        `json:"report"`
	RunID         int64               `json:"run_id,omitempty"`
}

// BatchRequest is the body of POST /api/v1/batch.
type BatchRequest struct {
	Posts      []string `json:"posts"`
	SameAuthor *bool    `json:"same_author"`
	Save       bool     `json:"save"`
}

// BatchResponse wraps a batch result.
type BatchResponse struct {
	batch.Result
	RunID int64 `json:"run_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mods := score.DefaultModifiers()
	if req.Modifiers != nil {
		mods = *req.Modifiers
	}

	result := s.calculator.Calculate(req.Probabilities, mods)
	resp := ScoreResponse{Report: result.Report(), VideoBonusApplied: result.VideoBonusApplied}

	if req.Save {
		id, err := s.save(r, store.NewRun(store.KindScore, "", result))
		if err != nil {
			writeError(w, saveStatus(err), err.Error())
			return
		}
		resp.RunID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	probs, mods := s.analyzer.Analyze(req.Text)
	mods.PostPosition = max(req.PostPosition, 1)
	mods.PostAgeHours = req.AgeHours
	mods.IsOutOfNetwork = req.OutOfNetwork

	result := s.calculator.Calculate(probs, mods)
	resp := AnalyzeResponse{
		Probabilities: probs,
		Modifiers:     mods,
		Matched:       s.analyzer.Matched(req.Text),
		Report:        result.Report(),
	}
	if resp.Matched == nil {
		resp.Matched = []string{}
	}

	if req.Save {
		id, err := s.save(r, store.NewRun(store.KindAnalyze, req.Text, result))
		if err != nil {
			writeError(w, saveStatus(err), err.Error())
			return
		}
		resp.RunID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sameAuthor := true
	if req.SameAuthor != nil {
		sameAuthor = *req.SameAuthor
	}

	result := s.batch.Analyze(req.Posts, sameAuthor)
	resp := BatchResponse{Result: result}

	if req.Save {
		id, err := s.save(r, store.NewBatchRun(req.Posts, result))
		if err != nil {
			writeError(w, saveStatus(err), err.Error())
			return
		}
		resp.RunID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiversity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	posts := 10
	if v := r.URL.Query().Get("posts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxDiversityRow {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("posts must be between 0 and %d", maxDiversityRow))
			return
		}
		posts = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":                      score.DiversityTable(posts),
		"count":                     posts,
		"diminishing_returns_after": score.DiminishingReturnsAfter(),
	})
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.calculator.Weights())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	q := r.URL.Query()
	opts := store.ListOpts{Kind: store.Kind(q.Get("kind")), Limit: 50}
	if v := q.Get("min_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinScore = f
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	runs, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	counts, err := s.store.CountByKind(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":   runs,
		"count":  len(runs),
		"totals": counts,
	})
}

func (s *Server) handleHistoryRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

var errHistoryDisabled = errors.New("history is disabled")

func (s *Server) save(r *http.Request, run *store.Run) (int64, error) {
	if s.store == nil {
		return 0, errHistoryDisabled
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		s.log.WithError(err).Error("save run")
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"run_id": run.ID, "kind": run.Kind}).Info("saved run")
	return run.ID, nil
}

func saveStatus(err error) int {
	if errors.Is(err, errHistoryDisabled) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
