package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kasheena/code-for-good/internal/classify"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/ingest"
	"github.com/kasheena/code-for-good/internal/lexicon"
	"github.com/kasheena/code-for-good/internal/logging"
)

type analyzeRequest struct {
	Text      string `json:"text"`
	Profile   string `json:"profile"`
	Sentiment *bool  `json:"sentiment,omitempty"`
}

type analyzeResponse struct {
	Score float64 `json:"score"`
	engine.Report
	HTML string `json:"html"`
}

type categoryInfo struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Color  string   `json:"color,omitempty"`
	Weight float64  `json:"weight"`
	Terms  int      `json:"terms"`
	List   []string `json:"term_list,omitempty"`
}

type profileInfo struct {
	Name       string          `json:"name"`
	Min        float64         `json:"min"`
	Max        float64         `json:"max"`
	Sentiment  bool            `json:"sentiment"`
	Categories []categoryInfo  `json:"categories"`
	Tiers      []classify.Tier `json:"tiers"`
}

// handleAnalyze accepts either a JSON analyzeRequest or a text/plain body
// with the profile in the "profile" query parameter.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req analyzeRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		text, err := ingest.ReaderSource{Name: "request body", R: r.Body}.Text(r.Context())
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		req.Text = text
		req.Profile = r.URL.Query().Get("profile")
		if v := r.URL.Query().Get("sentiment"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid sentiment flag %q", v))
				return
			}
			req.Sentiment = &b
		}
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if !errors.As(err, &tooLarge) {
				err = fmt.Errorf("%w: %v", errBadRequest, err)
			}
			s.writeFailure(w, err)
			return
		}
	}

	e, ok := s.engine(req.Profile)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown profile %q", req.Profile))
		return
	}
	if req.Sentiment != nil && !*req.Sentiment {
		e = e.WithoutSentiment()
	}

	report := e.Analyze(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Score:  report.Result.Score,
		Report: report,
		HTML:   e.HTML(report),
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	out := make([]profileInfo, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, describe(s.engines[name], false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"default": s.def, "profiles": out})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	e, ok := s.engines[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown profile %q", name))
		return
	}
	writeJSON(w, http.StatusOK, describe(e, true))
}

func describe(e *engine.Engine, withTerms bool) profileInfo {
	sc := e.Scoring()
	info := profileInfo{
		Name:      e.Name(),
		Min:       sc.Min,
		Max:       sc.Max,
		Sentiment: e.HasSentiment(),
		Tiers:     e.Table().Tiers(),
	}
	for _, c := range e.Store().Categories() {
		ci := categoryInfo{ID: c.ID, Label: c.Label, Color: c.Color, Weight: c.Weight, Terms: len(c.Terms)}
		if withTerms {
			ci.List = c.Terms
		}
		info.Categories = append(info.Categories, ci)
	}
	return info
}

var errBadRequest = errors.New("malformed request")

// writeFailure maps the error taxonomy onto HTTP status codes.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, errBadRequest), errors.Is(err, lexicon.ErrConfig):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ingest.ErrExtraction):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
