package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MikeSquared-Agency/policedraft/internal/completion"
	"github.com/MikeSquared-Agency/policedraft/internal/prompt"
)

// narrationKeys are read in order; the first string value wins.
var narrationKeys = []string{"texto", "text"}

type draftResponse struct {
	HTML string `json:"html"`
}

// draft handles POST /api/police-draft.
func (s *Server) draft(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}

	narration, err := narrationFrom(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	d, err := s.drafter.Draft(r.Context(), narration)
	if err != nil {
		s.logDraftError(err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{HTML: d.HTML})
}

func (s *Server) logDraftError(err error) {
	var cfgErr *completion.ConfigurationError
	var upErr *completion.UpstreamError
	switch {
	case errors.As(err, &cfgErr):
		s.logger.Error().Str("setting", cfgErr.Setting).Msg("draft rejected: missing configuration")
	case errors.As(err, &upErr):
		s.logger.Error().Int("upstream_status", upErr.StatusCode).Err(err).Msg("draft failed upstream")
	default:
		s.logger.Error().Err(err).Msg("draft failed")
	}
}

// narrationFrom extracts the narration from a request body. An object with
// a string "texto" or "text" field yields that field; a JSON string yields
// itself; any other JSON value is passed on in its compact encoding.
func narrationFrom(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	switch v := payload.(type) {
	case nil, string:
		return prompt.Coerce(v), nil
	case map[string]any:
		for _, key := range narrationKeys {
			if text, ok := v[key].(string); ok {
				return text, nil
			}
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return "", err
	}
	return prompt.Coerce(json.RawMessage(buf.Bytes())), nil
}
