package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nmori/voicevox-engine/internal/kana"
	"github.com/nmori/voicevox-engine/internal/model"
	"github.com/nmori/voicevox-engine/internal/preset"
	"github.com/nmori/voicevox-engine/internal/query"
	"github.com/nmori/voicevox-engine/internal/scheduler"
	"github.com/nmori/voicevox-engine/internal/wave"
)

// errorBody is the failure envelope. Detail is a plain message for
// most failures and a structured kana.GrammarError for notation
// faults.
type errorBody struct {
	Detail any `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeWAV(w http.ResponseWriter, wf wave.Waveform) error {
	data, err := wave.EncodeWAV(wf)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(data)
	return nil
}

// writeFailure maps a pipeline failure to its status code: notation
// faults are 400 with the structured error, validation faults 422,
// disabled cancellation 404, everything else is a backend fault.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var gerr *kana.GrammarError
	switch {
	case errors.As(err, &gerr):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: gerr})
	case errors.Is(err, scheduler.ErrCancellationUnsupported):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
	case isValidationFault(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
	default:
		s.log.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: err.Error()})
	}
}

func isValidationFault(err error) bool {
	for _, target := range []error{
		preset.ErrNotFound,
		preset.ErrDuplicateID,
		query.ErrInconsistentSamplingRate,
		query.ErrEmptyBatch,
		scheduler.ErrCancelled,
		model.ErrEmptyMoras,
		model.ErrAccentOutOfRange,
		model.ErrMissingVowel,
		model.ErrDanglingConsonant,
		model.ErrFrameMisaligned,
		wave.ErrInvalidWAV,
		wave.ErrNoWaveforms,
		wave.ErrSampleRateMismatch,
		wave.ErrChannelMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// styleIDParam reads the style id from the conventional "speaker"
// query parameter.
func styleIDParam(r *http.Request) (model.StyleID, error) {
	raw := r.URL.Query().Get("speaker")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid speaker parameter %q", raw)
	}
	return model.StyleID(id), nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return v, nil
}

func boolParam(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
