package http

import (
	"net/http"

	"github.com/nmori/voicevox-engine/internal/model"
)

func (s *Server) handleSingFrameAudioQuery(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	var score model.Score
	if err := decodeBody(r, &score); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	q, err := s.pipeline.BuildFrameQuery(r.Context(), &score, styleID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// singFrameVolumeRequest pairs the score with the frame query whose
// phonemes and f0 drive the volume computation.
type singFrameVolumeRequest struct {
	Score           model.Score           `json:"score"`
	FrameAudioQuery model.FrameAudioQuery `json:"frame_audio_query"`
}

func (s *Server) handleSingFrameVolume(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	var req singFrameVolumeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	volume, err := s.pipeline.FrameVolume(r.Context(), &req.Score, req.FrameAudioQuery.Phonemes, req.FrameAudioQuery.F0, styleID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, volume)
}

func (s *Server) handleFrameSynthesis(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	var q model.FrameAudioQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	wf, err := s.pipeline.SynthesizeFrame(r.Context(), &q, styleID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := writeWAV(w, wf); err != nil {
		s.writeFailure(w, err)
	}
}
