package http

import (
	"context"
	"net/http"

	"github.com/nmori/voicevox-engine/internal/kana"
	"github.com/nmori/voicevox-engine/internal/model"
	"github.com/nmori/voicevox-engine/internal/wave"
)

func (s *Server) handleAudioQuery(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	q, err := s.pipeline.BuildQuery(r.Context(), r.URL.Query().Get("text"), styleID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleAudioQueryFromPreset(w http.ResponseWriter, r *http.Request) {
	presetID, err := intParam(r, "preset_id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	q, err := s.pipeline.BuildQueryFromPreset(r.Context(), r.URL.Query().Get("text"), presetID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleAccentPhrases(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}
	isKana := boolParam(r, "is_kana", false)

	phrases, err := s.pipeline.BuildAccentPhrases(r.Context(), r.URL.Query().Get("text"), styleID, isKana)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, phrases)
}

func (s *Server) handleMoraData(w http.ResponseWriter, r *http.Request) {
	s.handleMoraUpdate(w, r, s.pipeline.UpdateMoraData)
}

func (s *Server) handleMoraLength(w http.ResponseWriter, r *http.Request) {
	s.handleMoraUpdate(w, r, s.pipeline.UpdateMoraLength)
}

func (s *Server) handleMoraPitch(w http.ResponseWriter, r *http.Request) {
	s.handleMoraUpdate(w, r, s.pipeline.UpdateMoraPitch)
}

func (s *Server) handleMoraUpdate(
	w http.ResponseWriter,
	r *http.Request,
	update func(context.Context, []model.AccentPhrase, model.StyleID) ([]model.AccentPhrase, error),
) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	var phrases []model.AccentPhrase
	if err := decodeBody(r, &phrases); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	updated, err := update(r.Context(), phrases, styleID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleSynthesis(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}
	enableUpspeak := boolParam(r, "enable_interrogative_upspeak", true)

	var q model.AudioQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	wf, err := s.pipeline.Synthesize(r.Context(), &q, styleID, enableUpspeak)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := writeWAV(w, wf); err != nil {
		s.writeFailure(w, err)
	}
}

func (s *Server) handleCancellableSynthesis(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeJSON(w, http.StatusNotFound, errorBody{
			Detail: "cancellable synthesis is disabled; start the engine with it enabled",
		})
		return
	}

	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}
	enableUpspeak := boolParam(r, "enable_interrogative_upspeak", true)

	var q model.AudioQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	job, err := s.scheduler.Submit(r.Context(), r.RemoteAddr, func(ctx context.Context) (wave.Waveform, error) {
		return s.pipeline.Synthesize(ctx, &q, styleID, enableUpspeak)
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	wf, err := job.Wait(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := writeWAV(w, wf); err != nil {
		s.writeFailure(w, err)
	}
}

func (s *Server) handleMultiSynthesis(w http.ResponseWriter, r *http.Request) {
	styleID, err := styleIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	var queries []model.AudioQuery
	if err := decodeBody(r, &queries); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	waves, err := s.pipeline.SynthesizeBatch(r.Context(), queries, styleID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	archive, err := wave.PackageArchive(waves)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	_, _ = w.Write(archive)
}

func (s *Server) handleConnectWaves(w http.ResponseWriter, r *http.Request) {
	var encoded []string
	if err := decodeBody(r, &encoded); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	waves, err := wave.DecodeBase64WAVs(encoded)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}
	joined, err := wave.Concatenate(waves)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}
	if err := writeWAV(w, joined); err != nil {
		s.writeFailure(w, err)
	}
}

func (s *Server) handleValidateKana(w http.ResponseWriter, r *http.Request) {
	if _, err := kana.Parse(r.URL.Query().Get("text")); err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Version())
}
