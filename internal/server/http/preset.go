package http

import (
	"net/http"

	"github.com/nmori/voicevox-engine/internal/model"
)

func (s *Server) handleGetPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.presets.List())
}

func (s *Server) handleAddPreset(w http.ResponseWriter, r *http.Request) {
	var p model.Preset
	if err := decodeBody(r, &p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	id, err := s.presets.Add(p)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var p model.Preset
	if err := decodeBody(r, &p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	if err := s.presets.Update(p); err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.ID)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	if err := s.presets.Delete(id); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
