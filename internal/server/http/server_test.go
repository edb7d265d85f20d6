package http

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmori/voicevox-engine/internal/engine"
	"github.com/nmori/voicevox-engine/internal/model"
	"github.com/nmori/voicevox-engine/internal/preset"
	"github.com/nmori/voicevox-engine/internal/query"
	"github.com/nmori/voicevox-engine/internal/scheduler"
	"github.com/nmori/voicevox-engine/internal/wave"
)

type testEnv struct {
	server   *Server
	handler  http.Handler
	mock     *engine.Mock
	pipeline *query.Pipeline
	presets  *preset.Manager
}

func newTestEnv(t *testing.T, mockOpts ...engine.MockOption) *testEnv {
	t.Helper()
	log := slog.New(slog.DiscardHandler)

	mock := engine.NewMock(mockOpts...)
	adapter := engine.NewAdapter(mock, log)
	presets, err := preset.NewManager(filepath.Join(t.TempDir(), "presets.yaml"), log)
	require.NoError(t, err)
	pipeline := query.NewPipeline(adapter, presets, log)
	sched := scheduler.New(mock, log)

	srv := New(log, pipeline, mock, presets, sched)
	return &testEnv{
		server:   srv,
		handler:  srv.Handler(),
		mock:     mock,
		pipeline: pipeline,
		presets:  presets,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestAudioQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/audio_query?text=コンニチワ&speaker=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	q := decodeResponse[model.AudioQuery](t, rec)
	assert.NotEmpty(t, q.AccentPhrases)
	assert.Equal(t, 1.0, q.SpeedScale)
	assert.Equal(t, 24000, q.OutputSamplingRate)
	assert.NotEmpty(t, q.Kana)
}

func TestAudioQuery_BadSpeaker(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/audio_query?text=ア", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAudioQueryFromPreset(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.presets.Add(model.Preset{
		ID: 7, Name: "fast", StyleID: 2,
		SpeedScale: 1.5, PitchScale: 0.1, IntonationScale: 1, VolumeScale: 1,
		PrePhonemeLength: 0.2, PostPhonemeLength: 0.2,
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/audio_query_from_preset?text=ア&preset_id=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	q := decodeResponse[model.AudioQuery](t, rec)
	assert.Equal(t, 1.5, q.SpeedScale)
	assert.Equal(t, 0.2, q.PrePhonemeLength)
}

func TestAudioQueryFromPreset_Unknown(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/audio_query_from_preset?text=ア&preset_id=99", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAccentPhrases_Kana(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/accent_phrases?text=コンニチワ'&speaker=1&is_kana=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	phrases := decodeResponse[[]model.AccentPhrase](t, rec)
	require.Len(t, phrases, 1)
	assert.Equal(t, 5, phrases[0].Accent)
}

func TestAccentPhrases_GrammarError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/accent_phrases?text=コンニチワ&speaker=1&is_kana=true", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Detail struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing_accent_nucleus", body.Detail.Kind)
	assert.Equal(t, "コンニチワ", body.Detail.Text)
}

func TestMoraData(t *testing.T) {
	env := newTestEnv(t)

	phrases := []model.AccentPhrase{{
		Moras:  []model.Mora{{Text: "ア", Vowel: "a"}},
		Accent: 1,
	}}
	rec := env.do(t, http.MethodPost, "/mora_data?speaker=1", phrases)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeResponse[[]model.AccentPhrase](t, rec)
	require.Len(t, updated, 1)
	assert.Positive(t, updated[0].Moras[0].VowelLength)
	assert.Positive(t, updated[0].Moras[0].Pitch)
}

func TestSynthesis(t *testing.T) {
	env := newTestEnv(t)

	q, err := env.pipeline.BuildQuery(t.Context(), "ア", 1)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/synthesis?speaker=1", q)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))

	wf, err := wave.DecodeWAV(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 24000, wf.SampleRate)
	assert.NotEmpty(t, wf.Samples)
}

func TestCancellableSynthesis(t *testing.T) {
	env := newTestEnv(t)

	q, err := env.pipeline.BuildQuery(t.Context(), "ア", 1)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/cancellable_synthesis?speaker=1", q)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
}

func TestCancellableSynthesis_Disabled(t *testing.T) {
	env := newTestEnv(t)
	disabled := New(slog.New(slog.DiscardHandler), env.pipeline, env.mock, env.presets, nil)

	q, err := env.pipeline.BuildQuery(t.Context(), "ア", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/cancellable_synthesis?speaker=1", marshalBody(t, q))
	rec := httptest.NewRecorder()
	disabled.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancellableSynthesis_BackendUnsupported(t *testing.T) {
	env := newTestEnv(t, engine.WithoutCancellation())

	q, err := env.pipeline.BuildQuery(t.Context(), "ア", 1)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/cancellable_synthesis?speaker=1", q)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMultiSynthesis(t *testing.T) {
	env := newTestEnv(t)

	q1, err := env.pipeline.BuildQuery(t.Context(), "ア", 1)
	require.NoError(t, err)
	q2 := q1.Copy()

	rec := env.do(t, http.MethodPost, "/multi_synthesis?speaker=1", []model.AudioQuery{*q1, q2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "001.wav", zr.File[0].Name)
	assert.Equal(t, "002.wav", zr.File[1].Name)
}

func TestMultiSynthesis_InconsistentRate(t *testing.T) {
	env := newTestEnv(t)

	q1, err := env.pipeline.BuildQuery(t.Context(), "ア", 1)
	require.NoError(t, err)
	q2 := q1.Copy()
	q2.OutputSamplingRate = 22050

	rec := env.do(t, http.MethodPost, "/multi_synthesis?speaker=1", []model.AudioQuery{*q1, q2})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestConnectWaves(t *testing.T) {
	env := newTestEnv(t)

	first, err := wave.EncodeWAV(wave.Waveform{SampleRate: 24000, Channels: 1, Samples: make([]float32, 100)})
	require.NoError(t, err)
	second, err := wave.EncodeWAV(wave.Waveform{SampleRate: 24000, Channels: 1, Samples: make([]float32, 200)})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/connect_waves", []string{
		base64.StdEncoding.EncodeToString(first),
		base64.StdEncoding.EncodeToString(second),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	joined, err := wave.DecodeWAV(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, joined.Samples, 300)
}

func TestConnectWaves_BadPayload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/connect_waves", []string{"not base64!!"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestValidateKana(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/validate_kana?text=コンニチワ'", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	rec = env.do(t, http.MethodPost, "/validate_kana?text=コンニチワ", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSingFrameAudioQuery(t *testing.T) {
	env := newTestEnv(t)

	key := 60
	score := model.Score{Notes: []model.Note{
		{FrameLength: 10},
		{Key: &key, FrameLength: 20, Lyric: "ド"},
	}}
	rec := env.do(t, http.MethodPost, "/sing_frame_audio_query?speaker=1", score)
	require.Equal(t, http.StatusOK, rec.Code)

	q := decodeResponse[model.FrameAudioQuery](t, rec)
	assert.Equal(t, 30, q.TotalFrames())
	assert.Len(t, q.F0, 30)
}

func TestFrameSynthesis_Misaligned(t *testing.T) {
	env := newTestEnv(t)

	q := model.FrameAudioQuery{
		F0:                 make([]float64, 5),
		Volume:             make([]float64, 5),
		Phonemes:           []model.FramePhoneme{{Phoneme: "a", FrameLength: 7}},
		VolumeScale:        1,
		OutputSamplingRate: 24000,
	}
	rec := env.do(t, http.MethodPost, "/frame_synthesis?speaker=1", q)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPresetCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/add_preset", model.Preset{ID: 1, Name: "base", StyleID: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeResponse[int](t, rec)
	assert.Equal(t, 1, id)

	rec = env.do(t, http.MethodGet, "/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeResponse[[]model.Preset](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "base", listed[0].Name)

	rec = env.do(t, http.MethodPost, "/update_preset", model.Preset{ID: 1, Name: "renamed", StyleID: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/delete_preset?id=1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/delete_preset?id=1", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"mock-0.1.0"`, strings.TrimSpace(rec.Body.String()))
}

func marshalBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}
