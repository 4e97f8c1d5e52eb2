package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ratalie/aws-nova/pkg/config"
	"github.com/ratalie/aws-nova/pkg/knowledge"
	"github.com/ratalie/aws-nova/pkg/translator"
)

// maximum accepted size for an uploaded voice recording
const maxAudioBytes = 10 << 20

// Transcriber converts recorded audio to text. Implemented by
// speech.Client; nil disables voice input.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// AudioFetcher returns the path of a synthesized pronunciation file.
// Implemented by audio.Downloader; nil disables phrase audio.
type AudioFetcher interface {
	Fetch(ctx context.Context, text string) (string, error)
}

// SourceDetector reports whether text is in the source language.
// Implemented by detect.Detector; nil makes direction=auto default to
// source → target.
type SourceDetector interface {
	IsSource(ctx context.Context, text string) (bool, error)
}

// Deps carries the long-lived collaborators the server is wired with.
type Deps struct {
	Generator translator.Generator
	Speech    Transcriber
	Audio     AudioFetcher
	Detector  SourceDetector
	DataDir   string
	Source    config.Language
	Target    config.Language
	Log       *slog.Logger
}

// Server is the HTTP presentation layer. It constructs a fresh knowledge
// base per request from the immutable data files; no state is shared
// between interactions.
type Server struct {
	deps Deps
	mux  *http.ServeMux
}

func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	s := &Server{deps: deps, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /api/translate", s.handleTranslate)
	s.mux.HandleFunc("POST /api/lesson", s.handleLesson)
	s.mux.HandleFunc("POST /api/culture", s.handleCulture)
	s.mux.HandleFunc("GET /api/phrases", s.handlePhrases)
	s.mux.HandleFunc("GET /api/phrases/audio", s.handlePhraseAudio)
	s.mux.HandleFunc("GET /api/categories", s.handleCategories)
	s.mux.HandleFunc("GET /api/vocabulary", s.handleVocabulary)
	s.mux.HandleFunc("POST /api/transcribe", s.handleTranscribe)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// newTranslator loads a fresh knowledge base for this request.
func (s *Server) newTranslator() (*translator.Translator, *knowledge.Base, error) {
	kb, err := knowledge.Load(s.deps.DataDir, s.deps.Target.Key)
	if err != nil {
		return nil, nil, err
	}
	return translator.New(s.deps.Generator, kb, s.deps.Source, s.deps.Target), kb, nil
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Direction string `json:"direction"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	tr, _, err := s.newTranslator()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	direction := req.Direction
	if direction == "" {
		direction = "to_target"
	}
	if direction == "auto" {
		direction = s.resolveDirection(r.Context(), req.Text)
	}

	var res translator.Result
	switch direction {
	case "to_target":
		res, err = tr.TranslateToTarget(r.Context(), req.Text)
	case "to_source":
		res, err = tr.TranslateToSource(r.Context(), req.Text)
	default:
		s.writeError(w, http.StatusBadRequest, "direction must be to_target, to_source or auto")
		return
	}
	if err != nil {
		s.deps.Log.Error("translation failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "el servicio de traducción no está disponible")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// resolveDirection picks a translation direction from the detected input
// language. Detection trouble is soft: log and assume source → target.
func (s *Server) resolveDirection(ctx context.Context, text string) string {
	if s.deps.Detector == nil {
		return "to_target"
	}
	isSource, err := s.deps.Detector.IsSource(ctx, text)
	if err != nil {
		s.deps.Log.Warn("language detection failed", "err", err)
		return "to_target"
	}
	if isSource {
		return "to_target"
	}
	return "to_source"
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Topic == "" {
		s.writeError(w, http.StatusBadRequest, "topic must not be empty")
		return
	}

	tr, _, err := s.newTranslator()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	lesson, err := tr.GenerateLesson(r.Context(), req.Topic, translator.ParseDifficulty(req.Difficulty))
	if err != nil {
		s.deps.Log.Error("lesson generation failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "el servicio de generación no está disponible")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"lesson": lesson})
}

func (s *Server) handleCulture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	tr, _, err := s.newTranslator()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	explanation, err := tr.ExplainCulture(r.Context(), req.Text)
	if err != nil {
		s.deps.Log.Error("cultural explanation failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "el servicio de generación no está disponible")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}

func (s *Server) handlePhrases(w http.ResponseWriter, r *http.Request) {
	tr, _, err := s.newTranslator()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	phrases := tr.PhraseBook(r.URL.Query().Get("category"))
	if phrases == nil {
		phrases = []knowledge.Phrase{}
	}
	s.writeJSON(w, http.StatusOK, phrases)
}

func (s *Server) handlePhraseAudio(w http.ResponseWriter, r *http.Request) {
	if s.deps.Audio == nil {
		s.writeError(w, http.StatusServiceUnavailable, "audio no disponible")
		return
	}
	text := r.URL.Query().Get("text")
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	path, err := s.deps.Audio.Fetch(r.Context(), text)
	if err != nil {
		s.deps.Log.Error("audio synthesis failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "el servicio de voz no está disponible")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	_, kb, err := s.newTranslator()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"categories": kb.AvailableCategories()})
}

func (s *Server) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	_, kb, err := s.newTranslator()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var context string
	if category := r.URL.Query().Get("category"); category != "" {
		context = kb.CategoryVocabulary(category)
	} else {
		context = kb.AllVocabularyContext()
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"vocabulary": context})
}

// handleTranscribe turns uploaded audio into text. A transcription failure
// is a soft warning, not an error: the caller falls back to typed input.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.deps.Speech == nil {
		s.writeJSON(w, http.StatusOK, map[string]string{"warning": "la entrada de voz no está configurada"})
		return
	}
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "could not parse upload")
		return
	}
	file, hdr, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "audio file missing")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	text, err := s.deps.Speech.Transcribe(r.Context(), data, hdr.Filename)
	if err != nil {
		s.deps.Log.Warn("transcription failed", "err", err)
		s.writeJSON(w, http.StatusOK, map[string]string{
			"warning": "no se pudo transcribir el audio, escribe el texto manualmente",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "language": s.deps.Target.Key})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.deps.Log.Error("could not encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
