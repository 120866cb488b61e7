package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nguyentantai21042004/minutes-flow/internal/artifact"
	"github.com/nguyentantai21042004/minutes-flow/internal/model"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

type uploadResponse struct {
	Transcript         string  `json:"transcript"`
	ProcessingTime     float64 `json:"processing_time"`
	AudioFilename      string  `json:"audio_filename"`
	TranscriptFilename string  `json:"transcript_filename"`
}

type summarizeRequest struct {
	Model         string `json:"model"`
	Transcript    string `json:"transcript"`
	AudioFilename string `json:"audio_filename"`
}

type summarizeResponse struct {
	Summary         string `json:"summary"`
	SummaryFilename string `json:"summary_filename"`
}

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 32 << 20

// upload handles POST /upload: store the recording, then transcribe it.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.maxUploadBytes > 0 {
		if r.ContentLength > s.maxUploadBytes {
			WriteError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, err)
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "no audio file uploaded")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		WriteError(w, http.StatusBadRequest, "no audio file selected")
		return
	}

	name, err := s.store.SaveAudio(ctx, header.Filename, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	transcript, err := s.transcriber.Transcribe(ctx, artifact.BaseName(name), r.FormValue("language"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, uploadResponse{
		Transcript:         transcript.Text,
		ProcessingTime:     math.Round(transcript.Duration.Seconds()*100) / 100,
		AudioFilename:      name,
		TranscriptFilename: transcript.Filename,
	})
}

// summarize handles POST /summarize.
func (s *Server) summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.summarizer.Summarize(r.Context(), summarizer.Request{
		Provider:   req.Model,
		Transcript: req.Transcript,
		AudioID:    artifact.BaseName(req.AudioFilename),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, summarizeResponse{
		Summary:         res.Summary,
		SummaryFilename: res.Filename,
	})
}

// listFiles handles GET /files.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// getFile handles GET /files/{name}.
func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.store.Read(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.SanitizeFilename(name)+`"`)
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	catalog := s.catalog.Catalog()
	if catalog == nil {
		catalog = map[string]model.CatalogEntry{}
	}
	WriteJSON(w, http.StatusOK, catalog)
}

func (s *Server) getPrompt(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"template": s.prompt.Text()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail reports err to the client and logs it. Server-side failures are logged
// at error level, client mistakes at warn.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "%s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		s.logger.Warn(r.Context(), "%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	WriteError(w, status, err.Error())
}
