package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/transcribe"
)

// maxAudioBytes caps the accepted recording size (25 MB, the provider's
// own upload limit).
const maxAudioBytes = 25 << 20

// TranscribeResponse is the body of a successful POST /api/transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// handleTranscribe serves POST /api/transcribe.
// The audio arrives as a multipart form file named "audio".
//
// Status mapping: 503 when no provider is configured, 400 for missing or
// unsupported audio, 500 when the provider call fails.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no audio provided")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		s.logger.Warn("error reading audio upload", "err", err)
		s.writeError(w, http.StatusBadRequest, "could not read audio")
		return
	}

	text, err := s.transcriber.Transcribe(r.Context(), audio, header.Header.Get("Content-Type"))
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, TranscribeResponse{Text: text})
	case errors.Is(err, ai.ErrUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, "voice search is not configured")
	case errors.Is(err, transcribe.ErrEmptyAudio):
		s.writeError(w, http.StatusBadRequest, "no audio provided")
	case errors.Is(err, transcribe.ErrUnsupportedFormat):
		s.writeError(w, http.StatusBadRequest, "unsupported audio format")
	default:
		s.logger.Error("transcription failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "transcription failed")
	}
}
