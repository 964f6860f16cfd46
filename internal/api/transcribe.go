package api

import (
	"errors"
	"net/http"
)

// transcribe handles POST /api/whisper. Transcription is not offered; the
// upload is accepted and discarded so clients can keep their audio flow.
func (s *Server) transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := r.ParseMultipartForm(8 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "audio file exceeds 25 MB")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if file, header, err := r.FormFile("file"); err == nil {
		file.Close()
		s.logger.Debug().Str("filename", header.Filename).Int64("size", header.Size).Msg("audio upload ignored")
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": ""})
}
