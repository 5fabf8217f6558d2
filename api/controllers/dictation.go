package controllers

import (
	"io"
	"net/http"

	"github.com/ananyakrishnan/safarnama-backend/api/responses"
	"github.com/ananyakrishnan/safarnama-backend/api/validators"
	"github.com/ananyakrishnan/safarnama-backend/internal/dictation"
	"github.com/ananyakrishnan/safarnama-backend/pkg/config"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	"github.com/ananyakrishnan/safarnama-backend/pkg/logger"
)

// DictationsCreate accepts one recorded capture as multipart form data
// (field "audio") and runs the transcribe-generate-merge cycle against the
// addressed day.
func DictationsCreate(svc dictation.Service, cfg config.DictationConfig, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.MaxAudioMB)
	if maxBytes <= 0 {
		maxBytes = 25
	}
	maxBytes *= 1024 * 1024

	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dictation service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tripID, err := tripIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dayNumber, err := dayNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "audio file is required"))
			return
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read audio payload"))
			return
		}

		mimeType := validators.SanitizeString(header.Header.Get("Content-Type"), 100)
		if override := validators.SanitizeString(r.FormValue("mime_type"), 100); override != "" {
			mimeType = override
		}

		outcome, err := svc.Process(r.Context(), dictation.Input{
			UserID:    userID,
			TripID:    tripID,
			DayNumber: dayNumber,
			Audio:     audio,
			MIMEType:  mimeType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, outcome)
	}
}
