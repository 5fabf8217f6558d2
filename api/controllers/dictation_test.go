package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ananyakrishnan/safarnama-backend/api/middleware"
	"github.com/ananyakrishnan/safarnama-backend/internal/dictation"
	"github.com/ananyakrishnan/safarnama-backend/pkg/config"
	"github.com/ananyakrishnan/safarnama-backend/pkg/logger"
)

type stubDictationService struct {
	input   *dictation.Input
	outcome *dictation.Outcome
	err     error
}

func (s *stubDictationService) Process(ctx context.Context, input dictation.Input) (*dictation.Outcome, error) {
	s.input = &input
	if s.err != nil {
		return nil, s.err
	}
	if s.outcome != nil {
		return s.outcome, nil
	}
	return &dictation.Outcome{Updated: true, Transcript: "stub"}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-controllers", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func dictationRouter(svc dictation.Service, cfg config.DictationConfig) http.Handler {
	r := chi.NewRouter()
	r.Post("/trips/{tripID}/days/{dayNumber}/dictations", DictationsCreate(svc, cfg, testLogger()))
	return r
}

func multipartAudio(t *testing.T, audio []byte, mimeOverride string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "capture.webm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(audio); err != nil {
		t.Fatalf("write audio part: %v", err)
	}
	if mimeOverride != "" {
		if err := writer.WriteField("mime_type", mimeOverride); err != nil {
			t.Fatalf("write mime field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestDictationsCreateForwardsCapture(t *testing.T) {
	svc := &stubDictationService{}
	router := dictationRouter(svc, config.DictationConfig{MaxAudioMB: 1})

	userID := uuid.New()
	tripID := uuid.New()
	audio := []byte("opus-bytes")
	body, contentType := multipartAudio(t, audio, "audio/webm;codecs=opus")

	req := httptest.NewRequest(http.MethodPost, "/trips/"+tripID.String()+"/days/2/dictations", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.input == nil {
		t.Fatal("expected the service to receive a capture")
	}
	if svc.input.UserID != userID {
		t.Fatalf("expected user %s got %s", userID, svc.input.UserID)
	}
	if svc.input.TripID != tripID {
		t.Fatalf("expected trip %s got %s", tripID, svc.input.TripID)
	}
	if svc.input.DayNumber != 2 {
		t.Fatalf("expected day 2 got %d", svc.input.DayNumber)
	}
	if !bytes.Equal(svc.input.Audio, audio) {
		t.Fatalf("audio payload altered in transit")
	}
	if svc.input.MIMEType != "audio/webm;codecs=opus" {
		t.Fatalf("expected mime override to win, got %q", svc.input.MIMEType)
	}
}

func TestDictationsCreateRequiresAudioPart(t *testing.T) {
	svc := &stubDictationService{}
	router := dictationRouter(svc, config.DictationConfig{MaxAudioMB: 1})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("mime_type", "audio/webm"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/days/1/dictations", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without audio part got %d", resp.Code)
	}
	if svc.input != nil {
		t.Fatal("service reached without an audio part")
	}
}

func TestDictationsCreateRejectsAnonymous(t *testing.T) {
	svc := &stubDictationService{}
	router := dictationRouter(svc, config.DictationConfig{MaxAudioMB: 1})

	body, contentType := multipartAudio(t, []byte("x"), "")
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/days/1/dictations", body)
	req.Header.Set("Content-Type", contentType)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity got %d", resp.Code)
	}
	if svc.input != nil {
		t.Fatal("service reached without identity")
	}
}
