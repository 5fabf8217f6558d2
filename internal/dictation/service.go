package dictation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ananyakrishnan/safarnama-backend/internal/merge"
	"github.com/ananyakrishnan/safarnama-backend/internal/trips"
	"github.com/ananyakrishnan/safarnama-backend/pkg/config"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	"github.com/ananyakrishnan/safarnama-backend/pkg/metrics"
	"github.com/ananyakrishnan/safarnama-backend/pkg/narrative"
	"github.com/ananyakrishnan/safarnama-backend/pkg/types"
)

const (
	stageTranscribe = "transcribe"
	stageGenerate   = "generate"
	stagePersist    = "persist"

	outcomeMerged = "merged"
	outcomeEmpty  = "empty"
)

// Input is one recorded capture submitted against a trip day.
type Input struct {
	UserID    uuid.UUID
	TripID    uuid.UUID
	DayNumber int
	Audio     []byte
	MIMEType  string
}

// Outcome reports what the cycle did. An empty or silent capture ends the
// cycle with Updated=false and no state change; that is not an error.
type Outcome struct {
	Updated    bool           `json:"updated"`
	Transcript string         `json:"transcript,omitempty"`
	Trip       *trips.TripDTO `json:"trip,omitempty"`
}

// Service runs one dictation cycle end to end.
type Service interface {
	Process(ctx context.Context, input Input) (*Outcome, error)
}

type tripStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) (*models.Trip, error)
}

type transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type narrator interface {
	Generate(ctx context.Context, transcript string, prior []narrative.SectionContext) (*narrative.Result, error)
}

type cycleLocker interface {
	AcquireDictationLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseDictationLock(ctx context.Context, tripID string) error
}

// ServiceParams wires the dictation pipeline dependencies.
type ServiceParams struct {
	Trips       tripStore
	Transcriber transcriber
	Narrator    narrator
	Locks       cycleLocker
	Metrics     *metrics.DictationMetrics
	Config      config.DictationConfig
}

type service struct {
	trips       tripStore
	transcriber transcriber
	narrator    narrator
	locks       cycleLocker
	metrics     *metrics.DictationMetrics
	cfg         config.DictationConfig
}

// NewService validates dependencies and returns a dictation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Trips == nil {
		return nil, fmt.Errorf("trip store is required")
	}
	if params.Transcriber == nil {
		return nil, fmt.Errorf("transcriber is required")
	}
	if params.Narrator == nil {
		return nil, fmt.Errorf("narrator is required")
	}
	if params.Locks == nil {
		return nil, fmt.Errorf("cycle locker is required")
	}
	return &service{
		trips:       params.Trips,
		transcriber: params.Transcriber,
		narrator:    params.Narrator,
		locks:       params.Locks,
		metrics:     params.Metrics,
		cfg:         params.Config,
	}, nil
}

// Process runs one cycle: lock, transcribe, generate, merge, persist. Every
// failure leaves the trip exactly as it was; there is no partial merge and no
// automatic retry against the external services.
func (s *service) Process(ctx context.Context, input Input) (*Outcome, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	trip, day, err := s.loadOwnedDay(ctx, input)
	if err != nil {
		return nil, err
	}
	if trip.Status == enums.TripStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "trip is completed")
	}

	// One in-flight cycle per trip: the server-side mirror of the disabled
	// capture control. Merges apply in submission order because a second
	// cycle cannot start until this one releases the lock.
	acquired, err := s.locks.AcquireDictationLock(ctx, trip.ID.String(), s.lockTTL())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire dictation lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a dictation is already processing for this trip")
	}
	defer func() {
		// Release must not depend on the request context still being alive.
		_ = s.locks.ReleaseDictationLock(context.WithoutCancel(ctx), trip.ID.String())
	}()

	transcript, err := s.transcribe(ctx, input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript) == "" {
		s.metrics.IncSuccess(outcomeEmpty)
		return &Outcome{Updated: false}, nil
	}

	result, err := s.generate(ctx, transcript, day)
	if err != nil {
		return nil, err
	}

	merged := merge.ApplyDictation(*day, transcript, result)
	meta := merge.ApplySuggestions(merge.TripMeta{
		Title:               trip.Title,
		TitlePlaceholder:    trip.TitlePlaceholder,
		Location:            trip.Location,
		LocationPlaceholder: trip.LocationPlaceholder,
	}, result)

	*day = merged
	trip.Title = meta.Title
	trip.TitlePlaceholder = meta.TitlePlaceholder
	trip.Location = meta.Location
	trip.LocationPlaceholder = meta.LocationPlaceholder

	persistStart := time.Now()
	updated, err := s.trips.Update(ctx, trip)
	s.metrics.ObserveStage(stagePersist, time.Since(persistStart))
	if err != nil {
		s.metrics.IncFailure(stagePersist)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist merged trip")
	}

	s.metrics.IncSuccess(outcomeMerged)
	return &Outcome{
		Updated:    true,
		Transcript: transcript,
		Trip:       trips.FromModel(updated),
	}, nil
}

func (s *service) validate(input Input) error {
	if input.UserID == uuid.Nil || input.TripID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and trip id are required")
	}
	if len(input.Audio) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "audio payload is required")
	}
	if max := s.maxAudioBytes(); len(input.Audio) > max {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("audio payload exceeds %d MB", max/(1024*1024)))
	}
	return nil
}

func (s *service) loadOwnedDay(ctx context.Context, input Input) (*models.Trip, *types.Day, error) {
	trip, err := s.trips.FindByID(ctx, input.TripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find trip")
	}
	if trip.UserID != input.UserID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	for i := range trip.Days {
		if trip.Days[i].DayNumber == input.DayNumber {
			return trip, &trip.Days[i], nil
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "day not found")
}

func (s *service) transcribe(ctx context.Context, input Input) (string, error) {
	start := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, input.Audio, input.MIMEType)
	s.metrics.ObserveStage(stageTranscribe, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(stageTranscribe)
		return "", err
	}
	return transcript, nil
}

func (s *service) generate(ctx context.Context, transcript string, day *types.Day) (*narrative.Result, error) {
	prior := make([]narrative.SectionContext, 0, len(day.Sections))
	for _, section := range day.Sections {
		prior = append(prior, narrative.SectionContext{
			Topic:   section.Topic,
			English: section.English,
		})
	}

	start := time.Now()
	result, err := s.narrator.Generate(ctx, transcript, prior)
	s.metrics.ObserveStage(stageGenerate, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(stageGenerate)
		return nil, err
	}
	return result, nil
}

func (s *service) lockTTL() time.Duration {
	if s.cfg.LockTTL <= 0 {
		return 5 * time.Minute
	}
	return s.cfg.LockTTL
}

func (s *service) maxAudioBytes() int {
	mb := s.cfg.MaxAudioMB
	if mb <= 0 {
		mb = 25
	}
	return mb * 1024 * 1024
}
