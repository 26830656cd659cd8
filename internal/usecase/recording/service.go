package recording

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
)

const audioContentType = "audio/mp4"

// BlobStore persists recording audio
type BlobStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	RemoveFile(ctx context.Context, objectName string) error
}

// Service defines recording intake methods
type Service interface {
	Upload(ctx context.Context, unitID, userID string, durationSeconds int, audio []byte) (*entities.Recording, error)
	Get(ctx context.Context, id string) (*entities.Recording, error)
}

type recordingService struct {
	recordingRepo repositories.RecordingRepository
	unitRepo      repositories.UnitRepository
	blobs         BlobStore
	logger        *zap.Logger
}

// NewRecordingService constructs a recording intake service
func NewRecordingService(
	recordingRepo repositories.RecordingRepository,
	unitRepo repositories.UnitRepository,
	blobs BlobStore,
	logger *zap.Logger,
) Service {
	return &recordingService{
		recordingRepo: recordingRepo,
		unitRepo:      unitRepo,
		blobs:         blobs,
		logger:        logger,
	}
}

// Upload stores the audio blob and registers the recording as uploaded,
// making it visible to the next report run. The document is created in
// uploading state first so a crashed upload never yields a recording
// the pipeline would try to transcribe.
func (s *recordingService) Upload(ctx context.Context, unitID, userID string, durationSeconds int, audio []byte) (*entities.Recording, error) {
	if len(audio) == 0 {
		return nil, usecaseerrors.ErrInvalidInput
	}

	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return nil, usecaseerrors.ErrUnitNotFound
	}
	if !unit.HasMember(userID) {
		return nil, usecaseerrors.ErrNotUnitMember
	}

	rec := entities.NewRecording(unitID, userID, durationSeconds)
	if err := s.recordingRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to register recording: %w", err)
	}

	objectName := rec.ObjectName()
	if err := s.blobs.UploadFile(ctx, objectName, bytes.NewReader(audio), int64(len(audio)), audioContentType); err != nil {
		return nil, fmt.Errorf("failed to store audio: %w", err)
	}

	matched, err := s.recordingRepo.MarkUploaded(ctx, rec.ID, objectName)
	if err != nil {
		return nil, fmt.Errorf("failed to mark recording uploaded: %w", err)
	}
	if !matched {
		return nil, usecaseerrors.ErrRecordingWrongStatus
	}

	rec.Status = entities.RecordingStatusUploaded
	rec.StoragePath = objectName

	s.logger.Info("recording uploaded",
		zap.String("recording_id", rec.ID),
		zap.String("unit_id", unitID),
		zap.Int("size_bytes", len(audio)),
	)
	return rec, nil
}

// Get returns a recording by id
func (s *recordingService) Get(ctx context.Context, id string) (*entities.Recording, error) {
	rec, err := s.recordingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recording: %w", err)
	}
	if rec == nil {
		return nil, usecaseerrors.ErrRecordingNotFound
	}
	return rec, nil
}
