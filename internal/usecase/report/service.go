package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
	"github.com/archmich514/kiog/internal/usecase/notify"
)

// transcriptSeparator joins per-recording transcripts into the combined
// conversation text the synthesizer receives.
const transcriptSeparator = "\n\n---\n\n"

const audioMimeType = "audio/mp4"

// BlobStore fetches stored recording audio
type BlobStore interface {
	DownloadFile(ctx context.Context, objectName string) ([]byte, error)
}

// Transcriber converts recording audio into a speaker-attributed transcript
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string, roster []entities.Member) (string, error)
}

// Service defines report orchestration methods
type Service interface {
	GenerateDailyReports(ctx context.Context) error
	GenerateForUnit(ctx context.Context, unitID string) error
	GetReport(ctx context.Context, unitID, date string) (*entities.Report, error)
}

type reportService struct {
	unitRepo      repositories.UnitRepository
	userRepo      repositories.UserRepository
	recordingRepo repositories.RecordingRepository
	answerRepo    repositories.AnswerRepository
	reportRepo    repositories.ReportRepository
	blobs         BlobStore
	transcriber   Transcriber
	synthesizer   *Synthesizer
	dispatcher    *notify.Dispatcher
	loc           *time.Location
	logger        *zap.Logger
}

// NewReportService constructs a report orchestration service
func NewReportService(
	unitRepo repositories.UnitRepository,
	userRepo repositories.UserRepository,
	recordingRepo repositories.RecordingRepository,
	answerRepo repositories.AnswerRepository,
	reportRepo repositories.ReportRepository,
	blobs BlobStore,
	transcriber Transcriber,
	synthesizer *Synthesizer,
	dispatcher *notify.Dispatcher,
	loc *time.Location,
	logger *zap.Logger,
) Service {
	return &reportService{
		unitRepo:      unitRepo,
		userRepo:      userRepo,
		recordingRepo: recordingRepo,
		answerRepo:    answerRepo,
		reportRepo:    reportRepo,
		blobs:         blobs,
		transcriber:   transcriber,
		synthesizer:   synthesizer,
		dispatcher:    dispatcher,
		loc:           loc,
		logger:        logger,
	}
}

// GenerateDailyReports runs the pipeline for every unit that has at
// least one uploaded recording. Units are isolated: a failing unit is
// logged and the rest continue.
func (s *reportService) GenerateDailyReports(ctx context.Context) error {
	unitIDs, err := s.recordingRepo.DistinctUnitIDsByStatus(ctx, entities.RecordingStatusUploaded)
	if err != nil {
		return fmt.Errorf("failed to discover units with recordings: %w", err)
	}

	s.logger.Info("daily report run starting", zap.Int("unit_count", len(unitIDs)))

	for _, unitID := range unitIDs {
		if err := s.GenerateForUnit(ctx, unitID); err != nil {
			s.logger.Error("failed to generate report for unit",
				zap.String("unit_id", unitID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// GenerateForUnit runs the full pipeline for one unit: transcribe its
// uploaded recordings, synthesize the report, persist it, advance the
// recording statuses and notify the members.
func (s *reportService) GenerateForUnit(ctx context.Context, unitID string) error {
	recordings, err := s.recordingRepo.FindByUnitAndStatus(ctx, unitID, entities.RecordingStatusUploaded)
	if err != nil {
		return fmt.Errorf("failed to load recordings: %w", err)
	}
	if len(recordings) == 0 {
		s.logger.Info("no uploaded recordings for unit", zap.String("unit_id", unitID))
		return nil
	}

	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return usecaseerrors.ErrUnitNotFound
	}

	users, err := s.userRepo.FindByIDs(ctx, unit.Members)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	roster := entities.RosterFromUsers(unit.Members, users)
	if len(roster) == 0 {
		// Recordings stay uploaded so a later run can retry once the
		// member documents exist.
		return usecaseerrors.ErrUnitNoMembers
	}

	s.logger.Info("processing recordings",
		zap.String("unit_id", unitID),
		zap.Int("recording_count", len(recordings)),
	)

	transcripts := make([]string, 0, len(recordings))
	recordingIDs := make([]string, 0, len(recordings))

	for _, rec := range recordings {
		transcript, err := s.transcribeRecording(ctx, rec, roster)
		if err != nil {
			// One bad recording never sinks the unit's report.
			s.logger.Error("failed to transcribe recording",
				zap.String("unit_id", unitID),
				zap.String("recording_id", rec.ID),
				zap.Error(err),
			)
			continue
		}

		matched, err := s.recordingRepo.MarkTranscribed(ctx, rec.ID, transcript)
		if err != nil {
			s.logger.Error("failed to mark recording transcribed",
				zap.String("recording_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		if !matched {
			// A concurrent run already consumed this recording.
			s.logger.Warn("recording no longer uploaded, skipping",
				zap.String("recording_id", rec.ID),
			)
			continue
		}

		transcripts = append(transcripts, transcript)
		recordingIDs = append(recordingIDs, rec.ID)
	}

	if len(transcripts) == 0 {
		return usecaseerrors.ErrNoTranscripts
	}

	combined := strings.Join(transcripts, transcriptSeparator)
	today := entities.DateKey(time.Now(), s.loc)

	answers, err := s.answerRepo.FindByUnitAndDate(ctx, unitID, today)
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}
	questionAnswers := entities.GroupAnswersByQuestion(answers)

	result, err := s.synthesizer.Synthesize(ctx, combined, roster)
	if err != nil {
		return err
	}

	report := entities.NewReport(unitID, today, result.Content, result.Tags, recordingIDs, questionAnswers)
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	for _, id := range recordingIDs {
		if _, err := s.recordingRepo.MarkReported(ctx, id); err != nil {
			s.logger.Error("failed to mark recording reported",
				zap.String("recording_id", id),
				zap.Error(err),
			)
		}
	}

	s.dispatcher.NotifyUnit(ctx, unit,
		"今日のKIOGができました",
		"二人の今日の会話をまとめました。見てみてね。",
		map[string]string{"type": "report", "date": today},
	)

	if err := s.reportRepo.SetNotifiedAt(ctx, report.ID); err != nil {
		s.logger.Error("failed to stamp report notification time",
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("report generated",
		zap.String("unit_id", unitID),
		zap.String("report_id", report.ID),
		zap.Int("transcript_count", len(transcripts)),
	)
	return nil
}

// GetReport returns a unit's report for the given day
func (s *reportService) GetReport(ctx context.Context, unitID, date string) (*entities.Report, error) {
	report, err := s.reportRepo.FindByUnitAndDate(ctx, unitID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if report == nil {
		return nil, usecaseerrors.ErrReportNotFound
	}
	return report, nil
}

// transcribeRecording downloads the audio blob, retrying transient
// storage failures, and runs transcription.
func (s *reportService) transcribeRecording(ctx context.Context, rec *entities.Recording, roster []entities.Member) (string, error) {
	var audio []byte

	downloadFn := func() error {
		data, err := s.blobs.DownloadFile(ctx, rec.ObjectName())
		if err != nil {
			return err
		}
		audio = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(downloadFn, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("failed to download audio: %w", err)
	}

	transcript, err := s.transcriber.TranscribeAudio(ctx, audio, audioMimeType, roster)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return transcript, nil
}
