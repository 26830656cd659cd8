package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
	"github.com/archmich514/kiog/internal/usecase/notify"
)

type fakeUnitRepo struct {
	units map[string]*entities.Unit
}

func (f *fakeUnitRepo) Create(ctx context.Context, unit *entities.Unit) error { return nil }

func (f *fakeUnitRepo) FindByID(ctx context.Context, id string) (*entities.Unit, error) {
	return f.units[id], nil
}

func (f *fakeUnitRepo) ListAll(ctx context.Context) ([]*entities.Unit, error) { return nil, nil }

func (f *fakeUnitRepo) AddMember(ctx context.Context, unitID, userID string) error { return nil }

type fakeUserRepo struct {
	users map[string]*entities.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	out := make(map[string]*entities.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *entities.User) error { return nil }

func (f *fakeUserRepo) SetFCMToken(ctx context.Context, userID, token string) error { return nil }

type fakeRecordingRepo struct {
	recordings []*entities.Recording
}

func (f *fakeRecordingRepo) Create(ctx context.Context, rec *entities.Recording) error { return nil }

func (f *fakeRecordingRepo) FindByID(ctx context.Context, id string) (*entities.Recording, error) {
	for _, r := range f.recordings {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordingRepo) FindByUnitAndStatus(ctx context.Context, unitID string, status entities.RecordingStatus) ([]*entities.Recording, error) {
	var out []*entities.Recording
	for _, r := range f.recordings {
		if r.UnitID == unitID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordingRepo) DistinctUnitIDsByStatus(ctx context.Context, status entities.RecordingStatus) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range f.recordings {
		if r.Status == status && !seen[r.UnitID] {
			seen[r.UnitID] = true
			out = append(out, r.UnitID)
		}
	}
	return out, nil
}

func (f *fakeRecordingRepo) MarkUploaded(ctx context.Context, id, storagePath string) (bool, error) {
	return f.transition(id, entities.RecordingStatusUploading, entities.RecordingStatusUploaded)
}

func (f *fakeRecordingRepo) MarkTranscribed(ctx context.Context, id, transcript string) (bool, error) {
	ok, err := f.transition(id, entities.RecordingStatusUploaded, entities.RecordingStatusTranscribed)
	if ok {
		for _, r := range f.recordings {
			if r.ID == id {
				r.Transcript = transcript
			}
		}
	}
	return ok, err
}

func (f *fakeRecordingRepo) MarkReported(ctx context.Context, id string) (bool, error) {
	return f.transition(id, entities.RecordingStatusTranscribed, entities.RecordingStatusReported)
}

func (f *fakeRecordingRepo) transition(id string, from, to entities.RecordingStatus) (bool, error) {
	for _, r := range f.recordings {
		if r.ID == id && r.Status == from {
			r.Status = to
			return true, nil
		}
	}
	return false, nil
}

type fakeAnswerRepo struct {
	answers []*entities.Answer
}

func (f *fakeAnswerRepo) Create(ctx context.Context, answer *entities.Answer) error { return nil }

func (f *fakeAnswerRepo) FindByID(ctx context.Context, id string) (*entities.Answer, error) {
	return nil, nil
}

func (f *fakeAnswerRepo) FindByUnitAndDate(ctx context.Context, unitID, date string) ([]*entities.Answer, error) {
	return f.answers, nil
}

func (f *fakeAnswerRepo) AddPrediction(ctx context.Context, answerID string, p entities.Prediction) error {
	return nil
}

func (f *fakeAnswerRepo) MarkViewed(ctx context.Context, answerID, userID string) error { return nil }

type fakeReportRepo struct {
	created    *entities.Report
	notifiedID string
}

func (f *fakeReportRepo) Create(ctx context.Context, report *entities.Report) error {
	f.created = report
	return nil
}

func (f *fakeReportRepo) FindByUnitAndDate(ctx context.Context, unitID, date string) (*entities.Report, error) {
	return f.created, nil
}

func (f *fakeReportRepo) SetNotifiedAt(ctx context.Context, reportID string) error {
	f.notifiedID = reportID
	return nil
}

type fakeBlobStore struct {
	blobs map[string][]byte
}

func (f *fakeBlobStore) DownloadFile(ctx context.Context, objectName string) ([]byte, error) {
	if data, ok := f.blobs[objectName]; ok {
		return data, nil
	}
	return nil, errors.New("object not found")
}

type fakeTranscriber struct {
	transcripts map[string]string
	failFor     map[string]bool
}

func (f *fakeTranscriber) TranscribeAudio(ctx context.Context, audio []byte, mimeType string, roster []entities.Member) (string, error) {
	key := string(audio)
	if f.failFor[key] {
		return "", errors.New("model rejected audio")
	}
	return f.transcripts[key], nil
}

type fakeCompleter struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return nil
}

type fixture struct {
	units      *fakeUnitRepo
	users      *fakeUserRepo
	recordings *fakeRecordingRepo
	answers    *fakeAnswerRepo
	reports    *fakeReportRepo
	blobs      *fakeBlobStore
	transcribe *fakeTranscriber
	completer  *fakeCompleter
	svc        Service
}

func newFixture(recordings []*entities.Recording) *fixture {
	f := &fixture{
		units: &fakeUnitRepo{units: map[string]*entities.Unit{
			"UNIT0001": {ID: "UNIT0001", Members: []string{"u1", "u2"}},
		}},
		users: &fakeUserRepo{users: map[string]*entities.User{
			"u1": {ID: "u1", Name: "Hana", Gender: "female", FCMToken: "tok-1"},
			"u2": {ID: "u2", Name: "Ken", Gender: "male", FCMToken: "tok-2"},
		}},
		recordings: &fakeRecordingRepo{recordings: recordings},
		answers:    &fakeAnswerRepo{},
		reports:    &fakeReportRepo{},
		blobs:      &fakeBlobStore{blobs: map[string][]byte{}},
		transcribe: &fakeTranscriber{transcripts: map[string]string{}, failFor: map[string]bool{}},
		completer:  &fakeCompleter{response: `{"content": "レポート本文", "tags": ["タグ"]}`},
	}
	logger := zap.NewNop()
	dispatcher := notify.NewDispatcher(f.users, noopSender{}, logger)
	f.svc = NewReportService(
		f.units, f.users, f.recordings, f.answers, f.reports,
		f.blobs, f.transcribe, NewSynthesizer(f.completer, logger),
		dispatcher, time.UTC, logger,
	)
	return f
}

func uploadedRecording(id string) *entities.Recording {
	return &entities.Recording{
		ID:     id,
		UnitID: "UNIT0001",
		Status: entities.RecordingStatusUploaded,
	}
}

func (f *fixture) seedAudio(rec *entities.Recording, transcript string) {
	audio := []byte("audio-" + rec.ID)
	f.blobs.blobs[rec.ObjectName()] = audio
	f.transcribe.transcripts[string(audio)] = transcript
}

func TestGenerateForUnit_NoUploadedRecordings(t *testing.T) {
	f := newFixture(nil)

	if err := f.svc.GenerateForUnit(context.Background(), "UNIT0001"); err != nil {
		t.Fatalf("expected silent no-op: %v", err)
	}
	if f.reports.created != nil {
		t.Error("report must not be created without uploaded recordings")
	}
	if f.completer.prompt != "" {
		t.Error("synthesizer must not be called")
	}
}

func TestGenerateForUnit_HappyPath(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	rec2 := uploadedRecording("rec-2")
	f := newFixture([]*entities.Recording{rec1, rec2})
	f.seedAudio(rec1, "Hana: おはよう")
	f.seedAudio(rec2, "Ken: ただいま")

	if err := f.svc.GenerateForUnit(context.Background(), "UNIT0001"); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	report := f.reports.created
	if report == nil {
		t.Fatal("report not created")
	}
	if report.Content != "レポート本文" || len(report.Tags) != 1 {
		t.Errorf("synthesis result not applied: %+v", report)
	}
	if len(report.RecordingIDs) != 2 {
		t.Errorf("expected both recordings referenced, got %v", report.RecordingIDs)
	}
	for _, rec := range f.recordings.recordings {
		if rec.Status != entities.RecordingStatusReported {
			t.Errorf("recording %s should be reported, is %s", rec.ID, rec.Status)
		}
	}
	if f.reports.notifiedID != report.ID {
		t.Errorf("notifiedAt not stamped after dispatch")
	}
	if rec1.Transcript != "Hana: おはよう" {
		t.Errorf("transcript not persisted on recording")
	}
}

func TestGenerateForUnit_TranscriptSeparator(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	rec2 := uploadedRecording("rec-2")
	f := newFixture([]*entities.Recording{rec1, rec2})
	f.seedAudio(rec1, "first")
	f.seedAudio(rec2, "second")

	if err := f.svc.GenerateForUnit(context.Background(), "UNIT0001"); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	want := "first" + transcriptSeparator + "second"
	if !strings.Contains(f.completer.prompt, want) {
		t.Errorf("combined transcript missing separator join")
	}
}

func TestGenerateForUnit_OneFailedTranscriptionTolerated(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	rec2 := uploadedRecording("rec-2")
	f := newFixture([]*entities.Recording{rec1, rec2})
	f.seedAudio(rec1, "good transcript")
	audio2 := []byte("audio-rec-2")
	f.blobs.blobs[rec2.ObjectName()] = audio2
	f.transcribe.failFor[string(audio2)] = true

	if err := f.svc.GenerateForUnit(context.Background(), "UNIT0001"); err != nil {
		t.Fatalf("one bad recording must not fail the unit: %v", err)
	}

	report := f.reports.created
	if report == nil {
		t.Fatal("report not created")
	}
	if len(report.RecordingIDs) != 1 || report.RecordingIDs[0] != "rec-1" {
		t.Errorf("only the transcribed recording may be referenced, got %v", report.RecordingIDs)
	}
	if rec2.Status != entities.RecordingStatusUploaded {
		t.Errorf("failed recording must stay uploaded, is %s", rec2.Status)
	}
	if rec1.Status != entities.RecordingStatusReported {
		t.Errorf("good recording should be reported, is %s", rec1.Status)
	}
}

func TestGenerateForUnit_AllTranscriptionsFailed(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	f := newFixture([]*entities.Recording{rec1})
	audio := []byte("audio-rec-1")
	f.blobs.blobs[rec1.ObjectName()] = audio
	f.transcribe.failFor[string(audio)] = true

	err := f.svc.GenerateForUnit(context.Background(), "UNIT0001")
	if !errors.Is(err, usecaseerrors.ErrNoTranscripts) {
		t.Fatalf("expected ErrNoTranscripts, got %v", err)
	}
	if f.reports.created != nil {
		t.Error("report must not be created without transcripts")
	}
}

func TestGenerateForUnit_NoMembersAborts(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	f := newFixture([]*entities.Recording{rec1})
	f.users.users = map[string]*entities.User{}

	err := f.svc.GenerateForUnit(context.Background(), "UNIT0001")
	if !errors.Is(err, usecaseerrors.ErrUnitNoMembers) {
		t.Fatalf("expected ErrUnitNoMembers, got %v", err)
	}
	if rec1.Status != entities.RecordingStatusUploaded {
		t.Errorf("recordings must stay uploaded for retry, is %s", rec1.Status)
	}
}

func TestGenerateForUnit_AnswersGroupedIntoReport(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	f := newFixture([]*entities.Recording{rec1})
	f.seedAudio(rec1, "transcript")
	f.answers.answers = []*entities.Answer{
		{QuestionText: "今日の朝ごはんは？", UserName: "Hana", Answer: "パン"},
		{QuestionText: "今日の朝ごはんは？", UserName: "Ken", Answer: "ごはん"},
		{QuestionText: "楽しみな予定は？", UserName: "Hana", Answer: "旅行"},
	}

	if err := f.svc.GenerateForUnit(context.Background(), "UNIT0001"); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	qa := f.reports.created.QuestionAnswers
	if len(qa) != 2 {
		t.Fatalf("expected 2 question groups, got %d", len(qa))
	}
	if qa[0].QuestionText != "今日の朝ごはんは？" || len(qa[0].Answers) != 2 {
		t.Errorf("first-seen grouping broken: %+v", qa[0])
	}
}

func TestGenerateDailyReports_UnitIsolation(t *testing.T) {
	rec1 := uploadedRecording("rec-1")
	rec2 := &entities.Recording{ID: "rec-2", UnitID: "GHOST999", Status: entities.RecordingStatusUploaded}
	f := newFixture([]*entities.Recording{rec1, rec2})
	f.seedAudio(rec1, "transcript")
	f.seedAudio(rec2, "ghost transcript")

	// GHOST999 has no unit document; its failure must not stop UNIT0001.
	if err := f.svc.GenerateDailyReports(context.Background()); err != nil {
		t.Fatalf("daily run failed: %v", err)
	}
	if f.reports.created == nil || f.reports.created.UnitID != "UNIT0001" {
		t.Error("healthy unit's report must still be generated")
	}
}
