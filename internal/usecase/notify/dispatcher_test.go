package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
)

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

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func (f *fakeSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[token]; ok {
		return err
	}
	f.sent = append(f.sent, token)
	return nil
}

func TestNotifyUsers_SkipsMissingTokens(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*entities.User{
		"u1": {ID: "u1", Name: "Hana", FCMToken: "tok-1"},
		"u2": {ID: "u2", Name: "Ken", FCMToken: ""},
	}}
	sender := &fakeSender{}
	d := NewDispatcher(repo, sender, zap.NewNop())

	results := d.NotifyUsers(context.Background(), []string{"u1", "u2", "u3"}, "t", "b", nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Sent {
		t.Errorf("u1 should have been sent: %+v", results[0])
	}
	if !results[1].Skipped {
		t.Errorf("u2 without token should be skipped: %+v", results[1])
	}
	if !results[2].Skipped {
		t.Errorf("unknown u3 should be skipped: %+v", results[2])
	}
	if len(sender.sent) != 1 || sender.sent[0] != "tok-1" {
		t.Errorf("expected exactly one delivery to tok-1, got %v", sender.sent)
	}
}

func TestNotifyUsers_FailureDoesNotAbortOthers(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*entities.User{
		"u1": {ID: "u1", FCMToken: "tok-1"},
		"u2": {ID: "u2", FCMToken: "tok-2"},
	}}
	sender := &fakeSender{failFor: map[string]error{"tok-1": errors.New("unregistered")}}
	d := NewDispatcher(repo, sender, zap.NewNop())

	results := d.NotifyUsers(context.Background(), []string{"u1", "u2"}, "t", "b", nil)

	if results[0].Err == nil || results[0].Sent {
		t.Errorf("u1 delivery should have failed: %+v", results[0])
	}
	if !results[1].Sent {
		t.Errorf("u2 should still have been delivered: %+v", results[1])
	}
}

func TestNotifyOtherMembers_ExcludesActor(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*entities.User{
		"u1": {ID: "u1", FCMToken: "tok-1"},
		"u2": {ID: "u2", FCMToken: "tok-2"},
	}}
	sender := &fakeSender{}
	d := NewDispatcher(repo, sender, zap.NewNop())

	unit := &entities.Unit{ID: "ABCD1234", Members: []string{"u1", "u2"}}
	results := d.NotifyOtherMembers(context.Background(), unit, "u1", "t", "b", nil)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].UserID != "u2" || !results[0].Sent {
		t.Errorf("expected delivery to u2 only: %+v", results[0])
	}
	if len(sender.sent) != 1 || sender.sent[0] != "tok-2" {
		t.Errorf("actor must not be notified: %v", sender.sent)
	}
}
