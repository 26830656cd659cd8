package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
)

type fakeUnitRepo struct {
	units map[string]*entities.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: map[string]*entities.Unit{}}
}

func (f *fakeUnitRepo) Create(ctx context.Context, unit *entities.Unit) error {
	f.units[unit.ID] = unit
	return nil
}

func (f *fakeUnitRepo) FindByID(ctx context.Context, id string) (*entities.Unit, error) {
	return f.units[id], nil
}

func (f *fakeUnitRepo) ListAll(ctx context.Context) ([]*entities.Unit, error) {
	out := make([]*entities.Unit, 0, len(f.units))
	for _, u := range f.units {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUnitRepo) AddMember(ctx context.Context, unitID, userID string) error {
	u, ok := f.units[unitID]
	if !ok {
		return errors.New("no unit")
	}
	u.Members = append(u.Members, userID)
	return nil
}

type fakeUserRepo struct {
	users map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entities.User{}}
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	out := map[string]*entities.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetFCMToken(ctx context.Context, userID, token string) error {
	u, ok := f.users[userID]
	if !ok {
		return errors.New("no user")
	}
	u.FCMToken = token
	return nil
}

func newService(unitRepo *fakeUnitRepo, userRepo *fakeUserRepo) Service {
	return NewUnitService(unitRepo, userRepo, zap.NewNop())
}

func TestRegisterUser_PreservesUnitAndToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.users["u1"] = &entities.User{
		ID:        "u1",
		Name:      "old name",
		UnitID:    "UNIT0001",
		FCMToken:  "tok-1",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	svc := newService(newFakeUnitRepo(), userRepo)

	user, err := svc.RegisterUser(context.Background(), "u1", "new name", "female")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Name != "new name" {
		t.Errorf("name not updated: %q", user.Name)
	}
	if user.UnitID != "UNIT0001" || user.FCMToken != "tok-1" {
		t.Errorf("membership or token lost: unit=%q token=%q", user.UnitID, user.FCMToken)
	}
	if !user.CreatedAt.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("createdAt overwritten: %v", user.CreatedAt)
	}
}

func TestRegisterUser_RejectsMissingFields(t *testing.T) {
	svc := newService(newFakeUnitRepo(), newFakeUserRepo())

	if _, err := svc.RegisterUser(context.Background(), "", "name", ""); !errors.Is(err, usecaseerrors.ErrInvalidInput) {
		t.Errorf("empty id: got %v", err)
	}
	if _, err := svc.RegisterUser(context.Background(), "u1", "", ""); !errors.Is(err, usecaseerrors.ErrInvalidInput) {
		t.Errorf("empty name: got %v", err)
	}
}

func TestSetFCMToken_UnknownUser(t *testing.T) {
	svc := newService(newFakeUnitRepo(), newFakeUserRepo())

	err := svc.SetFCMToken(context.Background(), "ghost", "tok")
	if !errors.Is(err, usecaseerrors.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestCreateUnit_LinksCreator(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	userRepo := newFakeUserRepo()
	userRepo.users["u1"] = &entities.User{ID: "u1", Name: "A"}
	svc := newService(unitRepo, userRepo)

	unit, err := svc.CreateUnit(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if len(unit.Members) != 1 || unit.Members[0] != "u1" {
		t.Errorf("members = %v", unit.Members)
	}
	if userRepo.users["u1"].UnitID != unit.ID {
		t.Errorf("creator not linked to unit")
	}
}

func TestCreateUnit_RejectsSecondUnit(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.users["u1"] = &entities.User{ID: "u1", Name: "A", UnitID: "UNIT0001"}
	svc := newService(newFakeUnitRepo(), userRepo)

	if _, err := svc.CreateUnit(context.Background(), "u1"); !errors.Is(err, usecaseerrors.ErrAlreadyInUnit) {
		t.Errorf("got %v, want ErrAlreadyInUnit", err)
	}
}

func TestJoinUnit_SecondMember(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	unitRepo.units["CODE1234"] = &entities.Unit{ID: "CODE1234", CreatorID: "u1", Members: []string{"u1"}}
	userRepo := newFakeUserRepo()
	userRepo.users["u2"] = &entities.User{ID: "u2", Name: "B"}
	svc := newService(unitRepo, userRepo)

	unit, err := svc.JoinUnit(context.Background(), "CODE1234", "u2")
	if err != nil {
		t.Fatalf("JoinUnit: %v", err)
	}
	if len(unit.Members) != 2 {
		t.Errorf("members = %v", unit.Members)
	}
	if userRepo.users["u2"].UnitID != "CODE1234" {
		t.Errorf("joiner not linked to unit")
	}
}

func TestJoinUnit_AlreadyMemberIsIdempotent(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	unitRepo.units["CODE1234"] = &entities.Unit{ID: "CODE1234", CreatorID: "u1", Members: []string{"u1", "u2"}}
	svc := newService(unitRepo, newFakeUserRepo())

	unit, err := svc.JoinUnit(context.Background(), "CODE1234", "u2")
	if err != nil {
		t.Fatalf("JoinUnit replay: %v", err)
	}
	if len(unit.Members) != 2 {
		t.Errorf("members grew on replay: %v", unit.Members)
	}
}

func TestJoinUnit_FullUnit(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	unitRepo.units["CODE1234"] = &entities.Unit{ID: "CODE1234", CreatorID: "u1", Members: []string{"u1", "u2"}}
	userRepo := newFakeUserRepo()
	userRepo.users["u3"] = &entities.User{ID: "u3", Name: "C"}
	svc := newService(unitRepo, userRepo)

	if _, err := svc.JoinUnit(context.Background(), "CODE1234", "u3"); !errors.Is(err, usecaseerrors.ErrUnitFull) {
		t.Errorf("got %v, want ErrUnitFull", err)
	}
}

func TestJoinUnit_MemberOfOtherUnit(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	unitRepo.units["CODE1234"] = &entities.Unit{ID: "CODE1234", CreatorID: "u1", Members: []string{"u1"}}
	userRepo := newFakeUserRepo()
	userRepo.users["u2"] = &entities.User{ID: "u2", Name: "B", UnitID: "OTHER999"}
	svc := newService(unitRepo, userRepo)

	if _, err := svc.JoinUnit(context.Background(), "CODE1234", "u2"); !errors.Is(err, usecaseerrors.ErrAlreadyInUnit) {
		t.Errorf("got %v, want ErrAlreadyInUnit", err)
	}
}
