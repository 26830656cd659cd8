package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
)

// Sender delivers one push notification to one device token
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// DeliveryResult records the outcome of one recipient's delivery attempt
type DeliveryResult struct {
	UserID  string
	Sent    bool
	Skipped bool
	Err     error
}

// Dispatcher fans a notification out to a set of recipients. A recipient
// without a push token is skipped, a failed delivery is recorded, and
// neither aborts the remaining recipients.
type Dispatcher struct {
	userRepo    repositories.UserRepository
	sender      Sender
	logger      *zap.Logger
	maxInFlight int
}

// NewDispatcher constructs a notification dispatcher
func NewDispatcher(userRepo repositories.UserRepository, sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		userRepo:    userRepo,
		sender:      sender,
		logger:      logger,
		maxInFlight: 4,
	}
}

// NotifyUsers sends the same notification to each user, bounded-parallel.
// The result slice is index-aligned with userIDs.
func (d *Dispatcher) NotifyUsers(ctx context.Context, userIDs []string, title, body string, data map[string]string) []DeliveryResult {
	results := make([]DeliveryResult, len(userIDs))
	if len(userIDs) == 0 {
		return results
	}

	users, err := d.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		d.logger.Error("failed to load notification recipients", zap.Error(err))
		for i, id := range userIDs {
			results[i] = DeliveryResult{UserID: id, Err: err}
		}
		return results
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxInFlight)

	for i, id := range userIDs {
		i, id := i, id
		user := users[id]

		if user == nil || user.FCMToken == "" {
			d.logger.Warn("skipping recipient without push token", zap.String("user_id", id))
			mu.Lock()
			results[i] = DeliveryResult{UserID: id, Skipped: true}
			mu.Unlock()
			continue
		}

		token := user.FCMToken
		g.Go(func() error {
			err := d.sender.Send(gctx, token, title, body, data)
			mu.Lock()
			results[i] = DeliveryResult{UserID: id, Sent: err == nil, Err: err}
			mu.Unlock()
			if err != nil {
				d.logger.Error("push delivery failed",
					zap.String("user_id", id),
					zap.Error(err),
				)
			}
			// Delivery failures are captured per recipient, never
			// propagated, so the group always drains.
			return nil
		})
	}

	g.Wait()
	return results
}

// NotifyUnit sends the notification to every member of the unit
func (d *Dispatcher) NotifyUnit(ctx context.Context, unit *entities.Unit, title, body string, data map[string]string) []DeliveryResult {
	if unit == nil {
		return nil
	}
	return d.NotifyUsers(ctx, unit.Members, title, body, data)
}

// NotifyOtherMembers sends the notification to every member of the unit
// except the acting user.
func (d *Dispatcher) NotifyOtherMembers(ctx context.Context, unit *entities.Unit, actorID, title, body string, data map[string]string) []DeliveryResult {
	if unit == nil {
		return nil
	}
	return d.NotifyUsers(ctx, unit.OtherMembers(actorID), title, body, data)
}
