package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/infrastructure/database"
)

// QuestionStatsRepository manages per-unit display counters. Counters
// live in one document per unit with a field path per slot and question
// id ("morning.q001"), so both increment and reset are single-document
// atomic updates.
type QuestionStatsRepository struct {
	coll *mongo.Collection
}

// NewQuestionStatsRepository creates a new question stats repository
func NewQuestionStatsRepository(db *database.MongoDB) *QuestionStatsRepository {
	return &QuestionStatsRepository{coll: db.Collection(database.CollectionQuestionStats)}
}

// GetCounts retrieves a unit's display counts for one slot. Questions
// never shown have no entry; callers treat absence as zero.
func (r *QuestionStatsRepository) GetCounts(ctx context.Context, unitID string, slot entities.TimeSlot) (map[string]int, error) {
	var stats entities.QuestionStats
	if err := r.coll.FindOne(ctx, bson.M{"_id": unitID}).Decode(&stats); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]int{}, nil
		}
		return nil, err
	}
	return stats.CountsFor(slot), nil
}

// IncrementCounts bumps the display count of each selected question by one
func (r *QuestionStatsRepository) IncrementCounts(ctx context.Context, unitID string, slot entities.TimeSlot, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	inc := bson.M{}
	for _, id := range questionIDs {
		inc[string(slot)+"."+id] = 1
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": unitID},
		bson.M{"$inc": inc},
		options.Update().SetUpsert(true),
	)
	return err
}

// ResetCounts starts a fresh rotation cycle: every pool id goes to zero
// and the just-selected ids to one, in a single update.
func (r *QuestionStatsRepository) ResetCounts(ctx context.Context, unitID string, slot entities.TimeSlot, poolIDs, selectedIDs []string) error {
	set := bson.M{}
	for _, id := range poolIDs {
		set[string(slot)+"."+id] = 0
	}
	for _, id := range selectedIDs {
		set[string(slot)+"."+id] = 1
	}
	if len(set) == 0 {
		return nil
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": unitID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	return err
}
