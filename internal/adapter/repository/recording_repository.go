package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/infrastructure/database"
)

// RecordingRepository handles recording data operations. All status
// transitions are expressed as conditional updates whose filter includes
// the expected prior status, so concurrent consumers cannot both win.
type RecordingRepository struct {
	coll *mongo.Collection
}

// NewRecordingRepository creates a new recording repository
func NewRecordingRepository(db *database.MongoDB) *RecordingRepository {
	return &RecordingRepository{coll: db.Collection(database.CollectionRecordings)}
}

// Create inserts a new recording
func (r *RecordingRepository) Create(ctx context.Context, rec *entities.Recording) error {
	if rec == nil {
		return errors.New("recording cannot be nil")
	}
	_, err := r.coll.InsertOne(ctx, rec)
	return err
}

// FindByID retrieves a recording by id
func (r *RecordingRepository) FindByID(ctx context.Context, id string) (*entities.Recording, error) {
	var rec entities.Recording
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// FindByUnitAndStatus retrieves a unit's recordings in the given status,
// in creation order (the report's discovery order).
func (r *RecordingRepository) FindByUnitAndStatus(ctx context.Context, unitID string, status entities.RecordingStatus) ([]*entities.Recording, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"unitId": unitID, "status": status},
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []*entities.Recording
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	sortRecordingsByCreation(recs)
	return recs, nil
}

// DistinctUnitIDsByStatus lists units that own at least one recording in
// the given status. This is the daily run's discovery query.
func (r *RecordingRepository) DistinctUnitIDsByStatus(ctx context.Context, status entities.RecordingStatus) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "unitId", bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// MarkUploaded transitions uploading -> uploaded and records the blob path
func (r *RecordingRepository) MarkUploaded(ctx context.Context, id, storagePath string) (bool, error) {
	now := time.Now()
	return r.transition(ctx, id, entities.RecordingStatusUploading, entities.RecordingStatusUploaded, bson.M{
		"storagePath": storagePath,
		"uploadedAt":  now,
	})
}

// MarkTranscribed transitions uploaded -> transcribed and stores the transcript
func (r *RecordingRepository) MarkTranscribed(ctx context.Context, id, transcript string) (bool, error) {
	return r.transition(ctx, id, entities.RecordingStatusUploaded, entities.RecordingStatusTranscribed, bson.M{
		"transcript": transcript,
	})
}

// MarkReported transitions transcribed -> reported
func (r *RecordingRepository) MarkReported(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, entities.RecordingStatusTranscribed, entities.RecordingStatusReported, nil)
}

// transition performs a compare-and-set status update. Returns false
// when no document matched, meaning the recording was not in the
// expected prior state (typically a concurrent run got there first).
func (r *RecordingRepository) transition(ctx context.Context, id string, from, to entities.RecordingStatus, extra bson.M) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, errors.New("illegal recording status transition: " + string(from) + " -> " + string(to))
	}
	set := bson.M{"status": to}
	for k, v := range extra {
		set[k] = v
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func sortRecordingsByCreation(recs []*entities.Recording) {
	for i := 1; i < len(recs); i++ {
		for j := i; j > 0 && recs[j].CreatedAt.Before(recs[j-1].CreatedAt); j-- {
			recs[j], recs[j-1] = recs[j-1], recs[j]
		}
	}
}
