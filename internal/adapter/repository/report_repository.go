package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/infrastructure/database"
)

// ReportRepository handles report data operations
type ReportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.MongoDB) *ReportRepository {
	return &ReportRepository{coll: db.Collection(database.CollectionReports)}
}

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, report *entities.Report) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}
	_, err := r.coll.InsertOne(ctx, report)
	return err
}

// FindByUnitAndDate retrieves a unit's report for one day. A unit can
// accumulate several reports per day when triggered manually; the most
// recent one wins.
func (r *ReportRepository) FindByUnitAndDate(ctx context.Context, unitID, date string) (*entities.Report, error) {
	var report entities.Report
	err := r.coll.FindOne(ctx,
		bson.M{"unitId": unitID, "date": date},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// SetNotifiedAt stamps the delivery time after push dispatch
func (r *ReportRepository) SetNotifiedAt(ctx context.Context, reportID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": reportID},
		bson.M{"$set": bson.M{"notifiedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
