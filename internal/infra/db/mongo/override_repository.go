package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/daterange"
)

const overridesCollection = "availability_overrides"

// OverrideRepository keeps one document per loft and day.
type OverrideRepository struct {
	col *mongo.Collection
}

func NewOverrideRepository(db *mongo.Database) *OverrideRepository {
	return &OverrideRepository{col: db.Collection(overridesCollection)}
}

func (r *OverrideRepository) InWindow(ctx context.Context, ids []domain.PropertyID, window daterange.DateRange) ([]domain.ManualOverride, error) {
	query := bson.M{
		"property_id": bson.M{"$in": idStrings(ids)},
		"date":        bson.M{"$gte": daterange.Key(window.Start), "$lte": daterange.Key(window.End)},
	}
	opts := options.Find().SetSort(bson.D{{Key: "property_id", Value: 1}, {Key: "date", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []overrideDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.ManualOverride, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *OverrideRepository) Save(ctx context.Context, o domain.ManualOverride) error {
	doc := overrideDocument{
		ID:          overrideID(o.PropertyID, o.Date),
		PropertyID:  string(o.PropertyID),
		Date:        o.Date,
		IsAvailable: o.IsAvailable,
		Reason:      o.Reason,
		UpdatedAt:   time.Now().UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *OverrideRepository) Delete(ctx context.Context, id domain.PropertyID, day domain.Day) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": overrideID(id, day.String())})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOverrideNotFound
	}
	return nil
}

type overrideDocument struct {
	ID          string    `bson:"_id"`
	PropertyID  string    `bson:"property_id"`
	Date        string    `bson:"date"`
	IsAvailable bool      `bson:"is_available"`
	Reason      string    `bson:"reason,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d overrideDocument) toDomain() domain.ManualOverride {
	return domain.ManualOverride{
		PropertyID:  domain.PropertyID(d.PropertyID),
		Date:        d.Date,
		IsAvailable: d.IsAvailable,
		Reason:      d.Reason,
	}
}

func overrideID(id domain.PropertyID, date string) string {
	return string(id) + "|" + date
}

var _ domain.OverrideRepository = (*OverrideRepository)(nil)
