package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "loftcal/internal/domain/availability"
)

const propertiesCollection = "lofts"

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection(propertiesCollection)}
}

func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	query := bson.M{}
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": idStrings(filter.IDs)}
	}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.ZoneID != "" {
		query["zone_id"] = filter.ZoneID
	}
	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []propertyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PropertyRepository) ByID(ctx context.Context, id domain.PropertyID) (domain.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Property{}, domain.ErrPropertyNotFound
		}
		return domain.Property{}, err
	}
	return doc.toDomain(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p domain.Property) error {
	doc := newPropertyDocument(p)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type propertyDocument struct {
	ID               string `bson:"_id"`
	Name             string `bson:"name"`
	NightlyRateCents int64  `bson:"nightly_rate_cents"`
	OwnerID          string `bson:"owner_id,omitempty"`
	ZoneID           string `bson:"zone_id,omitempty"`
}

func newPropertyDocument(p domain.Property) propertyDocument {
	return propertyDocument{
		ID:               string(p.ID),
		Name:             p.Name,
		NightlyRateCents: p.NightlyRateCents,
		OwnerID:          p.OwnerID,
		ZoneID:           p.ZoneID,
	}
}

func (d propertyDocument) toDomain() domain.Property {
	return domain.Property{
		ID:               domain.PropertyID(d.ID),
		Name:             d.Name,
		NightlyRateCents: d.NightlyRateCents,
		OwnerID:          d.OwnerID,
		ZoneID:           d.ZoneID,
	}
}

func idStrings(ids []domain.PropertyID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

var _ domain.PropertyRepository = (*PropertyRepository)(nil)
