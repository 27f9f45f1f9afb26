package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/daterange"
)

const reservationsCollection = "reservations"

// ReservationRepository stores the booking projection. Raw dates are kept as
// received; normalized day keys are stored next to them for range queries and
// left empty when a date does not parse.
type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(reservationsCollection)}
}

func (r *ReservationRepository) Intersecting(ctx context.Context, ids []domain.PropertyID, window daterange.DateRange) ([]domain.ReservationInterval, error) {
	query := bson.M{
		"property_id": bson.M{"$in": idStrings(ids)},
		"status":      bson.M{"$in": bson.A{string(domain.ReservationConfirmed), string(domain.ReservationPending)}},
		"$or": bson.A{
			bson.M{
				"check_in_day":  bson.M{"$ne": "", "$lte": daterange.Key(window.End)},
				"check_out_day": bson.M{"$ne": "", "$gte": daterange.Key(window.Start)},
			},
			bson.M{"check_in_day": ""},
			bson.M{"check_out_day": ""},
		},
	}
	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "check_in_day", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []reservationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.ReservationInterval, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res domain.ReservationInterval) error {
	doc := newReservationDocument(res)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type reservationDocument struct {
	ID          string `bson:"_id"`
	PropertyID  string `bson:"property_id"`
	CheckIn     string `bson:"check_in"`
	CheckOut    string `bson:"check_out"`
	CheckInDay  string `bson:"check_in_day"`
	CheckOutDay string `bson:"check_out_day"`
	Status      string `bson:"status"`
}

func newReservationDocument(r domain.ReservationInterval) reservationDocument {
	return reservationDocument{
		ID:          r.ID,
		PropertyID:  string(r.PropertyID),
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		CheckInDay:  dayKeyOrEmpty(r.CheckIn),
		CheckOutDay: dayKeyOrEmpty(r.CheckOut),
		Status:      string(r.Status),
	}
}

func (d reservationDocument) toDomain() domain.ReservationInterval {
	return domain.ReservationInterval{
		ID:         d.ID,
		PropertyID: domain.PropertyID(d.PropertyID),
		CheckIn:    d.CheckIn,
		CheckOut:   d.CheckOut,
		Status:     domain.ReservationStatus(d.Status),
	}
}

func dayKeyOrEmpty(raw string) string {
	day, err := domain.ParseDay(raw)
	if err != nil {
		return ""
	}
	return day.String()
}

var _ domain.ReservationRepository = (*ReservationRepository)(nil)
