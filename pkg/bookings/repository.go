package bookings

import (
	"context"
	"errors"

	"github.com/travigo/multimodal/pkg/ctdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repository interface {
	Insert(ctx context.Context, booking *ctdf.Booking) error
	Update(ctx context.Context, booking *ctdf.Booking) error
	Get(ctx context.Context, identifier string) (*ctdf.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*ctdf.Booking, error)
	All(ctx context.Context) ([]*ctdf.Booking, error)
}

type MongoRepository struct {
	Collection *mongo.Collection
}

func (r *MongoRepository) Insert(ctx context.Context, booking *ctdf.Booking) error {
	_, err := r.Collection.InsertOne(ctx, booking)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, booking *ctdf.Booking) error {
	result, err := r.Collection.ReplaceOne(ctx, bson.M{"primaryidentifier": booking.PrimaryIdentifier}, booking)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *MongoRepository) Get(ctx context.Context, identifier string) (*ctdf.Booking, error) {
	var booking *ctdf.Booking
	err := r.Collection.FindOne(ctx, bson.M{"primaryidentifier": identifier}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}

	return booking, err
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]*ctdf.Booking, error) {
	return r.find(ctx, bson.M{"userid": userID})
}

func (r *MongoRepository) All(ctx context.Context) ([]*ctdf.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]*ctdf.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creationdatetime", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	bookings := []*ctdf.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}
