package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BookingsCollection = "bookings"

func createIndexes() {
	createBookingsIndexes()
}

func createBookingsIndexes() {
	bookingsCollection := GetCollection(BookingsCollection)
	_, err := bookingsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "userid", Value: 1},
				{Key: "creationdatetime", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "upstreambookings.bookingid", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
