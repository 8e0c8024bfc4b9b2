package persist

import (
	"context"

	"voyago/availability"
	"voyago/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveAll upserts every tour from the engine into the availability
// collection, one document per tour keyed by tourId.
func SaveAll(ctx context.Context, svc *availability.Service) error {
	snap := svc.Snapshot()
	for _, tour := range snap.Tours {
		_, err := db.AvailabilityCollection.UpdateOne(ctx,
			bson.M{"tourId": tour.TourID},
			bson.M{"$set": tour},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadAll replaces the engine's tour state with whatever the availability
// collection holds. Called once at startup before the server accepts traffic.
func LoadAll(ctx context.Context, svc *availability.Service) error {
	cur, err := db.AvailabilityCollection.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var snap availability.Snapshot
	for cur.Next(ctx) {
		var tour availability.TourAvailability
		if err := cur.Decode(&tour); err != nil {
			continue
		}
		snap.Tours = append(snap.Tours, &tour)
	}
	svc.Restore(snap)
	return cur.Err()
}
