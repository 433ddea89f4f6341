package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

const activityCollection = "activity"

// ActivityRepository appends audit entries to the activity collection.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type mongoActivity struct {
	Actor    string `bson:"actor"`
	Verb     string `bson:"verb"`
	Resource string `bson:"resource"`
	At       int64  `bson:"at"`
}

func (r *ActivityRepository) Record(ctx context.Context, entry ports.ActivityEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	actor := entry.Actor
	if actor == "" {
		actor = "anonymous"
	}
	_, err := r.coll.InsertOne(ctx, mongoActivity{
		Actor:    actor,
		Verb:     entry.Verb,
		Resource: entry.Resource,
		At:       entry.At.Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
