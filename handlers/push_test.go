package handlers

import (
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubscriptionUpsertKeepsIDOutOfSet(t *testing.T) {
	userID := primitive.NewObjectID()
	sub := webpush.Subscription{
		Endpoint: "https://push.example/ep",
		Keys:     webpush.Keys{P256dh: "p", Auth: "a"},
	}

	update := subscriptionUpsert(userID, sub)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatal("update has no $set document")
	}
	// A $set on _id fails the whole write when the document already exists,
	// which would break every re-subscribe after the first
	if _, present := set["_id"]; present {
		t.Error("$set must not touch _id")
	}
	if set["userId"] != userID {
		t.Errorf("$set userId = %v, want %v", set["userId"], userID)
	}
	if got, ok := set["sub"].(webpush.Subscription); !ok || got.Endpoint != sub.Endpoint {
		t.Errorf("$set sub = %v, want %v", set["sub"], sub)
	}

	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		t.Fatal("update has no $setOnInsert document")
	}
	id, ok := onInsert["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		t.Error("$setOnInsert must carry a fresh _id")
	}
}
