package kvstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSlot kv_slots 集合里的一个文档（_id = 槽位名）
type MongoSlot struct {
	coll *mongo.Collection
	name string
}

type mongoSlotDoc struct {
	Name      string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewMongoSlot(db *mongo.Database, name string) *MongoSlot {
	return &MongoSlot{coll: db.Collection("kv_slots"), name: name}
}

func (s *MongoSlot) Load(ctx context.Context) ([]byte, bool, error) {
	var doc mongoSlotDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Value, true, nil
}

func (s *MongoSlot) Save(ctx context.Context, data []byte) error {
	doc := mongoSlotDoc{Name: s.name, Value: data, UpdatedAt: time.Now()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.name}, doc,
		options.Replace().SetUpsert(true))
	return err
}

func (s *MongoSlot) Clear(ctx context.Context) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.name})
	return err
}
