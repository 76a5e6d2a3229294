package bookshelf

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBookRepository struct {
	collection *mongo.Collection
}

func NewMongoBookRepository(c *mongo.Collection) BookRepository {
	return &mongoBookRepository{collection: c}
}

func (m *mongoBookRepository) FindByID(ctx context.Context, id BookID) (*Book, error) {
	var b Book
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&b)

	if err == mongo.ErrNoDocuments {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (m *mongoBookRepository) FindAll(ctx context.Context) ([]*Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	books := []*Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (m *mongoBookRepository) Store(ctx context.Context, b *Book) error {
	_, err := m.collection.InsertOne(ctx, b)
	return err
}

func (m *mongoBookRepository) Update(ctx context.Context, b *Book) error {
	res, err := m.collection.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (m *mongoBookRepository) Delete(ctx context.Context, id BookID) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}
