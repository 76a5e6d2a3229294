package auth

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	collection *mongo.Collection
}

type dbAccount struct {
	ID           ID `bson:"_id"`
	Username     string
	Email        string
	PasswordHash string `bson:"password"`
	CreatedAt    time.Time
}

func NewMongoAccountRepository(c *mongo.Collection) Repository {
	return &mongoAccountRepository{collection: c}
}

// EnsureAccountIndexes creates the unique email index that backs the
// service's duplicate check against concurrent registrations.
func EnsureAccountIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return m.findAccountBy(ctx, "email", email)
}

func (m *mongoAccountRepository) findAccountBy(ctx context.Context, key string, val string) (*Account, error) {
	var a dbAccount
	err := m.collection.FindOne(ctx, bson.M{key: val}).Decode(&a)

	if err == mongo.ErrNoDocuments {
		return nil, ErrAccountNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("finding account by %s: %w", key, err)
	}

	acc := accountFromDB(a)
	return &acc, nil
}

func (m *mongoAccountRepository) Store(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	_, err := m.collection.InsertOne(ctx, &dba)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailInUse
	}
	return err
}

func dbAccountFromAccount(a *Account) dbAccount {
	return dbAccount{a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt}
}

func accountFromDB(a dbAccount) Account {
	return Account{a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt}
}
