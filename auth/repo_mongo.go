package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	collection *mongo.Collection
}

type dbAccount struct {
	ID        ID        `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewMongoAccountRepository stores accounts in c. EnsureIndexes should run once at startup.
func NewMongoAccountRepository(c *mongo.Collection) Repository {
	return &mongoAccountRepository{collection: c}
}

// EnsureIndexes creates the unique email index the repository relies on.
func EnsureIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return m.findAccountBy(ctx, "email", email)
}

func (m *mongoAccountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	return m.findAccountBy(ctx, "_id", string(id))
}

func (m *mongoAccountRepository) findAccountBy(ctx context.Context, key string, val string) (*Account, error) {
	var a dbAccount
	sr := m.collection.FindOne(ctx, bson.M{key: val})

	if errors.Is(sr.Err(), mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&a); err != nil {
		return nil, err
	}

	acc := accountFromDBAccount(a)
	return &acc, nil
}

func (m *mongoAccountRepository) Store(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	_, err := m.collection.InsertOne(ctx, &dba)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExistingEmail
	}
	return err
}

func (m *mongoAccountRepository) Delete(ctx context.Context, id ID) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func dbAccountFromAccount(a *Account) dbAccount {
	return dbAccount{a.ID, a.Credentials.Email, a.Credentials.Password, a.CreatedAt}
}

func accountFromDBAccount(a dbAccount) Account {
	return Account{ID: a.ID, Credentials: Credentials{Email: a.Email, Password: a.Password}, CreatedAt: a.CreatedAt}
}
