package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"nutrilens/internal/database"
	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	UserName     string    `bson:"userName"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	IsGoogleUser bool      `bson:"isGoogleUser"`
	Avatar       string    `bson:"avatar,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (d userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID,
		UserName:     d.UserName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsGoogleUser: d.IsGoogleUser,
		Avatar:       d.Avatar,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// UserMongo is a MongoDB implementation of repository.UserRepository.
// Email uniqueness relies on the index created by database.Mongo.EnsureIndexes.
type UserMongo struct {
	coll *mongo.Collection
}

func NewUserMongo(db *mongo.Database) *UserMongo {
	return &UserMongo{coll: db.Collection(database.UsersCollection)}
}

var _ repository.UserRepository = (*UserMongo)(nil)

func (r *UserMongo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	doc := userDoc{
		ID:           user.ID,
		UserName:     user.UserName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsGoogleUser: user.IsGoogleUser,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *UserMongo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserMongo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserMongo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}
