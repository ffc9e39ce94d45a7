package mongodir

// Package mongodir implements the UserDirectory port on MongoDB.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	"github.com/campuslabs/gatehouse/internal/ports"
)

const collectionName = "users"

// userDoc is the stored shape of a user record.
type userDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	ProviderID  string        `bson:"provider_id"`
	DisplayName string        `bson:"display_name"`
	Email       string        `bson:"email"`
	AvatarURL   string        `bson:"avatar_url,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"`
}

// UserDirectory is a MongoDB-backed user directory. Uniqueness per provider ID
// is enforced at the storage layer with a unique index, so concurrent first
// logins for the same identity cannot create duplicate records.
type UserDirectory struct {
	users *mongo.Collection
	now   func() time.Time
}

// NewUserDirectory creates the directory and ensures the unique provider_id index.
func NewUserDirectory(ctx context.Context, db *mongo.Database) (*UserDirectory, error) {
	users := db.Collection(collectionName)

	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create provider_id index: %w", err)
	}

	return &UserDirectory{users: users, now: time.Now}, nil
}

// FindOrCreate returns the record for the identity's provider ID, inserting it
// if absent. The insert-if-absent is a single atomic upsert ($setOnInsert), so
// the check and the insert cannot race. Existing records come back unchanged:
// profile fields captured at first login are not refreshed.
func (d *UserDirectory) FindOrCreate(ctx context.Context, id domainauth.Identity) (domainauth.User, error) {
	if id.ProviderID == "" {
		return domainauth.User{}, errors.New("provider ID is required")
	}

	onInsert := bson.D{
		{Key: "provider_id", Value: id.ProviderID},
		{Key: "display_name", Value: id.DisplayName},
		{Key: "email", Value: id.Email},
		{Key: "avatar_url", Value: id.AvatarURL},
		{Key: "created_at", Value: d.now().UTC()},
	}

	res := d.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "provider_id", Value: id.ProviderID}},
		bson.D{{Key: "$setOnInsert", Value: onInsert}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var doc userDoc
	if err := res.Decode(&doc); err != nil {
		return domainauth.User{}, fmt.Errorf("find or create user: %w", err)
	}
	return userFromDoc(doc), nil
}

// FindByRef looks up a record by its hex object ID.
// Returns ports.ErrNotFound for malformed or unknown references.
func (d *UserDirectory) FindByRef(ctx context.Context, ref string) (domainauth.User, error) {
	oid, err := bson.ObjectIDFromHex(ref)
	if err != nil {
		return domainauth.User{}, ports.ErrNotFound
	}

	var doc userDoc
	err = d.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainauth.User{}, ports.ErrNotFound
		}
		return domainauth.User{}, fmt.Errorf("find user by ref: %w", err)
	}
	return userFromDoc(doc), nil
}

func userFromDoc(doc userDoc) domainauth.User {
	return domainauth.User{
		Ref:         doc.ID.Hex(),
		ProviderID:  doc.ProviderID,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		AvatarURL:   doc.AvatarURL,
		CreatedAt:   doc.CreatedAt,
	}
}
