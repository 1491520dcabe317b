// Package mongo provides a MongoDB-backed Store. Users and notes live in
// separate collections keyed by string UUIDs.
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	usersCollection = "users"
	notesCollection = "notes"
	connectTimeout  = 10 * time.Second
)

// Store wraps a mongo client and the two collections it uses.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	notes  *mongo.Collection
}

// NewStore connects to uri, verifies the connection and ensures indexes.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		notes:  db.Collection(notesCollection),
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return errors.Wrap(err, "create users email index")
	}
	_, err = s.notes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("notes_user_created"),
	})
	if err != nil {
		return errors.Wrap(err, "create notes owner index")
	}
	return nil
}

// CreateUser inserts a user document; the unique email index rejects
// duplicates.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := now()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return user, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, translate(err, "find user by email")
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, translate(err, "find user by id")
}

// CreateNote inserts a note document.
func (s *Store) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := now()
	note.CreatedAt, note.UpdatedAt = now, now

	if _, err := s.notes.InsertOne(ctx, note); err != nil {
		return models.Note{}, errors.Wrap(err, "insert note")
	}
	return note, nil
}

// ListNotes returns userID's notes, newest first.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.notes.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find notes")
	}
	notes := make([]models.Note, 0)
	if err := cur.All(ctx, &notes); err != nil {
		return nil, errors.Wrap(err, "decode notes")
	}
	return notes, nil
}

// FindNote fetches a note owned by userID.
func (s *Store) FindNote(ctx context.Context, userID, id string) (models.Note, error) {
	var n models.Note
	err := s.notes.FindOne(ctx, ownedBy(userID, id)).Decode(&n)
	return n, translate(err, "find note")
}

// UpdateNote sets the non-nil fields of patch and returns the updated note.
func (s *Store) UpdateNote(ctx context.Context, userID, id string, patch models.NotePatch) (models.Note, error) {
	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Tag != nil {
		set["tag"] = *patch.Tag
	}

	var n models.Note
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.notes.FindOneAndUpdate(ctx, ownedBy(userID, id), bson.M{"$set": set}, opts).Decode(&n)
	return n, translate(err, "update note")
}

// DeleteNote removes a note owned by userID and returns it.
func (s *Store) DeleteNote(ctx context.Context, userID, id string) (models.Note, error) {
	var n models.Note
	err := s.notes.FindOneAndDelete(ctx, ownedBy(userID, id)).Decode(&n)
	return n, translate(err, "delete note")
}

func ownedBy(userID, id string) bson.M {
	return bson.M{"_id": id, "userId": userID}
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.ErrNotFound
	default:
		return errors.Wrap(err, op)
	}
}
