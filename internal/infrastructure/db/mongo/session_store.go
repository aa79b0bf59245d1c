package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/licensehub/console-gateway/internal/client"
	"github.com/licensehub/console-gateway/internal/core/domain"
)

const sessionCollection = "console_sessions"

// SessionStore keeps one session document per console profile.
type SessionStore struct {
	coll    *mongo.Collection
	profile string
}

var _ client.SessionStore = (*SessionStore)(nil)

func NewSessionStore(db *mongo.Database, profile string) *SessionStore {
	return &SessionStore{coll: db.Collection(sessionCollection), profile: profile}
}

type mongoUser struct {
	ID        string `bson:"user_id,omitempty"`
	Name      string `bson:"name,omitempty"`
	Email     string `bson:"email,omitempty"`
	Role      string `bson:"role"`
	PartnerID string `bson:"partner_id,omitempty"`
}

type mongoSession struct {
	Profile   string    `bson:"_id"`
	Token     string    `bson:"token"`
	User      mongoUser `bson:"user"`
	UpdatedAt int64     `bson:"updated_at"`
}

func toDocument(profile string, s client.Session) mongoSession {
	return mongoSession{
		Profile: profile,
		Token:   s.Token,
		User: mongoUser{
			ID:        s.User.ID,
			Name:      s.User.Name,
			Email:     s.User.Email,
			Role:      s.User.Role,
			PartnerID: s.User.PartnerID,
		},
		UpdatedAt: time.Now().Unix(),
	}
}

func fromDocument(doc mongoSession) *client.Session {
	return &client.Session{
		Token: doc.Token,
		User: domain.User{
			ID:        doc.User.ID,
			Name:      doc.User.Name,
			Email:     doc.User.Email,
			Role:      doc.User.Role,
			PartnerID: doc.User.PartnerID,
		},
	}
}

func (s *SessionStore) Get(ctx context.Context) (*client.Session, error) {
	var doc mongoSession
	err := s.coll.FindOne(ctx, bson.M{"_id": s.profile}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, client.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return fromDocument(doc), nil
}

func (s *SessionStore) Set(ctx context.Context, sess client.Session) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": s.profile},
		toDocument(s.profile, sess),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.profile}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
