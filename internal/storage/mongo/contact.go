package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// CreateContactMessage はお問い合わせを保存する。
func (s *Store) CreateContactMessage(ctx context.Context, in model.NewContactMessage) (*model.ContactMessage, error) {
	id, err := s.nextID(ctx, collMessages)
	if err != nil {
		return nil, s.fail("create", "contact_message", 0, err)
	}
	doc := contactDoc{ID: id, Name: in.Name, Email: in.Email, Message: in.Message, AddedDate: s.now()}
	if _, err := s.db.Collection(collMessages).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("create", "contact_message", 0, err)
	}
	m := doc.model()
	return &m, nil
}

// GetAllContactMessages は全お問い合わせを新しい順で返す。
func (s *Store) GetAllContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	docs, err := findAll[contactDoc](ctx, s, collMessages, bson.M{})
	if err != nil {
		storage.Degrade(s.logger, "list", "contact_message", err)
		return []model.ContactMessage{}, nil
	}
	msgs := make([]model.ContactMessage, len(docs))
	for i, d := range docs {
		msgs[i] = d.model()
	}
	return msgs, nil
}

// AddSubscriber は購読者を登録する。既存emailなら既存レコードを返す。
func (s *Store) AddSubscriber(ctx context.Context, in model.NewSubscriber) (*model.Subscriber, error) {
	if sub, err := s.subscriberByEmail(ctx, in.Email); err != nil || sub != nil {
		return sub, err
	}

	id, err := s.nextID(ctx, collSubscribers)
	if err != nil {
		return nil, s.fail("create", "subscriber", 0, err)
	}
	doc := subscriberDoc{ID: id, Email: in.Email, SubscriptionDate: s.now()}
	_, err = s.db.Collection(collSubscribers).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		// 同時登録で先を越された
		return s.subscriberByEmail(ctx, in.Email)
	}
	if err != nil {
		return nil, s.fail("create", "subscriber", 0, err)
	}
	sub := doc.model()
	return &sub, nil
}

func (s *Store) subscriberByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	var doc subscriberDoc
	found, err := s.findOne(ctx, collSubscribers, bson.M{"email": email}, &doc)
	if err != nil {
		return nil, s.fail("get_by_email", "subscriber", 0, err)
	}
	if !found {
		return nil, nil
	}
	sub := doc.model()
	return &sub, nil
}

// GetAllSubscribers は全購読者を購読日時の新しい順で返す。
func (s *Store) GetAllSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	sort := bson.D{{Key: "subscriptionDate", Value: -1}, {Key: "_id", Value: -1}}
	cur, err := s.db.Collection(collSubscribers).Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		storage.Degrade(s.logger, "list", "subscriber", err)
		return []model.Subscriber{}, nil
	}
	var docs []subscriberDoc
	if err := cur.All(ctx, &docs); err != nil {
		storage.Degrade(s.logger, "list", "subscriber", err)
		return []model.Subscriber{}, nil
	}
	subs := make([]model.Subscriber, len(docs))
	for i, d := range docs {
		subs[i] = d.model()
	}
	return subs, nil
}
