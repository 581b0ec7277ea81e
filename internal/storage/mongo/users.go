package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hitoshi/soulelevate/internal/model"
)

// GetUser は指定IDのユーザーを取得する。
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var doc userDoc
	found, err := s.findOne(ctx, collUsers, bson.M{"_id": id}, &doc)
	if err != nil {
		return nil, s.fail("get", "user", id, err)
	}
	if !found {
		return nil, nil
	}
	return doc.model(), nil
}

// GetUserByUsername はユーザー名でユーザーを検索する。
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var doc userDoc
	found, err := s.findOne(ctx, collUsers, bson.M{"username": username}, &doc)
	if err != nil {
		return nil, s.fail("get_by_username", "user", 0, err)
	}
	if !found {
		return nil, nil
	}
	return doc.model(), nil
}

// CreateUser はユーザーを作成する。ユーザー名の重複はusernameのユニークインデックスで検出する。
func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	id, err := s.nextID(ctx, collUsers)
	if err != nil {
		return nil, s.fail("create", "user", 0, err)
	}
	doc := userDoc{ID: id, Username: in.Username, Password: in.Password}
	if _, err := s.db.Collection(collUsers).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("create", "user", 0, err)
	}
	return doc.model(), nil
}
