package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

func (s *Store) listTips(ctx context.Context, op string, filter bson.M) []model.Tip {
	docs, err := findAll[tipDoc](ctx, s, collTips, filter)
	if err != nil {
		storage.Degrade(s.logger, op, "tip", err)
		return []model.Tip{}
	}
	tips := make([]model.Tip, len(docs))
	for i, d := range docs {
		tips[i] = d.model()
	}
	return tips
}

// GetAllTips は全ヒントを新しい順で返す。
func (s *Store) GetAllTips(ctx context.Context) ([]model.Tip, error) {
	return s.listTips(ctx, "list", bson.M{}), nil
}

// GetTipsByCategory は指定カテゴリのヒントを新しい順で返す。
func (s *Store) GetTipsByCategory(ctx context.Context, category model.Category) ([]model.Tip, error) {
	return s.listTips(ctx, "list_by_category", bson.M{"category": category}), nil
}

// GetTipByID は指定IDのヒントを取得する。
func (s *Store) GetTipByID(ctx context.Context, id int64) (*model.Tip, error) {
	var doc tipDoc
	found, err := s.findOne(ctx, collTips, bson.M{"_id": id}, &doc)
	if err != nil {
		return nil, s.fail("get", "tip", id, err)
	}
	if !found {
		return nil, nil
	}
	t := doc.model()
	return &t, nil
}

// CreateTip はヒントを作成する。
func (s *Store) CreateTip(ctx context.Context, in model.NewTip) (*model.Tip, error) {
	id, err := s.nextID(ctx, collTips)
	if err != nil {
		return nil, s.fail("create", "tip", 0, err)
	}
	doc := tipDoc{ID: id, Title: in.Title, Content: in.Content, Category: in.Category, AddedDate: s.now()}
	if _, err := s.db.Collection(collTips).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("create", "tip", 0, err)
	}
	t := doc.model()
	return &t, nil
}

// UpdateTip はヒントを部分更新する。
func (s *Store) UpdateTip(ctx context.Context, id int64, patch model.TipPatch) (*model.Tip, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	var doc tipDoc
	found, err := s.updateByID(ctx, collTips, id, set, &doc)
	if err != nil {
		return nil, s.fail("update", "tip", id, err)
	}
	if !found {
		return nil, nil
	}
	t := doc.model()
	return &t, nil
}

// DeleteTip はヒントを削除する。
func (s *Store) DeleteTip(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, collTips, "tip", id)
}
