package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// GetAllQuotes は全名言を新しい順で返す。取得に失敗した場合は空の一覧を返す。
func (s *Store) GetAllQuotes(ctx context.Context) ([]model.Quote, error) {
	docs, err := findAll[quoteDoc](ctx, s, collQuotes, bson.M{})
	if err != nil {
		storage.Degrade(s.logger, "list", "quote", err)
		return []model.Quote{}, nil
	}
	quotes := make([]model.Quote, len(docs))
	for i, d := range docs {
		quotes[i] = d.model()
	}
	return quotes, nil
}

// GetQuoteByID は指定IDの名言を取得する。
func (s *Store) GetQuoteByID(ctx context.Context, id int64) (*model.Quote, error) {
	var doc quoteDoc
	found, err := s.findOne(ctx, collQuotes, bson.M{"_id": id}, &doc)
	if err != nil {
		return nil, s.fail("get", "quote", id, err)
	}
	if !found {
		return nil, nil
	}
	q := doc.model()
	return &q, nil
}

// GetFeaturedQuote は注目の名言を返す。注目がなければ最も新しい名言で代替する。
func (s *Store) GetFeaturedQuote(ctx context.Context) (*model.Quote, error) {
	var doc quoteDoc
	sort := bson.D{{Key: "featured", Value: -1}, {Key: "addedDate", Value: -1}, {Key: "_id", Value: -1}}
	found, err := s.findOne(ctx, collQuotes, bson.M{}, &doc, options.FindOne().SetSort(sort))
	if err != nil {
		return nil, s.fail("get_featured", "quote", 0, err)
	}
	if !found {
		return nil, nil
	}
	q := doc.model()
	return &q, nil
}

// CreateQuote は名言を作成する。featured=trueの場合は先に他の名言の注目を解除する。
func (s *Store) CreateQuote(ctx context.Context, in model.NewQuote) (*model.Quote, error) {
	if in.Featured {
		if err := s.unfeatureQuotes(ctx, 0); err != nil {
			return nil, s.fail("create", "quote", 0, err)
		}
	}

	id, err := s.nextID(ctx, collQuotes)
	if err != nil {
		return nil, s.fail("create", "quote", 0, err)
	}
	doc := quoteDoc{ID: id, Text: in.Text, Author: in.Author, Featured: in.Featured, AddedDate: s.now()}
	if _, err := s.db.Collection(collQuotes).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("create", "quote", 0, err)
	}
	q := doc.model()
	return &q, nil
}

// UpdateQuote は名言を部分更新する。
func (s *Store) UpdateQuote(ctx context.Context, id int64, patch model.QuotePatch) (*model.Quote, error) {
	if patch.SetsFeatured() {
		// 存在しないIDで他の名言の注目を解除しないよう、先に存在を確認する
		existing, err := s.GetQuoteByID(ctx, id)
		if err != nil || existing == nil {
			return nil, err
		}
		if err := s.unfeatureQuotes(ctx, id); err != nil {
			return nil, s.fail("update", "quote", id, err)
		}
	}

	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}

	var doc quoteDoc
	found, err := s.updateByID(ctx, collQuotes, id, set, &doc)
	if err != nil {
		return nil, s.fail("update", "quote", id, err)
	}
	if !found {
		return nil, nil
	}
	q := doc.model()
	return &q, nil
}

// DeleteQuote は名言を削除する。
func (s *Store) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, collQuotes, "quote", id)
}

func (s *Store) unfeatureQuotes(ctx context.Context, except int64) error {
	_, err := s.db.Collection(collQuotes).UpdateMany(ctx,
		bson.M{"featured": true, "_id": bson.M{"$ne": except}},
		bson.M{"$set": bson.M{"featured": false}},
	)
	if err != nil {
		return fmt.Errorf("名言の注目解除に失敗しました: %w", err)
	}
	return nil
}
