package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

func (s *Store) listMedia(ctx context.Context, op string, filter bson.M) []model.Media {
	docs, err := findAll[mediaDoc](ctx, s, collMedia, filter)
	if err != nil {
		storage.Degrade(s.logger, op, "media", err)
		return []model.Media{}
	}
	items := make([]model.Media, len(docs))
	for i, d := range docs {
		items[i] = d.model()
	}
	return items
}

// GetAllMedia は全メディアを新しい順で返す。
func (s *Store) GetAllMedia(ctx context.Context) ([]model.Media, error) {
	return s.listMedia(ctx, "list", bson.M{}), nil
}

// GetMediaByType は指定typeのメディアを新しい順で返す。
func (s *Store) GetMediaByType(ctx context.Context, mediaType model.MediaType) ([]model.Media, error) {
	return s.listMedia(ctx, "list_by_type", bson.M{"type": mediaType}), nil
}

// GetMediaByID は指定IDのメディアを取得する。
func (s *Store) GetMediaByID(ctx context.Context, id int64) (*model.Media, error) {
	var doc mediaDoc
	found, err := s.findOne(ctx, collMedia, bson.M{"_id": id}, &doc)
	if err != nil {
		return nil, s.fail("get", "media", id, err)
	}
	if !found {
		return nil, nil
	}
	m := doc.model()
	return &m, nil
}

// GetFeaturedMedia は指定typeの注目メディアを返す。注目がなければ同typeの最新で代替する。
func (s *Store) GetFeaturedMedia(ctx context.Context, mediaType model.MediaType) (*model.Media, error) {
	var doc mediaDoc
	sort := bson.D{{Key: "featured", Value: -1}, {Key: "addedDate", Value: -1}, {Key: "_id", Value: -1}}
	found, err := s.findOne(ctx, collMedia, bson.M{"type": mediaType}, &doc, options.FindOne().SetSort(sort))
	if err != nil {
		return nil, s.fail("get_featured", "media", 0, err)
	}
	if !found {
		return nil, nil
	}
	m := doc.model()
	return &m, nil
}

// CreateMedia はメディアを作成する。featured=trueの場合は先に同じtypeの他メディアの注目を解除する。
func (s *Store) CreateMedia(ctx context.Context, in model.NewMedia) (*model.Media, error) {
	if in.Featured {
		if err := s.unfeatureMedia(ctx, in.Type, 0); err != nil {
			return nil, s.fail("create", "media", 0, err)
		}
	}

	id, err := s.nextID(ctx, collMedia)
	if err != nil {
		return nil, s.fail("create", "media", 0, err)
	}
	doc := mediaDoc{
		ID:              id,
		Title:           in.Title,
		Description:     in.Description,
		Type:            in.Type,
		URL:             in.URL,
		Duration:        in.Duration,
		DurationSeconds: in.DurationSeconds,
		Thumbnail:       in.Thumbnail,
		Featured:        in.Featured,
		Category:        in.Category,
		AddedDate:       s.now(),
	}
	if _, err := s.db.Collection(collMedia).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("create", "media", 0, err)
	}
	m := doc.model()
	return &m, nil
}

// UpdateMedia はメディアを部分更新する。
func (s *Store) UpdateMedia(ctx context.Context, id int64, patch model.MediaPatch) (*model.Media, error) {
	existing, err := s.GetMediaByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	if scope, ok := patch.FeaturedScope(*existing); ok {
		if err := s.unfeatureMedia(ctx, scope, id); err != nil {
			return nil, s.fail("update", "media", id, err)
		}
	}

	var doc mediaDoc
	found, err := s.updateByID(ctx, collMedia, id, mediaSet(patch), &doc)
	if err != nil {
		return nil, s.fail("update", "media", id, err)
	}
	if !found {
		return nil, nil
	}
	m := doc.model()
	return &m, nil
}

// DeleteMedia はメディアを削除する。
func (s *Store) DeleteMedia(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, collMedia, "media", id)
}

func (s *Store) unfeatureMedia(ctx context.Context, mediaType model.MediaType, except int64) error {
	_, err := s.db.Collection(collMedia).UpdateMany(ctx,
		bson.M{"featured": true, "type": mediaType, "_id": bson.M{"$ne": except}},
		bson.M{"$set": bson.M{"featured": false}},
	)
	if err != nil {
		return fmt.Errorf("メディアの注目解除に失敗しました: %w", err)
	}
	return nil
}

// mediaSet はパッチの指定フィールドを$set用のドキュメントに変換する。
func mediaSet(p model.MediaPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.URL != nil {
		set["url"] = *p.URL
	}
	if p.Duration != nil {
		set["duration"] = *p.Duration
	}
	if p.DurationSeconds != nil {
		set["durationSeconds"] = *p.DurationSeconds
	}
	if p.Thumbnail != nil {
		set["thumbnail"] = *p.Thumbnail
	}
	if p.Featured != nil {
		set["featured"] = *p.Featured
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	return set
}
