package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

func (s *Store) listChallenges(ctx context.Context, op string, filter bson.M) []model.Challenge {
	docs, err := findAll[challengeDoc](ctx, s, collChallenges, filter)
	if err != nil {
		storage.Degrade(s.logger, op, "challenge", err)
		return []model.Challenge{}
	}
	challenges := make([]model.Challenge, len(docs))
	for i, d := range docs {
		challenges[i] = d.model()
	}
	return challenges
}

// GetAllChallenges は全チャレンジを新しい順で返す。
func (s *Store) GetAllChallenges(ctx context.Context) ([]model.Challenge, error) {
	return s.listChallenges(ctx, "list", bson.M{}), nil
}

// GetChallengesByCategory は指定カテゴリのチャレンジを新しい順で返す。
func (s *Store) GetChallengesByCategory(ctx context.Context, category model.Category) ([]model.Challenge, error) {
	return s.listChallenges(ctx, "list_by_category", bson.M{"category": category}), nil
}

// GetChallengeByID は指定IDのチャレンジを取得する。
func (s *Store) GetChallengeByID(ctx context.Context, id int64) (*model.Challenge, error) {
	var doc challengeDoc
	found, err := s.findOne(ctx, collChallenges, bson.M{"_id": id}, &doc)
	if err != nil {
		return nil, s.fail("get", "challenge", id, err)
	}
	if !found {
		return nil, nil
	}
	c := doc.model()
	return &c, nil
}

// CreateChallenge はチャレンジを作成する。stepsは常に文字列の配列として保存する。
func (s *Store) CreateChallenge(ctx context.Context, in model.NewChallenge) (*model.Challenge, error) {
	id, err := s.nextID(ctx, collChallenges)
	if err != nil {
		return nil, s.fail("create", "challenge", 0, err)
	}
	doc := challengeDoc{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Duration:    in.Duration,
		Steps:       model.NormalizeSteps(in.Steps),
		AddedDate:   s.now(),
	}
	if _, err := s.db.Collection(collChallenges).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("create", "challenge", 0, err)
	}
	c := doc.model()
	return &c, nil
}

// UpdateChallenge はチャレンジを部分更新する。stepsが指定された場合は全体を置き換える。
func (s *Store) UpdateChallenge(ctx context.Context, id int64, patch model.ChallengePatch) (*model.Challenge, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Difficulty != nil {
		set["difficulty"] = *patch.Difficulty
	}
	if patch.Duration != nil {
		set["duration"] = *patch.Duration
	}
	if patch.Steps != nil {
		set["steps"] = model.NormalizeSteps(patch.Steps)
	}

	var doc challengeDoc
	found, err := s.updateByID(ctx, collChallenges, id, set, &doc)
	if err != nil {
		return nil, s.fail("update", "challenge", id, err)
	}
	if !found {
		return nil, nil
	}
	c := doc.model()
	return &c, nil
}

// DeleteChallenge はチャレンジを削除する。
func (s *Store) DeleteChallenge(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, collChallenges, "challenge", id)
}

// GeneratePersonalizedChallenge はパーソナライズドチャレンジを生成して保存する。
func (s *Store) GeneratePersonalizedChallenge(ctx context.Context, in model.ChallengeInput) (*model.Challenge, error) {
	return storage.GeneratePersonalizedChallenge(ctx, s, in)
}
