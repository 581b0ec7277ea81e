package memory

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// GetAllChallenges は全チャレンジを新しい順で返す。
func (s *Store) GetAllChallenges(ctx context.Context) ([]model.Challenge, error) {
	return s.filterChallenges(func(model.Challenge) bool { return true }), nil
}

// GetChallengesByCategory は指定カテゴリのチャレンジを新しい順で返す。
func (s *Store) GetChallengesByCategory(ctx context.Context, category model.Category) ([]model.Challenge, error) {
	return s.filterChallenges(func(c model.Challenge) bool { return c.Category == category }), nil
}

func (s *Store) filterChallenges(keep func(model.Challenge) bool) []model.Challenge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		if keep(c) {
			out = append(out, copyChallenge(c))
		}
	}
	storage.SortChallenges(out)
	return out
}

// GetChallengeByID は指定IDのチャレンジを取得する。
func (s *Store) GetChallengeByID(ctx context.Context, id int64) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.challenges[id]
	if !ok {
		return nil, nil
	}
	c = copyChallenge(c)
	return &c, nil
}

// CreateChallenge はチャレンジを作成する。
func (s *Store) CreateChallenge(ctx context.Context, in model.NewChallenge) (*model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next.challenge++
	c := model.Challenge{
		ID:          s.next.challenge,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Duration:    in.Duration,
		Steps:       model.NormalizeSteps(in.Steps),
		AddedDate:   s.now(),
	}
	s.challenges[c.ID] = c
	c = copyChallenge(c)
	return &c, nil
}

// UpdateChallenge はチャレンジを部分更新する。
func (s *Store) UpdateChallenge(ctx context.Context, id int64, patch model.ChallengePatch) (*model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.challenges[id]
	if !ok {
		return nil, nil
	}
	updated := patch.Apply(existing)
	s.challenges[id] = updated
	updated = copyChallenge(updated)
	return &updated, nil
}

// DeleteChallenge はチャレンジを削除する。
func (s *Store) DeleteChallenge(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[id]; !ok {
		return false, nil
	}
	delete(s.challenges, id)
	return true, nil
}

// GeneratePersonalizedChallenge はパーソナライズドチャレンジを生成して保存する。
func (s *Store) GeneratePersonalizedChallenge(ctx context.Context, in model.ChallengeInput) (*model.Challenge, error) {
	return storage.GeneratePersonalizedChallenge(ctx, s, in)
}

// copyChallenge はstepsを複製し、保存済みの状態を呼び出し元から切り離す。
func copyChallenge(c model.Challenge) model.Challenge {
	c.Steps = model.NormalizeSteps(c.Steps)
	return c
}
