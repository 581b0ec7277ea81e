package memory

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// GetAllTips は全ヒントを新しい順で返す。
func (s *Store) GetAllTips(ctx context.Context) ([]model.Tip, error) {
	return s.filterTips(func(model.Tip) bool { return true }), nil
}

// GetTipsByCategory は指定カテゴリのヒントを新しい順で返す。
func (s *Store) GetTipsByCategory(ctx context.Context, category model.Category) ([]model.Tip, error) {
	return s.filterTips(func(t model.Tip) bool { return t.Category == category }), nil
}

func (s *Store) filterTips(keep func(model.Tip) bool) []model.Tip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tip, 0, len(s.tips))
	for _, t := range s.tips {
		if keep(t) {
			out = append(out, t)
		}
	}
	storage.SortTips(out)
	return out
}

// GetTipByID は指定IDのヒントを取得する。
func (s *Store) GetTipByID(ctx context.Context, id int64) (*model.Tip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tips[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// CreateTip はヒントを作成する。
func (s *Store) CreateTip(ctx context.Context, in model.NewTip) (*model.Tip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next.tip++
	t := model.Tip{
		ID:        s.next.tip,
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		AddedDate: s.now(),
	}
	s.tips[t.ID] = t
	return &t, nil
}

// UpdateTip はヒントを部分更新する。
func (s *Store) UpdateTip(ctx context.Context, id int64, patch model.TipPatch) (*model.Tip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tips[id]
	if !ok {
		return nil, nil
	}
	updated := patch.Apply(existing)
	s.tips[id] = updated
	return &updated, nil
}

// DeleteTip はヒントを削除する。
func (s *Store) DeleteTip(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tips[id]; !ok {
		return false, nil
	}
	delete(s.tips, id)
	return true, nil
}
