package memory

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// GetAllMedia は全メディアを新しい順で返す。
func (s *Store) GetAllMedia(ctx context.Context) ([]model.Media, error) {
	return s.filterMedia(func(model.Media) bool { return true }), nil
}

// GetMediaByType は指定typeのメディアを新しい順で返す。
func (s *Store) GetMediaByType(ctx context.Context, mediaType model.MediaType) ([]model.Media, error) {
	return s.filterMedia(func(m model.Media) bool { return m.Type == mediaType }), nil
}

func (s *Store) filterMedia(keep func(model.Media) bool) []model.Media {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Media, 0, len(s.media))
	for _, m := range s.media {
		if keep(m) {
			out = append(out, m)
		}
	}
	storage.SortMedia(out)
	return out
}

// GetMediaByID は指定IDのメディアを取得する。
func (s *Store) GetMediaByID(ctx context.Context, id int64) (*model.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.media[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetFeaturedMedia は指定typeの注目メディアを返す。注目がなければ同typeの最新で代替する。
func (s *Store) GetFeaturedMedia(ctx context.Context, mediaType model.MediaType) (*model.Media, error) {
	items, _ := s.GetMediaByType(ctx, mediaType)
	if len(items) == 0 {
		return nil, nil
	}
	for _, m := range items {
		if m.Featured {
			return &m, nil
		}
	}
	return &items[0], nil
}

// CreateMedia はメディアを作成する。
func (s *Store) CreateMedia(ctx context.Context, in model.NewMedia) (*model.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Featured {
		s.unfeatureMedia(in.Type, 0)
	}

	s.next.media++
	m := model.Media{
		ID:              s.next.media,
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
	s.media[m.ID] = m
	return &m, nil
}

// UpdateMedia はメディアを部分更新する。
func (s *Store) UpdateMedia(ctx context.Context, id int64, patch model.MediaPatch) (*model.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.media[id]
	if !ok {
		return nil, nil
	}

	if scope, ok := patch.FeaturedScope(existing); ok {
		s.unfeatureMedia(scope, id)
	}

	updated := patch.Apply(existing)
	s.media[id] = updated
	return &updated, nil
}

// DeleteMedia はメディアを削除する。
func (s *Store) DeleteMedia(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.media[id]; !ok {
		return false, nil
	}
	delete(s.media, id)
	return true, nil
}

// unfeatureMedia は指定typeでexcept以外のメディアの注目を解除する。呼び出し元で書き込みロックを保持すること。
func (s *Store) unfeatureMedia(mediaType model.MediaType, except int64) {
	for id, m := range s.media {
		if m.Featured && m.Type == mediaType && id != except {
			m.Featured = false
			s.media[id] = m
		}
	}
}
