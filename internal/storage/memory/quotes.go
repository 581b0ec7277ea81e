package memory

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// GetAllQuotes は全名言を新しい順で返す。
func (s *Store) GetAllQuotes(ctx context.Context) ([]model.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	storage.SortQuotes(out)
	return out, nil
}

// GetQuoteByID は指定IDの名言を取得する。
func (s *Store) GetQuoteByID(ctx context.Context, id int64) (*model.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

// GetFeaturedQuote は注目の名言を返す。注目がなければ最も新しい名言で代替する。
func (s *Store) GetFeaturedQuote(ctx context.Context) (*model.Quote, error) {
	all, _ := s.GetAllQuotes(ctx)
	if len(all) == 0 {
		return nil, nil
	}
	for _, q := range all {
		if q.Featured {
			return &q, nil
		}
	}
	return &all[0], nil
}

// CreateQuote は名言を作成する。
func (s *Store) CreateQuote(ctx context.Context, in model.NewQuote) (*model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Featured {
		s.unfeatureQuotes(0)
	}

	s.next.quote++
	q := model.Quote{
		ID:        s.next.quote,
		Text:      in.Text,
		Author:    in.Author,
		Featured:  in.Featured,
		AddedDate: s.now(),
	}
	s.quotes[q.ID] = q
	return &q, nil
}

// UpdateQuote は名言を部分更新する。
func (s *Store) UpdateQuote(ctx context.Context, id int64, patch model.QuotePatch) (*model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.quotes[id]
	if !ok {
		return nil, nil
	}

	if patch.SetsFeatured() {
		s.unfeatureQuotes(id)
	}

	updated := patch.Apply(existing)
	s.quotes[id] = updated
	return &updated, nil
}

// DeleteQuote は名言を削除する。
func (s *Store) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[id]; !ok {
		return false, nil
	}
	delete(s.quotes, id)
	return true, nil
}

// unfeatureQuotes はexcept以外の全名言の注目を解除する。呼び出し元で書き込みロックを保持すること。
func (s *Store) unfeatureQuotes(except int64) {
	for id, q := range s.quotes {
		if q.Featured && id != except {
			q.Featured = false
			s.quotes[id] = q
		}
	}
}
