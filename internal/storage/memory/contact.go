package memory

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// CreateContactMessage はお問い合わせを保存する。
func (s *Store) CreateContactMessage(ctx context.Context, in model.NewContactMessage) (*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next.message++
	m := model.ContactMessage{
		ID:        s.next.message,
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		AddedDate: s.now(),
	}
	s.messages[m.ID] = m
	return &m, nil
}

// GetAllContactMessages は全お問い合わせを新しい順で返す。
func (s *Store) GetAllContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	storage.SortContactMessages(out)
	return out, nil
}

// AddSubscriber は購読者を登録する。既存emailなら既存レコードを返す。
func (s *Store) AddSubscriber(ctx context.Context, in model.NewSubscriber) (*model.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscribers {
		if sub.Email == in.Email {
			return &sub, nil
		}
	}

	s.next.subscriber++
	sub := model.Subscriber{
		ID:               s.next.subscriber,
		Email:            in.Email,
		SubscriptionDate: s.now(),
	}
	s.subscribers[sub.ID] = sub
	return &sub, nil
}

// GetAllSubscribers は全購読者を購読日時の新しい順で返す。
func (s *Store) GetAllSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		out = append(out, sub)
	}
	storage.SortSubscribers(out)
	return out, nil
}
