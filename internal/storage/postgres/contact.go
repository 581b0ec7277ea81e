package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

const (
	contactColumns    = `id, name, email, message, added_date`
	subscriberColumns = `id, email, subscription_date`
)

func scanContactMessage(row scanner) (*model.ContactMessage, error) {
	m := &model.ContactMessage{}
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.AddedDate); err != nil {
		return nil, err
	}
	return m, nil
}

func scanSubscriber(row scanner) (*model.Subscriber, error) {
	sub := &model.Subscriber{}
	if err := row.Scan(&sub.ID, &sub.Email, &sub.SubscriptionDate); err != nil {
		return nil, err
	}
	return sub, nil
}

// CreateContactMessage はお問い合わせを保存する。
func (s *Store) CreateContactMessage(ctx context.Context, in model.NewContactMessage) (*model.ContactMessage, error) {
	m, err := scanContactMessage(s.db.QueryRowContext(ctx,
		`INSERT INTO contact_messages (name, email, message) VALUES ($1, $2, $3) RETURNING `+contactColumns,
		in.Name, in.Email, in.Message))
	if err != nil {
		return nil, s.fail("create", "contact_message", 0, err)
	}
	return m, nil
}

// GetAllContactMessages は全お問い合わせを新しい順で返す。
func (s *Store) GetAllContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	msgs, err := s.listContactMessages(ctx)
	if err != nil {
		storage.Degrade(s.logger, "list", "contact_message", err)
		return []model.ContactMessage{}, nil
	}
	return msgs, nil
}

func (s *Store) listContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages ORDER BY added_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("お問い合わせ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	msgs := []model.ContactMessage{}
	for rows.Next() {
		m, err := scanContactMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("お問い合わせのスキャンに失敗しました: %w", err)
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

// AddSubscriber は購読者を登録する。既存emailなら既存レコードを返す。
func (s *Store) AddSubscriber(ctx context.Context, in model.NewSubscriber) (*model.Subscriber, error) {
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx,
		`INSERT INTO subscribers (email) VALUES ($1)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING `+subscriberColumns,
		in.Email))
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, s.fail("create", "subscriber", 0, err)
	}

	// 登録済み
	sub, err = scanSubscriber(s.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM subscribers WHERE email = $1`, in.Email))
	if err != nil {
		return nil, s.fail("get_by_email", "subscriber", 0, err)
	}
	return sub, nil
}

// GetAllSubscribers は全購読者を購読日時の新しい順で返す。
func (s *Store) GetAllSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	subs, err := s.listSubscribers(ctx)
	if err != nil {
		storage.Degrade(s.logger, "list", "subscriber", err)
		return []model.Subscriber{}, nil
	}
	return subs, nil
}

func (s *Store) listSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subscriberColumns+` FROM subscribers ORDER BY subscription_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("購読者一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	subs := []model.Subscriber{}
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("購読者のスキャンに失敗しました: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
