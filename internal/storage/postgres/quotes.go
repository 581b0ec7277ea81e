package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

const quoteColumns = `id, text, author, featured, added_date`

func scanQuote(row scanner) (*model.Quote, error) {
	q := &model.Quote{}
	if err := row.Scan(&q.ID, &q.Text, &q.Author, &q.Featured, &q.AddedDate); err != nil {
		return nil, err
	}
	return q, nil
}

// GetAllQuotes は全名言を新しい順で返す。取得に失敗した場合は空の一覧を返す。
func (s *Store) GetAllQuotes(ctx context.Context) ([]model.Quote, error) {
	quotes, err := s.listQuotes(ctx)
	if err != nil {
		storage.Degrade(s.logger, "list", "quote", err)
		return []model.Quote{}, nil
	}
	return quotes, nil
}

func (s *Store) listQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes ORDER BY added_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("名言一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	quotes := []model.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("名言のスキャンに失敗しました: %w", err)
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

// GetQuoteByID は指定IDの名言を取得する。
func (s *Store) GetQuoteByID(ctx context.Context, id int64) (*model.Quote, error) {
	q, err := scanQuote(s.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", "quote", id, err)
	}
	return q, nil
}

// GetFeaturedQuote は注目の名言を返す。注目がなければ最も新しい名言で代替する。
func (s *Store) GetFeaturedQuote(ctx context.Context) (*model.Quote, error) {
	q, err := scanQuote(s.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes
		 ORDER BY featured DESC, added_date DESC, id DESC
		 LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get_featured", "quote", 0, err)
	}
	return q, nil
}

// CreateQuote は名言を作成する。featured=trueの場合は同じトランザクションで他の名言の注目を解除する。
func (s *Store) CreateQuote(ctx context.Context, in model.NewQuote) (*model.Quote, error) {
	insert := func(ctx context.Context, db queryer) (*model.Quote, error) {
		return scanQuote(db.QueryRowContext(ctx,
			`INSERT INTO quotes (text, author, featured) VALUES ($1, $2, $3) RETURNING `+quoteColumns,
			in.Text, in.Author, in.Featured))
	}

	if !in.Featured {
		q, err := insert(ctx, s.db)
		if err != nil {
			return nil, s.fail("create", "quote", 0, err)
		}
		return q, nil
	}

	var created *model.Quote
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := unfeatureQuotes(ctx, tx, 0); err != nil {
			return err
		}
		q, err := insert(ctx, tx)
		if err != nil {
			return err
		}
		created = q
		return nil
	})
	if err != nil {
		return nil, s.fail("create", "quote", 0, err)
	}
	return created, nil
}

// UpdateQuote は名言を部分更新する。
func (s *Store) UpdateQuote(ctx context.Context, id int64, patch model.QuotePatch) (*model.Quote, error) {
	update := func(ctx context.Context, db queryer) (*model.Quote, error) {
		q, err := scanQuote(db.QueryRowContext(ctx,
			`UPDATE quotes SET
			    text = COALESCE($2, text),
			    author = COALESCE($3, author),
			    featured = COALESCE($4, featured)
			 WHERE id = $1
			 RETURNING `+quoteColumns,
			id, patch.Text, patch.Author, patch.Featured))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return q, err
	}

	var updated *model.Quote
	var err error
	if patch.SetsFeatured() {
		err = s.withTx(ctx, func(tx *sql.Tx) error {
			if err := unfeatureQuotes(ctx, tx, id); err != nil {
				return err
			}
			updated, err = update(ctx, tx)
			return err
		})
	} else {
		updated, err = update(ctx, s.db)
	}

	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("update", "quote", id, err)
	}
	return updated, nil
}

// DeleteQuote は名言を削除する。
func (s *Store) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, "quotes", "quote", id)
}

// unfeatureQuotes はロックを取得し、except以外の名言の注目を解除する。
func unfeatureQuotes(ctx context.Context, tx *sql.Tx, except int64) error {
	if err := lock(ctx, tx, lockQuoteFeatured); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE quotes SET featured = FALSE WHERE featured AND id <> $1`, except,
	); err != nil {
		return fmt.Errorf("名言の注目解除に失敗しました: %w", err)
	}
	return nil
}

// deleteByID は指定テーブルの行を削除し、削除できたかを返す。tableは定数のみ渡すこと。
func (s *Store) deleteByID(ctx context.Context, table, entity string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return false, s.fail("delete", entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.fail("delete", entity, id, err)
	}
	return n > 0, nil
}
