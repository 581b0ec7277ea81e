package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

const tipColumns = `id, title, content, category, added_date`

func scanTip(row scanner) (*model.Tip, error) {
	t := &model.Tip{}
	if err := row.Scan(&t.ID, &t.Title, &t.Content, &t.Category, &t.AddedDate); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) queryTips(ctx context.Context, query string, args ...any) ([]model.Tip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ヒント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	tips := []model.Tip{}
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, fmt.Errorf("ヒントのスキャンに失敗しました: %w", err)
		}
		tips = append(tips, *t)
	}
	return tips, rows.Err()
}

// GetAllTips は全ヒントを新しい順で返す。
func (s *Store) GetAllTips(ctx context.Context) ([]model.Tip, error) {
	tips, err := s.queryTips(ctx,
		`SELECT `+tipColumns+` FROM tips ORDER BY added_date DESC, id DESC`)
	if err != nil {
		storage.Degrade(s.logger, "list", "tip", err)
		return []model.Tip{}, nil
	}
	return tips, nil
}

// GetTipsByCategory は指定カテゴリのヒントを新しい順で返す。
func (s *Store) GetTipsByCategory(ctx context.Context, category model.Category) ([]model.Tip, error) {
	tips, err := s.queryTips(ctx,
		`SELECT `+tipColumns+` FROM tips WHERE category = $1 ORDER BY added_date DESC, id DESC`,
		category)
	if err != nil {
		storage.Degrade(s.logger, "list_by_category", "tip", err)
		return []model.Tip{}, nil
	}
	return tips, nil
}

// GetTipByID は指定IDのヒントを取得する。
func (s *Store) GetTipByID(ctx context.Context, id int64) (*model.Tip, error) {
	t, err := scanTip(s.db.QueryRowContext(ctx,
		`SELECT `+tipColumns+` FROM tips WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", "tip", id, err)
	}
	return t, nil
}

// CreateTip はヒントを作成する。
func (s *Store) CreateTip(ctx context.Context, in model.NewTip) (*model.Tip, error) {
	t, err := scanTip(s.db.QueryRowContext(ctx,
		`INSERT INTO tips (title, content, category) VALUES ($1, $2, $3) RETURNING `+tipColumns,
		in.Title, in.Content, in.Category))
	if err != nil {
		return nil, s.fail("create", "tip", 0, err)
	}
	return t, nil
}

// UpdateTip はヒントを部分更新する。
func (s *Store) UpdateTip(ctx context.Context, id int64, patch model.TipPatch) (*model.Tip, error) {
	t, err := scanTip(s.db.QueryRowContext(ctx,
		`UPDATE tips SET
		    title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    category = COALESCE($4, category)
		 WHERE id = $1
		 RETURNING `+tipColumns,
		id, patch.Title, patch.Content, patch.Category))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("update", "tip", id, err)
	}
	return t, nil
}

// DeleteTip はヒントを削除する。
func (s *Store) DeleteTip(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, "tips", "tip", id)
}
