package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

const mediaColumns = `id, title, description, type, url, duration, duration_seconds,
	thumbnail, featured, category, added_date`

func scanMedia(row scanner) (*model.Media, error) {
	m := &model.Media{}
	if err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.Type, &m.URL, &m.Duration, &m.DurationSeconds,
		&m.Thumbnail, &m.Featured, &m.Category, &m.AddedDate,
	); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) queryMedia(ctx context.Context, query string, args ...any) ([]model.Media, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("メディア一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	items := []model.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("メディアのスキャンに失敗しました: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// GetAllMedia は全メディアを新しい順で返す。
func (s *Store) GetAllMedia(ctx context.Context) ([]model.Media, error) {
	items, err := s.queryMedia(ctx,
		`SELECT `+mediaColumns+` FROM media ORDER BY added_date DESC, id DESC`)
	if err != nil {
		storage.Degrade(s.logger, "list", "media", err)
		return []model.Media{}, nil
	}
	return items, nil
}

// GetMediaByType は指定typeのメディアを新しい順で返す。
func (s *Store) GetMediaByType(ctx context.Context, mediaType model.MediaType) ([]model.Media, error) {
	items, err := s.queryMedia(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE type = $1 ORDER BY added_date DESC, id DESC`,
		mediaType)
	if err != nil {
		storage.Degrade(s.logger, "list_by_type", "media", err)
		return []model.Media{}, nil
	}
	return items, nil
}

// GetMediaByID は指定IDのメディアを取得する。
func (s *Store) GetMediaByID(ctx context.Context, id int64) (*model.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", "media", id, err)
	}
	return m, nil
}

// GetFeaturedMedia は指定typeの注目メディアを返す。注目がなければ同typeの最新で代替する。
func (s *Store) GetFeaturedMedia(ctx context.Context, mediaType model.MediaType) (*model.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media
		 WHERE type = $1
		 ORDER BY featured DESC, added_date DESC, id DESC
		 LIMIT 1`, mediaType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get_featured", "media", 0, err)
	}
	return m, nil
}

// CreateMedia はメディアを作成する。featured=trueの場合は同じtypeの他メディアの注目を解除する。
func (s *Store) CreateMedia(ctx context.Context, in model.NewMedia) (*model.Media, error) {
	insert := func(ctx context.Context, db queryer) (*model.Media, error) {
		return scanMedia(db.QueryRowContext(ctx,
			`INSERT INTO media (title, description, type, url, duration, duration_seconds,
			                    thumbnail, featured, category)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING `+mediaColumns,
			in.Title, in.Description, in.Type, in.URL, in.Duration, in.DurationSeconds,
			in.Thumbnail, in.Featured, in.Category))
	}

	if !in.Featured {
		m, err := insert(ctx, s.db)
		if err != nil {
			return nil, s.fail("create", "media", 0, err)
		}
		return m, nil
	}

	var created *model.Media
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lock(ctx, tx, lockMediaFeatured); err != nil {
			return err
		}
		if err := unfeatureMedia(ctx, tx, in.Type, 0); err != nil {
			return err
		}
		m, err := insert(ctx, tx)
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, s.fail("create", "media", 0, err)
	}
	return created, nil
}

// UpdateMedia はメディアを部分更新する。
// featuredまたはtypeを変更する場合は、注目の付け替えと更新を1つのトランザクションで行う。
func (s *Store) UpdateMedia(ctx context.Context, id int64, patch model.MediaPatch) (*model.Media, error) {
	var updated *model.Media
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// ロック順序をadvisory lock→行ロックに揃える
		if patch.Featured != nil || patch.Type != nil {
			if err := lock(ctx, tx, lockMediaFeatured); err != nil {
				return err
			}
		}

		existing, err := scanMedia(tx.QueryRowContext(ctx,
			`SELECT `+mediaColumns+` FROM media WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return errNotFound
		}
		if err != nil {
			return err
		}

		if scope, ok := patch.FeaturedScope(*existing); ok {
			if err := unfeatureMedia(ctx, tx, scope, id); err != nil {
				return err
			}
		}

		merged := patch.Apply(*existing)
		updated, err = scanMedia(tx.QueryRowContext(ctx,
			`UPDATE media SET
			    title = $2, description = $3, type = $4, url = $5, duration = $6,
			    duration_seconds = $7, thumbnail = $8, featured = $9, category = $10
			 WHERE id = $1
			 RETURNING `+mediaColumns,
			id, merged.Title, merged.Description, merged.Type, merged.URL, merged.Duration,
			merged.DurationSeconds, merged.Thumbnail, merged.Featured, merged.Category))
		return err
	})

	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("update", "media", id, err)
	}
	return updated, nil
}

// DeleteMedia はメディアを削除する。
func (s *Store) DeleteMedia(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, "media", "media", id)
}

// unfeatureMedia は指定typeでexcept以外のメディアの注目を解除する。呼び出し元でロックを取得しておくこと。
func unfeatureMedia(ctx context.Context, tx *sql.Tx, mediaType model.MediaType, except int64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE media SET featured = FALSE WHERE featured AND type = $1 AND id <> $2`,
		mediaType, except,
	); err != nil {
		return fmt.Errorf("メディアの注目解除に失敗しました: %w", err)
	}
	return nil
}
