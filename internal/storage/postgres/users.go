package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hitoshi/soulelevate/internal/model"
)

const userColumns = `id, username, password`

func scanUser(row scanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Password); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser は指定IDのユーザーを取得する。
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", "user", id, err)
	}
	return u, nil
}

// GetUserByUsername はユーザー名でユーザーを検索する。
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get_by_username", "user", 0, err)
	}
	return u, nil
}

// CreateUser はユーザーを作成する。
func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING `+userColumns,
		in.Username, in.Password))
	if err != nil {
		return nil, s.fail("create", "user", 0, err)
	}
	return u, nil
}
