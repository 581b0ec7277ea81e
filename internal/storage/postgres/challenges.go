package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

const challengeColumns = `id, title, description, category, difficulty, duration, steps, added_date`

// scanChallenge はstepsをJSONBから復元する。形式が崩れていても空の一覧として扱う。
func scanChallenge(row scanner) (*model.Challenge, error) {
	c := &model.Challenge{}
	var steps []byte
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty, &c.Duration, &steps, &c.AddedDate,
	); err != nil {
		return nil, err
	}
	c.Steps = model.NormalizeSteps(json.RawMessage(steps))
	return c, nil
}

// encodeSteps はstepsをJSONBパラメータ用の文字列に変換する。
// lib/pqは[]byteをbyteaとして送るため文字列で渡す。
func encodeSteps(steps []string) (string, error) {
	b, err := json.Marshal(model.NormalizeSteps(steps))
	if err != nil {
		return "", fmt.Errorf("stepsのエンコードに失敗しました: %w", err)
	}
	return string(b), nil
}

func (s *Store) queryChallenges(ctx context.Context, query string, args ...any) ([]model.Challenge, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("チャレンジ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("チャレンジのスキャンに失敗しました: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// GetAllChallenges は全チャレンジを新しい順で返す。
func (s *Store) GetAllChallenges(ctx context.Context) ([]model.Challenge, error) {
	challenges, err := s.queryChallenges(ctx,
		`SELECT `+challengeColumns+` FROM challenges ORDER BY added_date DESC, id DESC`)
	if err != nil {
		storage.Degrade(s.logger, "list", "challenge", err)
		return []model.Challenge{}, nil
	}
	return challenges, nil
}

// GetChallengesByCategory は指定カテゴリのチャレンジを新しい順で返す。
func (s *Store) GetChallengesByCategory(ctx context.Context, category model.Category) ([]model.Challenge, error) {
	challenges, err := s.queryChallenges(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE category = $1 ORDER BY added_date DESC, id DESC`,
		category)
	if err != nil {
		storage.Degrade(s.logger, "list_by_category", "challenge", err)
		return []model.Challenge{}, nil
	}
	return challenges, nil
}

// GetChallengeByID は指定IDのチャレンジを取得する。
func (s *Store) GetChallengeByID(ctx context.Context, id int64) (*model.Challenge, error) {
	c, err := scanChallenge(s.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", "challenge", id, err)
	}
	return c, nil
}

// CreateChallenge はチャレンジを作成する。
func (s *Store) CreateChallenge(ctx context.Context, in model.NewChallenge) (*model.Challenge, error) {
	steps, err := encodeSteps(in.Steps)
	if err != nil {
		return nil, s.fail("create", "challenge", 0, err)
	}

	c, err := scanChallenge(s.db.QueryRowContext(ctx,
		`INSERT INTO challenges (title, description, category, difficulty, duration, steps)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		 RETURNING `+challengeColumns,
		in.Title, in.Description, in.Category, in.Difficulty, in.Duration, steps))
	if err != nil {
		return nil, s.fail("create", "challenge", 0, err)
	}
	return c, nil
}

// UpdateChallenge はチャレンジを部分更新する。stepsが指定された場合は全体を置き換える。
func (s *Store) UpdateChallenge(ctx context.Context, id int64, patch model.ChallengePatch) (*model.Challenge, error) {
	var steps any
	if patch.Steps != nil {
		encoded, err := encodeSteps(patch.Steps)
		if err != nil {
			return nil, s.fail("update", "challenge", id, err)
		}
		steps = encoded
	}

	c, err := scanChallenge(s.db.QueryRowContext(ctx,
		`UPDATE challenges SET
		    title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    category = COALESCE($4, category),
		    difficulty = COALESCE($5, difficulty),
		    duration = COALESCE($6, duration),
		    steps = COALESCE($7::jsonb, steps)
		 WHERE id = $1
		 RETURNING `+challengeColumns,
		id, patch.Title, patch.Description, patch.Category, patch.Difficulty, patch.Duration, steps))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("update", "challenge", id, err)
	}
	return c, nil
}

// DeleteChallenge はチャレンジを削除する。
func (s *Store) DeleteChallenge(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, "challenges", "challenge", id)
}

// GeneratePersonalizedChallenge はパーソナライズドチャレンジを生成して保存する。
func (s *Store) GeneratePersonalizedChallenge(ctx context.Context, in model.ChallengeInput) (*model.Challenge, error) {
	return storage.GeneratePersonalizedChallenge(ctx, s, in)
}
