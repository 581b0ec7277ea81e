// Package postgres はPostgreSQLを使用したストレージ実装を提供する。
//
// スキーマはinternal/database/migrationsで管理する。
// 注目フラグの付け替えはトランザクション内でadvisory lockを取得して直列化し、
// 部分ユニークインデックス（idx_quotes_featured, idx_media_featured_type）で一意性を保証する。
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/hitoshi/soulelevate/internal/storage"
)

// advisory lockのキー。hashtextで整数に変換して使う。
const (
	lockQuoteFeatured = "soulelevate.quotes.featured"
	lockMediaFeatured = "soulelevate.media.featured"
)

// errNotFound はトランザクション内で対象行が見つからなかったことを表す。
// 呼び出し元で (nil, nil) に変換する。
var errNotFound = errors.New("row not found")

// queryer は*sql.DBと*sql.Txに共通するクエリ操作。
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner は*sql.Rowと*sql.Rowsに共通するScan操作。
type scanner interface {
	Scan(dest ...any) error
}

// Store はstorage.StorageのPostgreSQL実装。
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Storage = (*Store)(nil)

// New はStoreを生成する。loggerがnilの場合はslog.Default()を使う。
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Ping はデータベースへの疎通を確認する。
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はコネクションプールを閉じる。
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// withTx はfnをトランザクション内で実行する。fnがエラーを返した場合はロールバックする。
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// lock はトランザクション終了まで保持されるadvisory lockを取得する。
func lock(ctx context.Context, tx *sql.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("ロックの取得に失敗しました: %w", err)
	}
	return nil
}

// classify は一意制約違反をstorage.ErrDuplicateに変換する。
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// fail はバックエンド障害をログに記録してBackendErrorを返す。
func (s *Store) fail(op, entity string, id int64, err error) error {
	return storage.Fail(s.logger, op, entity, id, classify(err))
}
