package storage

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrDuplicate は一意制約違反を表す。BackendErrorにラップされて返る。
var ErrDuplicate = errors.New("duplicate record")

// BackendError はバックエンドの障害（接続不可、制約違反など）を表す。
// 原因のエラーを保持し、errors.Is/Asで辿れる。
type BackendError struct {
	Op     string // 操作名（例: "create", "update"）
	Entity string // エンティティ名（例: "quote"）
	ID     int64  // 対象ID。IDを持たない操作では0
	Err    error
}

// Error はerrorインターフェースを実装する。
func (e *BackendError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s (id=%d): %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap は原因のエラーを返す。
func (e *BackendError) Unwrap() error {
	return e.Err
}

// Fail はバックエンド障害をコンテキスト付きでログに記録し、BackendErrorとして返す。
// 書き込み系・単一取得系の失敗はこの関数を通して呼び出し元に伝播させる。
func Fail(logger *slog.Logger, op, entity string, id int64, err error) error {
	attrs := []any{
		slog.String("op", op),
		slog.String("entity", entity),
		slog.String("error", err.Error()),
	}
	if id != 0 {
		attrs = append(attrs, slog.Int64("id", id))
	}
	logger.Error("storage backend failure", attrs...)
	return &BackendError{Op: op, Entity: entity, ID: id, Err: err}
}

// Degrade は一覧取得の失敗を警告ログに記録する。
// 一覧取得はページの可用性を優先し、呼び出し元には空の結果を返す。
func Degrade(logger *slog.Logger, op, entity string, err error) {
	logger.Warn("storage list read degraded to empty result",
		slog.String("op", op),
		slog.String("entity", entity),
		slog.String("error", err.Error()),
	)
}
