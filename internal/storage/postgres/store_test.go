package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/soulelevate/internal/database"
	"github.com/hitoshi/soulelevate/internal/storage"
	"github.com/hitoshi/soulelevate/internal/storage/storagetest"
)

// setupTestDB はTEST_DATABASE_URLのデータベースにマイグレーションを適用して返す。
// 未設定または接続できない場合はスキップする。
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL が未設定のためスキップ")
	}

	db, err := database.Open(dbURL, database.PoolConfig{})
	if err != nil {
		t.Fatalf("データベースへの接続に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Skipf("テスト用データベースに接続できません（スキップ）: %v", err)
	}
	if err := database.RunMigrations(dbURL); err != nil {
		t.Fatalf("マイグレーション実行に失敗: %v", err)
	}
	return db
}

// TestStore_Conformance は共通スイートをPostgreSQL実装に対して実行する。
func TestStore_Conformance(t *testing.T) {
	db := setupTestDB(t)

	storagetest.Run(t, func(t *testing.T) storage.Storage {
		_, err := db.Exec(`TRUNCATE users, quotes, tips, media, contact_messages, subscribers, challenges RESTART IDENTITY`)
		if err != nil {
			t.Fatalf("クリーンアップに失敗: %v", err)
		}
		return New(db, nil)
	})
}

// TestStore_PartialUniqueIndex は注目フラグの一意性がインデックスでも保証されることを検証する。
func TestStore_PartialUniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Exec(`TRUNCATE quotes RESTART IDENTITY`); err != nil {
		t.Fatalf("クリーンアップに失敗: %v", err)
	}

	_, err := db.Exec(`INSERT INTO quotes (text, author, featured) VALUES ('a', 'A', TRUE), ('b', 'B', TRUE)`)
	if err == nil {
		t.Fatal("注目の名言を2件挿入できてしまった")
	}
	if !errors.Is(classify(err), storage.ErrDuplicate) {
		t.Errorf("一意制約違反として分類されない: %v", err)
	}
}

// TestClassify は一意制約違反のみErrDuplicateに変換されることを検証する。
func TestClassify(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "users_username_key"}
	if err := classify(dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("classify(23505) = %v, want ErrDuplicate", err)
	}

	wrapped := fmt.Errorf("insert: %w", dup)
	if err := classify(wrapped); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("ラップされた23505がErrDuplicateにならない: %v", err)
	}

	other := &pq.Error{Code: "23503"}
	if err := classify(other); errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("classify(23503) がErrDuplicateになった")
	}
}

// rowFunc はscannerのテスト用実装。
type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

// TestScanChallenge_NormalizesSteps はJSONBの形式に関わらずstepsが文字列の一覧になることを検証する。
func TestScanChallenge_NormalizesSteps(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "配列", raw: `["a","b"]`, want: []string{"a", "b"}},
		{name: "オブジェクト", raw: `{"1":"b","0":"a"}`, want: []string{"a", "b"}},
		{name: "壊れたJSON", raw: `[`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := rowFunc(func(dest ...any) error {
				*dest[0].(*int64) = 1
				*dest[6].(*[]byte) = []byte(tt.raw)
				*dest[7].(*time.Time) = time.Now()
				return nil
			})

			c, err := scanChallenge(row)
			if err != nil {
				t.Fatalf("scanChallenge: %v", err)
			}
			if len(c.Steps) != len(tt.want) {
				t.Fatalf("Steps = %v, want %v", c.Steps, tt.want)
			}
			for i := range tt.want {
				if c.Steps[i] != tt.want[i] {
					t.Errorf("Steps[%d] = %q, want %q", i, c.Steps[i], tt.want[i])
				}
			}
		})
	}
}

// TestEncodeSteps はnilのstepsが空配列としてエンコードされることを検証する。
func TestEncodeSteps(t *testing.T) {
	got, err := encodeSteps(nil)
	if err != nil {
		t.Fatalf("encodeSteps: %v", err)
	}
	if got != "[]" {
		t.Errorf("encodeSteps(nil) = %q, want []", got)
	}

	got, err = encodeSteps([]string{"x"})
	if err != nil {
		t.Fatalf("encodeSteps: %v", err)
	}
	var decoded []string
	if err := json.Unmarshal([]byte(got), &decoded); err != nil || len(decoded) != 1 || decoded[0] != "x" {
		t.Errorf("encodeSteps = %q", got)
	}
}

// TestStore_PingCanceled はキャンセル済みのコンテキストでPingが失敗することを検証する。
func TestStore_PingCanceled(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Ping(ctx); err == nil {
		t.Error("キャンセル済みコンテキストでPingが成功した")
	}
}
