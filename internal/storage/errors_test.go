package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// TestFail はFailがBackendErrorを返し、エラーログを記録することを検証する。
func TestFail(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cause := errors.New("connection refused")

	err := Fail(logger, "update", "quote", 42, cause)

	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("BackendErrorを期待したが %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("原因のエラーを辿れない")
	}
	if got := err.Error(); got != "update quote (id=42): connection refused" {
		t.Errorf("Error() = %q", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("ログがJSONではない: %v", err)
	}
	if entry["level"] != "ERROR" || entry["entity"] != "quote" || entry["id"] != float64(42) {
		t.Errorf("ログの内容が不正: %v", entry)
	}
}

// TestFail_NoID はIDを持たない操作ではidを出力しないことを検証する。
func TestFail_NoID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := Fail(logger, "create", "subscriber", 0, ErrDuplicate)

	if !errors.Is(err, ErrDuplicate) {
		t.Error("ErrDuplicateを辿れない")
	}
	if got := err.Error(); got != "create subscriber: duplicate record" {
		t.Errorf("Error() = %q", got)
	}
	if strings.Contains(buf.String(), `"id"`) {
		t.Errorf("idが出力されている: %s", buf.String())
	}
}

// TestDegrade は一覧取得の失敗が警告ログになることを検証する。
func TestDegrade(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Degrade(logger, "list", "tip", errors.New("timeout"))

	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Errorf("WARNレベルではない: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"error":"timeout"`) {
		t.Errorf("エラー内容が出力されていない: %s", buf.String())
	}
}
