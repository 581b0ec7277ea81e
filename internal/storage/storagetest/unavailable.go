package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// RunUnavailable は到達できないバックエンドに接続したストレージの失敗時の振る舞いを検証する。
//
// 一覧取得は空の一覧（nilではない）とnilエラーを返し、
// それ以外の操作は操作名とエンティティ名を持つ*storage.BackendErrorを返すこと。
func RunUnavailable(t *testing.T, s storage.Storage) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lists := []struct {
		name string
		fn   func(ctx context.Context) (isNil bool, n int, err error)
	}{
		{"GetAllQuotes", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetAllQuotes(ctx)
			return v == nil, len(v), err
		}},
		{"GetAllTips", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetAllTips(ctx)
			return v == nil, len(v), err
		}},
		{"GetTipsByCategory", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetTipsByCategory(ctx, model.CategoryMindset)
			return v == nil, len(v), err
		}},
		{"GetAllMedia", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetAllMedia(ctx)
			return v == nil, len(v), err
		}},
		{"GetMediaByType", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetMediaByType(ctx, model.MediaTypeAudio)
			return v == nil, len(v), err
		}},
		{"GetAllContactMessages", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetAllContactMessages(ctx)
			return v == nil, len(v), err
		}},
		{"GetAllSubscribers", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetAllSubscribers(ctx)
			return v == nil, len(v), err
		}},
		{"GetAllChallenges", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetAllChallenges(ctx)
			return v == nil, len(v), err
		}},
		{"GetChallengesByCategory", func(ctx context.Context) (bool, int, error) {
			v, err := s.GetChallengesByCategory(ctx, model.CategoryHealth)
			return v == nil, len(v), err
		}},
	}

	for _, tt := range lists {
		t.Run(tt.name, func(t *testing.T) {
			isNil, n, err := tt.fn(ctx)
			if err != nil {
				t.Fatalf("一覧取得の失敗はエラーにしない: %v", err)
			}
			if isNil || n != 0 {
				t.Errorf("nil=%v len=%d, want 空の一覧", isNil, n)
			}
		})
	}

	failures := []struct {
		name       string
		wantOp     string // 空の場合は検証しない
		wantEntity string
		fn         func(ctx context.Context) error
	}{
		{"GetQuoteByID", "get", "quote", func(ctx context.Context) error {
			_, err := s.GetQuoteByID(ctx, 1)
			return err
		}},
		{"GetFeaturedQuote", "get_featured", "quote", func(ctx context.Context) error {
			_, err := s.GetFeaturedQuote(ctx)
			return err
		}},
		{"CreateQuote(featured)", "create", "quote", func(ctx context.Context) error {
			_, err := s.CreateQuote(ctx, model.NewQuote{Text: "Keep going.", Author: "Anon", Featured: true})
			return err
		}},
		{"DeleteQuote", "delete", "quote", func(ctx context.Context) error {
			_, err := s.DeleteQuote(ctx, 1)
			return err
		}},
		{"GetTipByID", "get", "tip", func(ctx context.Context) error {
			_, err := s.GetTipByID(ctx, 1)
			return err
		}},
		{"DeleteTip", "delete", "tip", func(ctx context.Context) error {
			_, err := s.DeleteTip(ctx, 1)
			return err
		}},
		{"GetFeaturedMedia", "get_featured", "media", func(ctx context.Context) error {
			_, err := s.GetFeaturedMedia(ctx, model.MediaTypeVideo)
			return err
		}},
		{"CreateContactMessage", "create", "contact_message", func(ctx context.Context) error {
			_, err := s.CreateContactMessage(ctx, model.NewContactMessage{Name: "Ann", Email: "ann@example.com", Message: "hi"})
			return err
		}},
		{"AddSubscriber", "", "subscriber", func(ctx context.Context) error {
			_, err := s.AddSubscriber(ctx, model.NewSubscriber{Email: "ann@example.com"})
			return err
		}},
		{"GetChallengeByID", "get", "challenge", func(ctx context.Context) error {
			_, err := s.GetChallengeByID(ctx, 1)
			return err
		}},
		{"GetUserByUsername", "get_by_username", "user", func(ctx context.Context) error {
			_, err := s.GetUserByUsername(ctx, "alice")
			return err
		}},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(ctx)
			var backendErr *storage.BackendError
			if !errors.As(err, &backendErr) {
				t.Fatalf("err = %v (%T), want *storage.BackendError", err, err)
			}
			if tt.wantOp != "" && backendErr.Op != tt.wantOp {
				t.Errorf("Op = %q, want %q", backendErr.Op, tt.wantOp)
			}
			if backendErr.Entity != tt.wantEntity {
				t.Errorf("Entity = %q, want %q", backendErr.Entity, tt.wantEntity)
			}
			if backendErr.Err == nil {
				t.Error("原因のエラーが保持されていない")
			}
		})
	}
}
