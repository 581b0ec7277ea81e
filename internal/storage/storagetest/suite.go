// Package storagetest はstorage.Storage実装が満たすべき共通の振る舞いを検証するテストスイートを提供する。
package storagetest

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// Factory はサブテストごとに空の（シードなしの）ストレージを返す。
// 後始末はt.Cleanupで登録すること。
type Factory func(t *testing.T) storage.Storage

// Run はstorage.Storage実装に対して共通スイートを実行する。
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"ユーザー", testUsers},
		{"名言のCRUD", testQuoteCRUD},
		{"注目の名言は常に1件", testFeaturedQuoteUnique},
		{"注目の名言がない場合は最新で代替", testFeaturedQuoteFallback},
		{"ヒントのカテゴリ絞り込み", testTipsByCategory},
		{"メディアの注目はtypeごと", testFeaturedMediaPerType},
		{"注目メディアのtype変更", testFeaturedMediaTypeMove},
		{"お問い合わせ", testContactMessages},
		{"購読登録は冪等", testSubscribersIdempotent},
		{"チャレンジのstepsを保持", testChallengeSteps},
		{"パーソナライズドチャレンジ生成", testGenerateChallenge},
		{"不正な入力では生成しない", testGenerateChallengeInvalid},
		{"存在しないIDの操作", testMissingIDs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	u, err := s.CreateUser(ctx, model.NewUser{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("CreateUser: IDが採番されていない")
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil || got == nil || got.Username != "alice" {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	got, err = s.GetUserByUsername(ctx, "alice")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetUserByUsername: got=%v err=%v", got, err)
	}
	got, err = s.GetUserByUsername(ctx, "bob")
	if err != nil || got != nil {
		t.Fatalf("GetUserByUsername(未登録): got=%v err=%v", got, err)
	}

	_, err = s.CreateUser(ctx, model.NewUser{Username: "alice", Password: "other"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("重複ユーザー名: ErrDuplicateを期待したが %v", err)
	}
}

func testQuoteCRUD(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.CreateQuote(ctx, model.NewQuote{Text: "first", Author: "A"})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	second, err := s.CreateQuote(ctx, model.NewQuote{Text: "second", Author: "B"})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("IDが重複している: %d", first.ID)
	}
	if first.AddedDate.IsZero() {
		t.Error("AddedDateが設定されていない")
	}

	all, err := s.GetAllQuotes(ctx)
	if err != nil {
		t.Fatalf("GetAllQuotes: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("GetAllQuotes: 新しい順ではない: %+v", all)
	}

	updated, err := s.UpdateQuote(ctx, first.ID, model.QuotePatch{Text: ptr("edited")})
	if err != nil {
		t.Fatalf("UpdateQuote: %v", err)
	}
	if updated == nil || updated.Text != "edited" || updated.Author != "A" {
		t.Errorf("UpdateQuote: 部分更新になっていない: %+v", updated)
	}
	if !updated.AddedDate.Equal(first.AddedDate) {
		t.Errorf("UpdateQuote: AddedDateが変化した: %v -> %v", first.AddedDate, updated.AddedDate)
	}

	ok, err := s.DeleteQuote(ctx, first.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteQuote: ok=%v err=%v", ok, err)
	}
	ok, err = s.DeleteQuote(ctx, first.ID)
	if err != nil || ok {
		t.Errorf("DeleteQuote(削除済み): ok=%v err=%v", ok, err)
	}
	got, err := s.GetQuoteByID(ctx, first.ID)
	if err != nil || got != nil {
		t.Errorf("GetQuoteByID(削除済み): got=%v err=%v", got, err)
	}
}

func testFeaturedQuoteUnique(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	a, err := s.CreateQuote(ctx, model.NewQuote{Text: "a", Author: "A", Featured: true})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	b, err := s.CreateQuote(ctx, model.NewQuote{Text: "b", Author: "B", Featured: true})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	assertFeaturedQuote(t, s, b.ID)

	if _, err := s.UpdateQuote(ctx, a.ID, model.QuotePatch{Featured: ptr(true)}); err != nil {
		t.Fatalf("UpdateQuote: %v", err)
	}
	assertFeaturedQuote(t, s, a.ID)

	// 既に注目中のレコードを再度注目にしても1件のまま
	if _, err := s.UpdateQuote(ctx, a.ID, model.QuotePatch{Featured: ptr(true)}); err != nil {
		t.Fatalf("UpdateQuote: %v", err)
	}
	assertFeaturedQuote(t, s, a.ID)
}

func assertFeaturedQuote(t *testing.T, s storage.Storage, wantID int64) {
	t.Helper()
	ctx := context.Background()

	all, err := s.GetAllQuotes(ctx)
	if err != nil {
		t.Fatalf("GetAllQuotes: %v", err)
	}
	var featured []int64
	for _, q := range all {
		if q.Featured {
			featured = append(featured, q.ID)
		}
	}
	if len(featured) != 1 || featured[0] != wantID {
		t.Fatalf("注目の名言 = %v, want [%d]", featured, wantID)
	}

	got, err := s.GetFeaturedQuote(ctx)
	if err != nil || got == nil || got.ID != wantID {
		t.Fatalf("GetFeaturedQuote: got=%v err=%v, want id=%d", got, err, wantID)
	}
}

func testFeaturedQuoteFallback(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	got, err := s.GetFeaturedQuote(ctx)
	if err != nil || got != nil {
		t.Fatalf("GetFeaturedQuote(空): got=%v err=%v", got, err)
	}

	if _, err := s.CreateQuote(ctx, model.NewQuote{Text: "old", Author: "A"}); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	newest, err := s.CreateQuote(ctx, model.NewQuote{Text: "new", Author: "B"})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	got, err = s.GetFeaturedQuote(ctx)
	if err != nil || got == nil || got.ID != newest.ID {
		t.Errorf("GetFeaturedQuote(代替): got=%v err=%v, want id=%d", got, err, newest.ID)
	}
}

func testTipsByCategory(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	p1, _ := s.CreateTip(ctx, model.NewTip{Title: "p1", Content: "c", Category: model.CategoryProductivity})
	if _, err := s.CreateTip(ctx, model.NewTip{Title: "h1", Content: "c", Category: model.CategoryHealth}); err != nil {
		t.Fatalf("CreateTip: %v", err)
	}
	p2, err := s.CreateTip(ctx, model.NewTip{Title: "p2", Content: "c", Category: model.CategoryProductivity})
	if err != nil {
		t.Fatalf("CreateTip: %v", err)
	}

	tips, err := s.GetTipsByCategory(ctx, model.CategoryProductivity)
	if err != nil {
		t.Fatalf("GetTipsByCategory: %v", err)
	}
	if len(tips) != 2 || tips[0].ID != p2.ID || tips[1].ID != p1.ID {
		t.Errorf("GetTipsByCategory: %+v", tips)
	}

	tips, err = s.GetTipsByCategory(ctx, model.CategorySuccess)
	if err != nil || len(tips) != 0 {
		t.Errorf("GetTipsByCategory(該当なし): n=%d err=%v", len(tips), err)
	}

	updated, err := s.UpdateTip(ctx, p1.ID, model.TipPatch{Category: ptr(model.CategoryMindset)})
	if err != nil || updated == nil || updated.Category != model.CategoryMindset || updated.Title != "p1" {
		t.Errorf("UpdateTip: got=%v err=%v", updated, err)
	}
}

func newMedia(title string, typ model.MediaType, featured bool) model.NewMedia {
	return model.NewMedia{
		Title:           title,
		Description:     "d",
		Type:            typ,
		URL:             "https://example.com/" + title,
		Duration:        "1:00",
		DurationSeconds: 60,
		Featured:        featured,
		Category:        "General",
	}
}

func featuredMediaIDs(t *testing.T, s storage.Storage, typ model.MediaType) []int64 {
	t.Helper()
	items, err := s.GetMediaByType(context.Background(), typ)
	if err != nil {
		t.Fatalf("GetMediaByType: %v", err)
	}
	var ids []int64
	for _, m := range items {
		if m.Featured {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func testFeaturedMediaPerType(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	video, err := s.CreateMedia(ctx, newMedia("v1", model.MediaTypeVideo, true))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	audio, err := s.CreateMedia(ctx, newMedia("a1", model.MediaTypeAudio, true))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	// audioの注目はvideoの注目に影響しない
	got, err := s.GetFeaturedMedia(ctx, model.MediaTypeVideo)
	if err != nil || got == nil || got.ID != video.ID {
		t.Fatalf("GetFeaturedMedia(video): got=%v err=%v", got, err)
	}
	got, err = s.GetFeaturedMedia(ctx, model.MediaTypeAudio)
	if err != nil || got == nil || got.ID != audio.ID {
		t.Fatalf("GetFeaturedMedia(audio): got=%v err=%v", got, err)
	}

	video2, err := s.CreateMedia(ctx, newMedia("v2", model.MediaTypeVideo, true))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	if ids := featuredMediaIDs(t, s, model.MediaTypeVideo); len(ids) != 1 || ids[0] != video2.ID {
		t.Errorf("注目のvideo = %v, want [%d]", ids, video2.ID)
	}
	if ids := featuredMediaIDs(t, s, model.MediaTypeAudio); len(ids) != 1 || ids[0] != audio.ID {
		t.Errorf("注目のaudio = %v, want [%d]", ids, audio.ID)
	}

	all, err := s.GetAllMedia(ctx)
	if err != nil || len(all) != 3 {
		t.Errorf("GetAllMedia: n=%d err=%v", len(all), err)
	}
}

func testFeaturedMediaTypeMove(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	video, err := s.CreateMedia(ctx, newMedia("v1", model.MediaTypeVideo, true))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	audio, err := s.CreateMedia(ctx, newMedia("a1", model.MediaTypeAudio, true))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	// 注目中のvideoをaudioへ移すと、既存のaudioの注目が解除される
	moved, err := s.UpdateMedia(ctx, video.ID, model.MediaPatch{Type: ptr(model.MediaTypeAudio)})
	if err != nil || moved == nil {
		t.Fatalf("UpdateMedia: got=%v err=%v", moved, err)
	}
	if ids := featuredMediaIDs(t, s, model.MediaTypeAudio); len(ids) != 1 || ids[0] != video.ID {
		t.Errorf("注目のaudio = %v, want [%d]", ids, video.ID)
	}

	got, err := s.GetMediaByID(ctx, audio.ID)
	if err != nil || got == nil || got.Featured {
		t.Errorf("元の注目audioが解除されていない: got=%v err=%v", got, err)
	}

	// videoには注目がなくなり、GetFeaturedMediaは該当なし
	featured, err := s.GetFeaturedMedia(ctx, model.MediaTypeVideo)
	if err != nil || featured != nil {
		t.Errorf("GetFeaturedMedia(video): got=%v err=%v", featured, err)
	}
}

func testContactMessages(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.CreateContactMessage(ctx, model.NewContactMessage{Name: "A", Email: "a@example.com", Message: "hello"})
	if err != nil {
		t.Fatalf("CreateContactMessage: %v", err)
	}
	second, err := s.CreateContactMessage(ctx, model.NewContactMessage{Name: "B", Email: "b@example.com", Message: "world"})
	if err != nil {
		t.Fatalf("CreateContactMessage: %v", err)
	}

	msgs, err := s.GetAllContactMessages(ctx)
	if err != nil {
		t.Fatalf("GetAllContactMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != second.ID || msgs[1].ID != first.ID {
		t.Errorf("GetAllContactMessages: %+v", msgs)
	}
}

func testSubscribersIdempotent(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.AddSubscriber(ctx, model.NewSubscriber{Email: "x@example.com"})
	if err != nil {
		t.Fatalf("AddSubscriber: %v", err)
	}
	again, err := s.AddSubscriber(ctx, model.NewSubscriber{Email: "x@example.com"})
	if err != nil {
		t.Fatalf("AddSubscriber(再登録): %v", err)
	}
	if again.ID != first.ID || !again.SubscriptionDate.Equal(first.SubscriptionDate) {
		t.Errorf("再登録で既存レコードが返らない: first=%+v again=%+v", first, again)
	}

	if _, err := s.AddSubscriber(ctx, model.NewSubscriber{Email: "y@example.com"}); err != nil {
		t.Fatalf("AddSubscriber: %v", err)
	}
	subs, err := s.GetAllSubscribers(ctx)
	if err != nil || len(subs) != 2 {
		t.Fatalf("GetAllSubscribers: n=%d err=%v", len(subs), err)
	}
	if subs[0].Email != "y@example.com" {
		t.Errorf("GetAllSubscribers: 新しい順ではない: %+v", subs)
	}
}

func testChallengeSteps(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	in := model.NewChallenge{
		Title:       "c",
		Description: "d",
		Category:    model.CategoryHealth,
		Difficulty:  model.DifficultyEasy,
		Duration:    3,
		Steps:       []string{"walk", "stretch", "sleep"},
	}
	created, err := s.CreateChallenge(ctx, in)
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}

	got, err := s.GetChallengeByID(ctx, created.ID)
	if err != nil || got == nil {
		t.Fatalf("GetChallengeByID: got=%v err=%v", got, err)
	}
	if !slices.Equal(got.Steps, in.Steps) {
		t.Errorf("Steps = %v, want %v", got.Steps, in.Steps)
	}

	// stepsを指定しない更新は既存のstepsを維持する
	updated, err := s.UpdateChallenge(ctx, created.ID, model.ChallengePatch{Title: ptr("renamed")})
	if err != nil || updated == nil {
		t.Fatalf("UpdateChallenge: got=%v err=%v", updated, err)
	}
	if updated.Title != "renamed" || !slices.Equal(updated.Steps, in.Steps) {
		t.Errorf("UpdateChallenge: %+v", updated)
	}

	updated, err = s.UpdateChallenge(ctx, created.ID, model.ChallengePatch{Steps: []string{"only"}})
	if err != nil || updated == nil || !slices.Equal(updated.Steps, []string{"only"}) {
		t.Errorf("UpdateChallenge(steps置換): got=%v err=%v", updated, err)
	}

	byCat, err := s.GetChallengesByCategory(ctx, model.CategoryHealth)
	if err != nil || len(byCat) != 1 {
		t.Errorf("GetChallengesByCategory: n=%d err=%v", len(byCat), err)
	}
}

func testGenerateChallenge(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	in := model.ChallengeInput{
		Interests:  []string{"reading", "writing"},
		Goals:      []string{"focus more"},
		Difficulty: model.DifficultyHard,
		Duration:   5,
		Category:   model.CategoryProductivity,
	}
	got, err := s.GeneratePersonalizedChallenge(ctx, in)
	if err != nil {
		t.Fatalf("GeneratePersonalizedChallenge: %v", err)
	}
	if got.ID == 0 {
		t.Error("生成されたチャレンジが保存されていない")
	}
	if len(got.Steps) != 9 {
		t.Errorf("len(Steps) = %d, want 9", len(got.Steps))
	}
	if got.Difficulty != model.DifficultyHard || got.Duration != 5 || got.Category != model.CategoryProductivity {
		t.Errorf("入力が反映されていない: %+v", got)
	}

	stored, err := s.GetChallengeByID(ctx, got.ID)
	if err != nil || stored == nil || !slices.Equal(stored.Steps, got.Steps) {
		t.Errorf("GetChallengeByID: got=%v err=%v", stored, err)
	}
}

func testGenerateChallengeInvalid(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.GeneratePersonalizedChallenge(ctx, model.ChallengeInput{
		Interests:  []string{"reading"},
		Goals:      []string{"focus"},
		Difficulty: model.DifficultyEasy,
		Duration:   0,
		Category:   model.CategoryMindset,
	})
	if !model.IsValidationError(err) {
		t.Fatalf("バリデーションエラーを期待したが %v", err)
	}

	all, err := s.GetAllChallenges(ctx)
	if err != nil || len(all) != 0 {
		t.Errorf("不正な入力でレコードが作成された: n=%d err=%v", len(all), err)
	}
}

func testMissingIDs(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	const missing int64 = 999999

	if q, err := s.UpdateQuote(ctx, missing, model.QuotePatch{Text: ptr("x")}); err != nil || q != nil {
		t.Errorf("UpdateQuote: got=%v err=%v", q, err)
	}
	if tip, err := s.UpdateTip(ctx, missing, model.TipPatch{Title: ptr("x")}); err != nil || tip != nil {
		t.Errorf("UpdateTip: got=%v err=%v", tip, err)
	}
	if m, err := s.UpdateMedia(ctx, missing, model.MediaPatch{Featured: ptr(true)}); err != nil || m != nil {
		t.Errorf("UpdateMedia: got=%v err=%v", m, err)
	}
	if c, err := s.UpdateChallenge(ctx, missing, model.ChallengePatch{Title: ptr("x")}); err != nil || c != nil {
		t.Errorf("UpdateChallenge: got=%v err=%v", c, err)
	}
	if ok, err := s.DeleteTip(ctx, missing); err != nil || ok {
		t.Errorf("DeleteTip: ok=%v err=%v", ok, err)
	}
	if ok, err := s.DeleteMedia(ctx, missing); err != nil || ok {
		t.Errorf("DeleteMedia: ok=%v err=%v", ok, err)
	}
	if ok, err := s.DeleteChallenge(ctx, missing); err != nil || ok {
		t.Errorf("DeleteChallenge: ok=%v err=%v", ok, err)
	}
	if u, err := s.GetUser(ctx, missing); err != nil || u != nil {
		t.Errorf("GetUser: got=%v err=%v", u, err)
	}

	all, err := s.GetAllQuotes(ctx)
	if err != nil || len(all) != 0 {
		t.Errorf("存在しないIDへの更新でレコードが作成された: n=%d err=%v", len(all), err)
	}
}
