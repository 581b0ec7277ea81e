package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/soulelevate/internal/model"
)

// mockCreator はテスト用のChallengeCreator実装。
type mockCreator struct {
	createFn func(ctx context.Context, in model.NewChallenge) (*model.Challenge, error)
	calls    int
}

func (m *mockCreator) CreateChallenge(ctx context.Context, in model.NewChallenge) (*model.Challenge, error) {
	m.calls++
	return m.createFn(ctx, in)
}

func validInput() model.ChallengeInput {
	return model.ChallengeInput{
		Interests:  []string{"running"},
		Goals:      []string{"get fit"},
		Difficulty: model.DifficultyMedium,
		Duration:   7,
		Category:   model.CategoryHealth,
	}
}

// TestGeneratePersonalizedChallenge_Persists は合成したチャレンジが作成プリミティブに渡されることを検証する。
func TestGeneratePersonalizedChallenge_Persists(t *testing.T) {
	var got model.NewChallenge
	creator := &mockCreator{
		createFn: func(ctx context.Context, in model.NewChallenge) (*model.Challenge, error) {
			got = in
			return &model.Challenge{ID: 1, Title: in.Title, Steps: in.Steps}, nil
		},
	}

	c, err := GeneratePersonalizedChallenge(context.Background(), creator, validInput())
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if c.ID != 1 {
		t.Errorf("ID = %d, want 1", c.ID)
	}
	if got.Title != "get fit Health Challenge" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Steps) != 9 {
		t.Errorf("len(Steps) = %d, want 9", len(got.Steps))
	}
}

// TestGeneratePersonalizedChallenge_InvalidInput は不正な入力で作成プリミティブを呼ばないことを検証する。
func TestGeneratePersonalizedChallenge_InvalidInput(t *testing.T) {
	creator := &mockCreator{}
	in := validInput()
	in.Goals = []string{"   "}

	_, err := GeneratePersonalizedChallenge(context.Background(), creator, in)
	if !model.IsValidationError(err) {
		t.Fatalf("バリデーションエラーを期待したが %v", err)
	}
	if creator.calls != 0 {
		t.Errorf("CreateChallengeが%d回呼ばれた", creator.calls)
	}
}

// TestGeneratePersonalizedChallenge_CreateError は保存失敗をそのまま返すことを検証する。
func TestGeneratePersonalizedChallenge_CreateError(t *testing.T) {
	cause := &BackendError{Op: "create", Entity: "challenge", Err: errors.New("down")}
	creator := &mockCreator{
		createFn: func(ctx context.Context, in model.NewChallenge) (*model.Challenge, error) {
			return nil, cause
		},
	}

	_, err := GeneratePersonalizedChallenge(context.Background(), creator, validInput())
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want %v", err, cause)
	}
}
