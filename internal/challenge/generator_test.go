package challenge

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hitoshi/soulelevate/internal/model"
)

func TestStepCount(t *testing.T) {
	tests := []struct {
		duration   int
		difficulty model.Difficulty
		poolLen    int
		want       int
	}{
		{5, model.DifficultyEasy, 10, 5},
		{5, model.DifficultyMedium, 10, 7},
		{5, model.DifficultyHard, 10, 9},
		{8, model.DifficultyHard, 10, 10},
		{30, model.DifficultyEasy, 10, 10},
		{1, model.DifficultyMedium, 10, 3},
		{3, model.DifficultyHard, 0, 0},
	}
	for _, tt := range tests {
		got := StepCount(tt.duration, tt.difficulty, tt.poolLen)
		if got != tt.want {
			t.Errorf("StepCount(%d, %s, %d) = %d, want %d", tt.duration, tt.difficulty, tt.poolLen, got, tt.want)
		}
	}
}

// すべてのカテゴリのプールが10件で揃っていることを検証
func TestPool_SizeForEveryCategory(t *testing.T) {
	for _, c := range append(model.Categories(), model.Category("Unknown")) {
		if got := len(Pool(c, []string{"x"})); got != poolSize {
			t.Errorf("len(Pool(%s)) = %d, want %d", c, got, poolSize)
		}
	}
}

// Productivity/Hard/5日で9ステップがプール順に並ぶことを検証
func TestBuild_ProductivityHardFiveDays(t *testing.T) {
	in := model.ChallengeInput{
		Interests:  []string{"coding", "music", "chess"},
		Goals:      []string{"ship side projects", "sleep better"},
		Difficulty: model.DifficultyHard,
		Duration:   5,
		Category:   model.CategoryProductivity,
	}

	got := Build(in)

	if len(got.Steps) != 9 {
		t.Fatalf("len(Steps) = %d, want 9", len(got.Steps))
	}
	pool := Pool(model.CategoryProductivity, in.Interests)
	if !reflect.DeepEqual(got.Steps, pool[:9]) {
		t.Errorf("Steps = %#v, want first 9 of pool", got.Steps)
	}
	if got.Steps[1] != "Implement time blocking for coding activities" {
		t.Errorf("Steps[1] = %q, want interpolated interest", got.Steps[1])
	}
	if got.Title != "5-Day ship side projects Productivity Challenge" {
		t.Errorf("Title = %q", got.Title)
	}
	wantDesc := "A personalized 5-day challenge designed specifically for someone interested in coding and music. " +
		"This hard difficulty challenge will help you ship side projects and sleep better."
	if got.Description != wantDesc {
		t.Errorf("Description = %q, want %q", got.Description, wantDesc)
	}
	if got.Category != in.Category || got.Difficulty != in.Difficulty || got.Duration != in.Duration {
		t.Errorf("metadata not carried over: %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("built challenge should validate, got %v", err)
	}
}

// 難易度はステップ数のみに影響し、先頭の並びは変わらないことを検証
func TestBuild_DifficultyOnlyChangesCount(t *testing.T) {
	base := model.ChallengeInput{
		Interests: []string{"yoga"}, Goals: []string{"calm"},
		Duration: 5, Category: model.CategoryMindset,
	}

	easy := base
	easy.Difficulty = model.DifficultyEasy
	hard := base
	hard.Difficulty = model.DifficultyHard

	e := Build(easy)
	h := Build(hard)
	if len(e.Steps) != 5 || len(h.Steps) != 9 {
		t.Fatalf("len easy=%d hard=%d, want 5 and 9", len(e.Steps), len(h.Steps))
	}
	if !reflect.DeepEqual(e.Steps, h.Steps[:5]) {
		t.Errorf("first five steps differ: %#v vs %#v", e.Steps, h.Steps[:5])
	}
}

// 同一入力で同一の結果になることを検証
func TestBuild_Deterministic(t *testing.T) {
	in := model.ChallengeInput{
		Interests: []string{"running"}, Goals: []string{"run a 10k"},
		Difficulty: model.DifficultyMedium, Duration: 12, Category: model.CategoryHealth,
	}
	a := Build(in)
	b := Build(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Build is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestTitle_PerCategory(t *testing.T) {
	tests := map[model.Category]string{
		model.CategoryProductivity: "7-Day focus Productivity Challenge",
		model.CategoryMindset:      "Transform Your Mindset: focus in 7 Days",
		model.CategoryHealth:       "focus Health Challenge",
		model.CategorySuccess:      "7-Day Journey to focus",
	}
	for c, want := range tests {
		if got := Title(c, "focus", 7); got != want {
			t.Errorf("Title(%s) = %q, want %q", c, got, want)
		}
	}
}

// 空白の興味・目標は除外されてから使われることを検証
func TestBuild_IgnoresBlankEntries(t *testing.T) {
	in := model.ChallengeInput{
		Interests: []string{" ", "art"}, Goals: []string{"", "paint daily"},
		Difficulty: model.DifficultyEasy, Duration: 3, Category: model.CategorySuccess,
	}
	got := Build(in)
	if !strings.Contains(got.Title, "paint daily") {
		t.Errorf("Title = %q, want first non-blank goal", got.Title)
	}
	if !strings.Contains(got.Description, "interested in art.") {
		t.Errorf("Description = %q", got.Description)
	}
}
