package challenge

import (
	"fmt"
	"strings"

	"github.com/hitoshi/soulelevate/internal/model"
)

// difficultyBonus は難易度ごとの追加ステップ数。
var difficultyBonus = map[model.Difficulty]int{
	model.DifficultyEasy:   0,
	model.DifficultyMedium: 2,
	model.DifficultyHard:   4,
}

// StepCount は最終的なステップ数を返す。
// min(duration, poolLen) に難易度の追加分を足し、poolLenで上限を取る。
func StepCount(duration int, difficulty model.Difficulty, poolLen int) int {
	count := min(duration, poolLen)
	count = min(count+difficultyBonus[difficulty], poolLen)
	return max(count, 0)
}

// Title はカテゴリと最初の目標からタイトルを合成する。
func Title(category model.Category, goal string, duration int) string {
	switch category {
	case model.CategoryProductivity:
		return fmt.Sprintf("%d-Day %s Productivity Challenge", duration, goal)
	case model.CategoryMindset:
		return fmt.Sprintf("Transform Your Mindset: %s in %d Days", goal, duration)
	case model.CategoryHealth:
		return fmt.Sprintf("%s Health Challenge", goal)
	case model.CategorySuccess:
		return fmt.Sprintf("%d-Day Journey to %s", duration, goal)
	default:
		return fmt.Sprintf("%d-Day %s Challenge", duration, goal)
	}
}

// Description は先頭2件の興味、目標一覧、難易度、日数から説明文を合成する。
func Description(in model.ChallengeInput) string {
	interests := in.Interests
	if len(interests) > 2 {
		interests = interests[:2]
	}
	return fmt.Sprintf(
		"A personalized %d-day challenge designed specifically for someone interested in %s. This %s difficulty challenge will help you %s.",
		in.Duration,
		strings.Join(interests, " and "),
		strings.ToLower(string(in.Difficulty)),
		strings.Join(in.Goals, " and "),
	)
}

// Build は検証済みのChallengeInputからNewChallengeを合成する。
// 純粋関数であり、乱数や時刻に依存しない。
// 入力の検証は呼び出し元で済ませておくこと。
func Build(in model.ChallengeInput) model.NewChallenge {
	in = in.Normalize()

	goal := ""
	if len(in.Goals) > 0 {
		goal = in.Goals[0]
	}

	pool := Pool(in.Category, in.Interests)
	count := StepCount(in.Duration, in.Difficulty, len(pool))
	steps := make([]string, count)
	copy(steps, pool[:count])

	return model.NewChallenge{
		Title:       Title(in.Category, goal, in.Duration),
		Description: Description(in),
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Duration:    in.Duration,
		Steps:       steps,
	}
}
