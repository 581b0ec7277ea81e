package model

import "time"

// Challenge は日数単位の自己改善チャレンジを表す。
// Stepsは常に順序付きの文字列列として保存・復元される。
type Challenge struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Duration    int        `json:"duration"` // 日数（1-30）
	Steps       []string   `json:"steps"`
	AddedDate   time.Time  `json:"addedDate"`
}

// NewChallenge はChallenge作成時の入力。
type NewChallenge struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Duration    int        `json:"duration"`
	Steps       []string   `json:"steps"`
}

// ChallengePatch はChallengeの部分更新。
// Stepsはnilなら維持し、非nilなら全体を置き換える。
type ChallengePatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	Difficulty  *Difficulty `json:"difficulty,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Steps       []string    `json:"steps,omitempty"`
}

// Apply はパッチをChallengeにマージした結果を返す。
func (p ChallengePatch) Apply(c Challenge) Challenge {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Steps != nil {
		c.Steps = NormalizeSteps(p.Steps)
	}
	return c
}

// ChallengeInput はパーソナライズドチャレンジ生成の入力。永続化はされない。
type ChallengeInput struct {
	Interests  []string   `json:"interests"`
	Goals      []string   `json:"goals"`
	Difficulty Difficulty `json:"difficulty"`
	Duration   int        `json:"duration"`
	Category   Category   `json:"category"`
}

const (
	// MinChallengeDuration はチャレンジ日数の下限。
	MinChallengeDuration = 1
	// MaxChallengeDuration はチャレンジ日数の上限。
	MaxChallengeDuration = 30
)
