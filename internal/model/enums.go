// Package model はドメインモデルを定義する。
package model

// Category はTipとChallengeのカテゴリを表す。
// Productivity、Mindset、Health、Successの4値からなる閉じた集合。
type Category string

const (
	// CategoryProductivity は生産性カテゴリ。
	CategoryProductivity Category = "Productivity"
	// CategoryMindset はマインドセットカテゴリ。
	CategoryMindset Category = "Mindset"
	// CategoryHealth は健康カテゴリ。
	CategoryHealth Category = "Health"
	// CategorySuccess は成功カテゴリ。
	CategorySuccess Category = "Success"
)

// Categories は許可されたカテゴリを定義順で返す。
func Categories() []Category {
	return []Category{CategoryProductivity, CategoryMindset, CategoryHealth, CategorySuccess}
}

// Valid はカテゴリが閉じた集合に含まれるかを返す。
func (c Category) Valid() bool {
	switch c {
	case CategoryProductivity, CategoryMindset, CategoryHealth, CategorySuccess:
		return true
	}
	return false
}

// MediaType はメディアの種別を表す。
type MediaType string

const (
	// MediaTypeVideo は動画。
	MediaTypeVideo MediaType = "video"
	// MediaTypeAudio は音声。
	MediaTypeAudio MediaType = "audio"
)

// Valid はメディア種別がvideoまたはaudioであるかを返す。
func (t MediaType) Valid() bool {
	return t == MediaTypeVideo || t == MediaTypeAudio
}

// Difficulty はチャレンジの難易度を表す。
type Difficulty string

const (
	// DifficultyEasy は易しい。
	DifficultyEasy Difficulty = "Easy"
	// DifficultyMedium は普通。
	DifficultyMedium Difficulty = "Medium"
	// DifficultyHard は難しい。
	DifficultyHard Difficulty = "Hard"
)

// Valid は難易度が閉じた集合に含まれるかを返す。
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
