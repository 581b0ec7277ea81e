package model

import "time"

// Media は動画または音声コンテンツを表す。
// featuredの一意性はtypeごとに適用される（videoとaudioでそれぞれ最大1件）。
type Media struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            MediaType `json:"type"`
	URL             string    `json:"url"`
	Duration        string    `json:"duration"` // 表示用の "M:SS" 形式
	DurationSeconds int       `json:"durationSeconds"`
	Thumbnail       string    `json:"thumbnail"`
	Featured        bool      `json:"featured"`
	Category        string    `json:"category"`
	AddedDate       time.Time `json:"addedDate"`
}

// NewMedia はMedia作成時の入力。
type NewMedia struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            MediaType `json:"type"`
	URL             string    `json:"url"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"durationSeconds"`
	Thumbnail       string    `json:"thumbnail"`
	Featured        bool      `json:"featured"`
	Category        string    `json:"category"`
}

// MediaPatch はMediaの部分更新。
type MediaPatch struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Type            *MediaType `json:"type,omitempty"`
	URL             *string    `json:"url,omitempty"`
	Duration        *string    `json:"duration,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
	Thumbnail       *string    `json:"thumbnail,omitempty"`
	Featured        *bool      `json:"featured,omitempty"`
	Category        *string    `json:"category,omitempty"`
}

// Apply はパッチをMediaにマージした結果を返す。
func (p MediaPatch) Apply(m Media) Media {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.URL != nil {
		m.URL = *p.URL
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.DurationSeconds != nil {
		m.DurationSeconds = *p.DurationSeconds
	}
	if p.Thumbnail != nil {
		m.Thumbnail = *p.Thumbnail
	}
	if p.Featured != nil {
		m.Featured = *p.Featured
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	return m
}

// FeaturedScope は更新後のMediaについて、他のレコードのfeaturedを解除すべきtypeを返す。
// featured=trueが設定された場合、または注目中のメディアが別のtypeへ移動した場合に
// 更新後のtypeとtrueを返す。それ以外はfalseを返す。
func (p MediaPatch) FeaturedScope(existing Media) (MediaType, bool) {
	merged := p.Apply(existing)
	if !merged.Featured {
		return "", false
	}
	setsFeatured := p.Featured != nil && *p.Featured
	movesType := p.Type != nil && *p.Type != existing.Type
	if setsFeatured || movesType {
		return merged.Type, true
	}
	return "", false
}
