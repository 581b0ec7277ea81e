package model

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// durationPattern は表示用再生時間 "M:SS" の形式。
var durationPattern = regexp.MustCompile(`^\d+:[0-5]\d$`)

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "は必須です")
	}
	return nil
}

func requireEmail(field, value string) error {
	if err := requireText(field, value); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return NewValidationError(field, "はメールアドレスの形式ではありません")
	}
	return nil
}

func requireCategory(c Category) error {
	if !c.Valid() {
		return NewValidationError("category", fmt.Sprintf("は Productivity、Mindset、Health、Success のいずれかです: %q", c))
	}
	return nil
}

func requireDifficulty(d Difficulty) error {
	if !d.Valid() {
		return NewValidationError("difficulty", fmt.Sprintf("は Easy、Medium、Hard のいずれかです: %q", d))
	}
	return nil
}

func requireDuration(days int) error {
	if days < MinChallengeDuration || days > MaxChallengeDuration {
		return NewValidationError("duration", fmt.Sprintf("は%dから%dの範囲です: %d", MinChallengeDuration, MaxChallengeDuration, days))
	}
	return nil
}

func requireSteps(steps []string) error {
	for i, s := range steps {
		if strings.TrimSpace(s) == "" {
			return NewValidationError(fmt.Sprintf("steps[%d]", i), "は空にできません")
		}
	}
	return nil
}

func requireMediaDuration(display string, seconds int) error {
	if !durationPattern.MatchString(display) {
		return NewValidationError("duration", fmt.Sprintf("は M:SS 形式です: %q", display))
	}
	if seconds < 0 {
		return NewValidationError("durationSeconds", "は0以上です")
	}
	return nil
}

// firstError は最初の非nilエラーを返す。
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate はNewQuoteを検証する。
func (q NewQuote) Validate() error {
	return firstError(
		requireText("text", q.Text),
		requireText("author", q.Author),
	)
}

// Validate はQuotePatchの指定フィールドのみを検証する。
func (p QuotePatch) Validate() error {
	if p.Text != nil {
		if err := requireText("text", *p.Text); err != nil {
			return err
		}
	}
	if p.Author != nil {
		return requireText("author", *p.Author)
	}
	return nil
}

// Validate はNewTipを検証する。
func (t NewTip) Validate() error {
	return firstError(
		requireText("title", t.Title),
		requireText("content", t.Content),
		requireCategory(t.Category),
	)
}

// Validate はTipPatchの指定フィールドのみを検証する。
func (p TipPatch) Validate() error {
	if p.Title != nil {
		if err := requireText("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := requireText("content", *p.Content); err != nil {
			return err
		}
	}
	if p.Category != nil {
		return requireCategory(*p.Category)
	}
	return nil
}

// Validate はNewMediaを検証する。
func (m NewMedia) Validate() error {
	if err := firstError(
		requireText("title", m.Title),
		requireText("description", m.Description),
		requireText("url", m.URL),
		requireText("category", m.Category),
	); err != nil {
		return err
	}
	if !m.Type.Valid() {
		return NewValidationError("type", fmt.Sprintf("は video または audio です: %q", m.Type))
	}
	return requireMediaDuration(m.Duration, m.DurationSeconds)
}

// Validate はMediaPatchの指定フィールドのみを検証する。
func (p MediaPatch) Validate() error {
	texts := []struct {
		field string
		value *string
	}{
		{"title", p.Title},
		{"description", p.Description},
		{"url", p.URL},
		{"category", p.Category},
	}
	for _, f := range texts {
		if f.value == nil {
			continue
		}
		if err := requireText(f.field, *f.value); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return NewValidationError("type", fmt.Sprintf("は video または audio です: %q", *p.Type))
	}
	if p.Duration != nil && !durationPattern.MatchString(*p.Duration) {
		return NewValidationError("duration", fmt.Sprintf("は M:SS 形式です: %q", *p.Duration))
	}
	if p.DurationSeconds != nil && *p.DurationSeconds < 0 {
		return NewValidationError("durationSeconds", "は0以上です")
	}
	return nil
}

// Validate はNewContactMessageを検証する。
func (c NewContactMessage) Validate() error {
	return firstError(
		requireText("name", c.Name),
		requireEmail("email", c.Email),
		requireText("message", c.Message),
	)
}

// Validate はNewSubscriberを検証する。
func (s NewSubscriber) Validate() error {
	return requireEmail("email", s.Email)
}

// Validate はNewUserを検証する。
func (u NewUser) Validate() error {
	return firstError(
		requireText("username", u.Username),
		requireText("password", u.Password),
	)
}

// Validate はNewChallengeを検証する。
func (c NewChallenge) Validate() error {
	return firstError(
		requireText("title", c.Title),
		requireText("description", c.Description),
		requireCategory(c.Category),
		requireDifficulty(c.Difficulty),
		requireDuration(c.Duration),
		requireSteps(c.Steps),
	)
}

// Validate はChallengePatchの指定フィールドのみを検証する。
func (p ChallengePatch) Validate() error {
	if p.Title != nil {
		if err := requireText("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := requireText("description", *p.Description); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := requireCategory(*p.Category); err != nil {
			return err
		}
	}
	if p.Difficulty != nil {
		if err := requireDifficulty(*p.Difficulty); err != nil {
			return err
		}
	}
	if p.Duration != nil {
		if err := requireDuration(*p.Duration); err != nil {
			return err
		}
	}
	return requireSteps(p.Steps)
}

// Normalize は前後の空白を除去し、空の興味・目標を取り除いた入力を返す。
func (in ChallengeInput) Normalize() ChallengeInput {
	in.Interests = compactStrings(in.Interests)
	in.Goals = compactStrings(in.Goals)
	return in
}

// Validate はChallengeInputを検証する。生成処理の前に必ず呼び出す。
// 空白のみの興味・目標は存在しないものとして扱う。
func (in ChallengeInput) Validate() error {
	n := in.Normalize()
	if len(n.Interests) == 0 {
		return NewValidationError("interests", "は1件以上必要です")
	}
	if len(n.Goals) == 0 {
		return NewValidationError("goals", "は1件以上必要です")
	}
	return firstError(
		requireDifficulty(in.Difficulty),
		requireDuration(in.Duration),
		requireCategory(in.Category),
	)
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
