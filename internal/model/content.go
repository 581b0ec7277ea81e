package model

import "time"

// Quote は名言を表す。
// featured=trueのQuoteは常に最大1件。
type Quote struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Featured  bool      `json:"featured"`
	AddedDate time.Time `json:"addedDate"`
}

// NewQuote はQuote作成時の入力。
type NewQuote struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Featured bool   `json:"featured"`
}

// QuotePatch はQuoteの部分更新。nilのフィールドは既存値を維持する。
type QuotePatch struct {
	Text     *string `json:"text,omitempty"`
	Author   *string `json:"author,omitempty"`
	Featured *bool   `json:"featured,omitempty"`
}

// Apply はパッチをQuoteにマージした結果を返す。
func (p QuotePatch) Apply(q Quote) Quote {
	if p.Text != nil {
		q.Text = *p.Text
	}
	if p.Author != nil {
		q.Author = *p.Author
	}
	if p.Featured != nil {
		q.Featured = *p.Featured
	}
	return q
}

// SetsFeatured はパッチがfeatured=trueを設定するかを返す。
func (p QuotePatch) SetsFeatured() bool {
	return p.Featured != nil && *p.Featured
}

// Tip は自己啓発のヒントを表す。
type Tip struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	AddedDate time.Time `json:"addedDate"`
}

// NewTip はTip作成時の入力。
type NewTip struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
}

// TipPatch はTipの部分更新。
type TipPatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// Apply はパッチをTipにマージした結果を返す。
func (p TipPatch) Apply(t Tip) Tip {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	return t
}

// ContactMessage はお問い合わせメッセージを表す。
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	AddedDate time.Time `json:"addedDate"`
}

// NewContactMessage はContactMessage作成時の入力。
type NewContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Subscriber はニュースレター購読者を表す。emailは一意。
type Subscriber struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
}

// NewSubscriber は購読登録時の入力。
type NewSubscriber struct {
	Email string `json:"email"`
}

// User はユーザーを表す。usernameは一意。
// ストレージ層にのみ存在し、認証フローは提供しない。
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// NewUser はUser作成時の入力。
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
