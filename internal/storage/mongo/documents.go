package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/soulelevate/internal/model"
)

type userDoc struct {
	ID       int64  `bson:"_id"`
	Username string `bson:"username"`
	Password string `bson:"password"`
}

func (d userDoc) model() *model.User {
	return &model.User{ID: d.ID, Username: d.Username, Password: d.Password}
}

type quoteDoc struct {
	ID        int64     `bson:"_id"`
	Text      string    `bson:"text"`
	Author    string    `bson:"author"`
	Featured  bool      `bson:"featured"`
	AddedDate time.Time `bson:"addedDate"`
}

func (d quoteDoc) model() model.Quote {
	return model.Quote(d)
}

type tipDoc struct {
	ID        int64          `bson:"_id"`
	Title     string         `bson:"title"`
	Content   string         `bson:"content"`
	Category  model.Category `bson:"category"`
	AddedDate time.Time      `bson:"addedDate"`
}

func (d tipDoc) model() model.Tip {
	return model.Tip(d)
}

type mediaDoc struct {
	ID              int64           `bson:"_id"`
	Title           string          `bson:"title"`
	Description     string          `bson:"description"`
	Type            model.MediaType `bson:"type"`
	URL             string          `bson:"url"`
	Duration        string          `bson:"duration"`
	DurationSeconds int             `bson:"durationSeconds"`
	Thumbnail       string          `bson:"thumbnail"`
	Featured        bool            `bson:"featured"`
	Category        string          `bson:"category"`
	AddedDate       time.Time       `bson:"addedDate"`
}

func (d mediaDoc) model() model.Media {
	return model.Media(d)
}

type contactDoc struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Message   string    `bson:"message"`
	AddedDate time.Time `bson:"addedDate"`
}

func (d contactDoc) model() model.ContactMessage {
	return model.ContactMessage(d)
}

type subscriberDoc struct {
	ID               int64     `bson:"_id"`
	Email            string    `bson:"email"`
	SubscriptionDate time.Time `bson:"subscriptionDate"`
}

func (d subscriberDoc) model() model.Subscriber {
	return model.Subscriber(d)
}

// challengeDoc のstepsは過去のデータに配列以外の形式が含まれるため、生の値として読み込む。
type challengeDoc struct {
	ID          int64            `bson:"_id"`
	Title       string           `bson:"title"`
	Description string           `bson:"description"`
	Category    model.Category   `bson:"category"`
	Difficulty  model.Difficulty `bson:"difficulty"`
	Duration    int              `bson:"duration"`
	Steps       any              `bson:"steps"`
	AddedDate   time.Time        `bson:"addedDate"`
}

func (d challengeDoc) model() model.Challenge {
	return model.Challenge{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Difficulty:  d.Difficulty,
		Duration:    d.Duration,
		Steps:       model.NormalizeSteps(plainSteps(d.Steps)),
		AddedDate:   d.AddedDate,
	}
}

// plainSteps はBSON固有の型を正規化できる形に変換する。
// 埋め込みドキュメント（{"0": "a", "1": "b"}）はマップに、配列は要素ごとに変換する。
func plainSteps(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainSteps(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainSteps(e)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainSteps(e)
		}
		return out
	default:
		return v
	}
}
