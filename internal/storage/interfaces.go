// Package storage はコンテンツ永続化のインターフェースを定義する。
//
// 実装はinternal/storage/<backend>/に置く（memory, postgres, mongo）。
// プロセスは起動時に選択した1つの実装だけを使い、実行中に切り替えない。
//
// 共通の契約:
//   - 取得系で該当なしの場合は (nil, nil) を返す。エラーにはしない
//   - 一覧は作成日時の新しい順（同時刻はID降順）で返す
//   - featured=trueを設定するcreate/updateの後、スコープ内のfeaturedは必ず1件になる
//     （Quoteは全体、Mediaはtypeごと）
//   - 存在しないIDへのupdateは (nil, nil) を返し、レコードを作成しない
//   - deleteはレコードが存在し削除できた場合のみtrueを返す
//   - タイムアウトとキャンセルは呼び出し元がctxで制御する
package storage

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/model"
)

// UserStore はユーザーの永続化インターフェース。
type UserStore interface {
	// GetUser は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	GetUser(ctx context.Context, id int64) (*model.User, error)
	// GetUserByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// CreateUser はユーザーを作成する。ユーザー名の重複はErrDuplicateを含むエラーになる。
	CreateUser(ctx context.Context, in model.NewUser) (*model.User, error)
}

// QuoteStore は名言の永続化インターフェース。
type QuoteStore interface {
	// GetAllQuotes は全名言を新しい順で返す。
	GetAllQuotes(ctx context.Context) ([]model.Quote, error)
	// GetQuoteByID は指定IDの名言を取得する。見つからない場合はnilを返す。
	GetQuoteByID(ctx context.Context, id int64) (*model.Quote, error)
	// GetFeaturedQuote は注目の名言を返す。
	// 注目の名言がない場合は既存の名言（最も新しいもの）で代替し、1件もなければnilを返す。
	GetFeaturedQuote(ctx context.Context) (*model.Quote, error)
	// CreateQuote は名言を作成する。featured=trueなら他の名言の注目を解除する。
	CreateQuote(ctx context.Context, in model.NewQuote) (*model.Quote, error)
	// UpdateQuote は名言を部分更新する。見つからない場合はnilを返す。
	UpdateQuote(ctx context.Context, id int64, patch model.QuotePatch) (*model.Quote, error)
	// DeleteQuote は名言を削除する。存在した場合のみtrueを返す。
	DeleteQuote(ctx context.Context, id int64) (bool, error)
}

// TipStore はヒントの永続化インターフェース。
type TipStore interface {
	GetAllTips(ctx context.Context) ([]model.Tip, error)
	GetTipByID(ctx context.Context, id int64) (*model.Tip, error)
	// GetTipsByCategory は指定カテゴリのヒントを新しい順で返す。
	GetTipsByCategory(ctx context.Context, category model.Category) ([]model.Tip, error)
	CreateTip(ctx context.Context, in model.NewTip) (*model.Tip, error)
	UpdateTip(ctx context.Context, id int64, patch model.TipPatch) (*model.Tip, error)
	DeleteTip(ctx context.Context, id int64) (bool, error)
}

// MediaStore はメディアの永続化インターフェース。
// featuredの一意性はtypeごとに適用される。
type MediaStore interface {
	GetAllMedia(ctx context.Context) ([]model.Media, error)
	GetMediaByID(ctx context.Context, id int64) (*model.Media, error)
	// GetMediaByType は指定typeのメディアを新しい順で返す。
	GetMediaByType(ctx context.Context, mediaType model.MediaType) ([]model.Media, error)
	// GetFeaturedMedia は指定typeの注目メディアを返す。
	// 注目がない場合は同じtypeの既存メディアで代替し、1件もなければnilを返す。
	GetFeaturedMedia(ctx context.Context, mediaType model.MediaType) (*model.Media, error)
	// CreateMedia はメディアを作成する。featured=trueなら同じtypeの他メディアの注目を解除する。
	CreateMedia(ctx context.Context, in model.NewMedia) (*model.Media, error)
	UpdateMedia(ctx context.Context, id int64, patch model.MediaPatch) (*model.Media, error)
	DeleteMedia(ctx context.Context, id int64) (bool, error)
}

// ContactStore はお問い合わせメッセージの永続化インターフェース。
type ContactStore interface {
	CreateContactMessage(ctx context.Context, in model.NewContactMessage) (*model.ContactMessage, error)
	GetAllContactMessages(ctx context.Context) ([]model.ContactMessage, error)
}

// SubscriberStore はニュースレター購読者の永続化インターフェース。
type SubscriberStore interface {
	// AddSubscriber は購読者を登録する。
	// 同じemailが既に登録済みの場合は既存レコードを返す（冪等）。
	AddSubscriber(ctx context.Context, in model.NewSubscriber) (*model.Subscriber, error)
	// GetAllSubscribers は全購読者を購読日時の新しい順で返す。
	GetAllSubscribers(ctx context.Context) ([]model.Subscriber, error)
}

// ChallengeCreator はチャレンジ作成のプリミティブ。
// パーソナライズ生成もこのプリミティブを通して永続化する。
type ChallengeCreator interface {
	CreateChallenge(ctx context.Context, in model.NewChallenge) (*model.Challenge, error)
}

// ChallengeStore はチャレンジの永続化インターフェース。
type ChallengeStore interface {
	ChallengeCreator
	GetAllChallenges(ctx context.Context) ([]model.Challenge, error)
	GetChallengeByID(ctx context.Context, id int64) (*model.Challenge, error)
	GetChallengesByCategory(ctx context.Context, category model.Category) ([]model.Challenge, error)
	UpdateChallenge(ctx context.Context, id int64, patch model.ChallengePatch) (*model.Challenge, error)
	DeleteChallenge(ctx context.Context, id int64) (bool, error)
	// GeneratePersonalizedChallenge は入力を検証し、テンプレートからチャレンジを合成して保存する。
	// 検証に失敗した場合は生成前にバリデーションエラーを返す。
	GeneratePersonalizedChallenge(ctx context.Context, in model.ChallengeInput) (*model.Challenge, error)
}

// Storage はアプリケーションが利用する永続化インターフェース全体。
type Storage interface {
	UserStore
	QuoteStore
	TipStore
	MediaStore
	ContactStore
	SubscriberStore
	ChallengeStore

	// Ping はバックエンドへの疎通を確認する。ヘルスチェックで使用する。
	Ping(ctx context.Context) error
	// Close はバックエンドとの接続を解放する。
	Close(ctx context.Context) error
}
