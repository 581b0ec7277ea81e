package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidID         = "INVALID_ID"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidMediaType  = "INVALID_MEDIA_TYPE"
	ErrCodeInvalidCategory   = "INVALID_CATEGORY"
	ErrCodeQuoteNotFound     = "QUOTE_NOT_FOUND"
	ErrCodeTipNotFound       = "TIP_NOT_FOUND"
	ErrCodeMediaNotFound     = "MEDIA_NOT_FOUND"
	ErrCodeChallengeNotFound = "CHALLENGE_NOT_FOUND"
	ErrCodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// IsValidationError はerrがバリデーション失敗を表すかを返す。
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == ErrCodeValidationFailed
}

// NewValidationError は入力値のバリデーションエラーを生成する。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s %s", field, reason),
		Category: "validation",
		Action:   "入力内容を確認して再度送信してください。",
	}
}

// NewInvalidIDError は不正なID指定エラーを生成する。
func NewInvalidIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("無効なIDです: %s", raw),
		Category: "validation",
		Action:   "IDには正の整数を指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewInvalidMediaTypeError は不正なメディア種別エラーを生成する。
func NewInvalidMediaTypeError(mediaType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMediaType,
		Message:  fmt.Sprintf("無効なメディア種別です: %s", mediaType),
		Category: "validation",
		Action:   "メディア種別には video または audio を指定してください。",
	}
}

// NewInvalidCategoryError は不正なカテゴリエラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("無効なカテゴリです: %s", category),
		Category: "validation",
		Action:   "カテゴリには Productivity、Mindset、Health、Success のいずれかを指定してください。",
	}
}

// NewQuoteNotFoundError は名言未検出エラーを生成する。
func NewQuoteNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeQuoteNotFound,
		Message:  "名言が見つかりません。",
		Category: "content",
		Action:   "名言IDを確認してください。",
	}
}

// NewTipNotFoundError はヒント未検出エラーを生成する。
func NewTipNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeTipNotFound,
		Message:  "ヒントが見つかりません。",
		Category: "content",
		Action:   "ヒントIDを確認してください。",
	}
}

// NewMediaNotFoundError はメディア未検出エラーを生成する。
func NewMediaNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeMediaNotFound,
		Message:  "メディアが見つかりません。",
		Category: "content",
		Action:   "メディアIDまたは種別を確認してください。",
	}
}

// NewChallengeNotFoundError はチャレンジ未検出エラーを生成する。
func NewChallengeNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeChallengeNotFound,
		Message:  "チャレンジが見つかりません。",
		Category: "content",
		Action:   "チャレンジIDを確認してください。",
	}
}

// NewRateLimitError はレート制限超過エラーを生成する。
func NewRateLimitError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "Retry-Afterの秒数だけ待ってから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。原因はログにのみ記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
