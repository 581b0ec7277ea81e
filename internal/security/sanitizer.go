// Package security はアプリケーションのセキュリティ機能を提供する。
//
// 利用者が送信する自由記述（お問い合わせ本文、チャレンジ生成の興味・目標など）は
// bluemondayのStrictPolicyでマークアップを除去し、プレーンテキストとして保存する。
package security

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses はエスケープ済みマークアップを剥がす最大反復回数。
// 1回の反復で剥がせるエスケープは1段なので、これを超える多重エスケープはエスケープ済みのまま返す。
const maxSanitizePasses = 32

// TextSanitizer は自由記述のサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// SanitizeText はHTMLタグを除去し、前後の空白を落としたプレーンテキストを返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// SanitizeText はHTMLタグを除去したプレーンテキストを返す。
// StrictPolicyは残った文字をHTMLエスケープするため、保存前にアンエスケープする。
// アンエスケープでタグが現れた場合は変化がなくなるまで除去を繰り返す。
func (s *textSanitizer) SanitizeText(raw string) string {
	text := raw
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	// 反復上限に達した場合、生のマークアップを返さないようエスケープしたまま返す
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// SanitizeAll はスライスの各要素をサニタイズし、空になった要素を取り除く。
func SanitizeAll(s TextSanitizer, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if clean := s.SanitizeText(v); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// ValidateMediaURL はメディアのURLがhttpまたはhttpsの絶対URLであることを検証する。
// javascript: や data: などのスキームは拒否する。
func ValidateMediaURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URLが空です")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("URLの解析に失敗しました: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("許可されていないスキームです: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("ホストが指定されていません: %q", raw)
	}
	return nil
}
