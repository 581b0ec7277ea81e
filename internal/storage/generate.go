package storage

import (
	"context"

	"github.com/hitoshi/soulelevate/internal/challenge"
	"github.com/hitoshi/soulelevate/internal/model"
)

// GeneratePersonalizedChallenge は全実装共通のパーソナライズ生成処理。
// 入力を検証し、テンプレートから合成したチャレンジをcreatorのCreateChallengeで保存する。
// 保存に失敗した場合はそのエラーをそのまま返す。
func GeneratePersonalizedChallenge(ctx context.Context, creator ChallengeCreator, in model.ChallengeInput) (*model.Challenge, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return creator.CreateChallenge(ctx, challenge.Build(in))
}
