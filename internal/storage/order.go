package storage

import (
	"cmp"
	"slices"
	"time"

	"github.com/hitoshi/soulelevate/internal/model"
)

// newestFirst は作成日時の降順、同時刻はID降順で比較する。
func newestFirst(at, bt time.Time, aID, bID int64) int {
	if c := bt.Compare(at); c != 0 {
		return c
	}
	return cmp.Compare(bID, aID)
}

// SortQuotes は名言を新しい順に並べ替える。
func SortQuotes(qs []model.Quote) {
	slices.SortStableFunc(qs, func(a, b model.Quote) int {
		return newestFirst(a.AddedDate, b.AddedDate, a.ID, b.ID)
	})
}

// SortTips はヒントを新しい順に並べ替える。
func SortTips(ts []model.Tip) {
	slices.SortStableFunc(ts, func(a, b model.Tip) int {
		return newestFirst(a.AddedDate, b.AddedDate, a.ID, b.ID)
	})
}

// SortMedia はメディアを新しい順に並べ替える。
func SortMedia(ms []model.Media) {
	slices.SortStableFunc(ms, func(a, b model.Media) int {
		return newestFirst(a.AddedDate, b.AddedDate, a.ID, b.ID)
	})
}

// SortContactMessages はお問い合わせを新しい順に並べ替える。
func SortContactMessages(cs []model.ContactMessage) {
	slices.SortStableFunc(cs, func(a, b model.ContactMessage) int {
		return newestFirst(a.AddedDate, b.AddedDate, a.ID, b.ID)
	})
}

// SortSubscribers は購読者を購読日時の新しい順に並べ替える。
func SortSubscribers(ss []model.Subscriber) {
	slices.SortStableFunc(ss, func(a, b model.Subscriber) int {
		return newestFirst(a.SubscriptionDate, b.SubscriptionDate, a.ID, b.ID)
	})
}

// SortChallenges はチャレンジを新しい順に並べ替える。
func SortChallenges(cs []model.Challenge) {
	slices.SortStableFunc(cs, func(a, b model.Challenge) int {
		return newestFirst(a.AddedDate, b.AddedDate, a.ID, b.ID)
	})
}
