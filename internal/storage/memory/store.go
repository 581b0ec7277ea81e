// Package memory はマップベースのインメモリストレージ実装を提供する。
//
// 他のバックエンドが再現すべき意味論の基準実装であり、ローカル開発でも使用する。
// 全コレクションとIDカウンタを1つのRWMutexで保護するため、
// ID採番とfeaturedの付け替えは並行呼び出しに対してアトミックに行われる。
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
	"github.com/hitoshi/soulelevate/internal/storage/seed"
)

// counters はエンティティごとのIDカウンタ。削除後もIDは再利用しない。
type counters struct {
	user, quote, tip, media, message, subscriber, challenge int64
}

// Store はstorage.Storageのインメモリ実装。
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users       map[int64]model.User
	quotes      map[int64]model.Quote
	tips        map[int64]model.Tip
	media       map[int64]model.Media
	messages    map[int64]model.ContactMessage
	subscribers map[int64]model.Subscriber
	challenges  map[int64]model.Challenge

	next counters
}

var _ storage.Storage = (*Store)(nil)

// Option はStoreの生成オプション。
type Option func(*Store)

// WithClock は作成日時の採番に使う時計を差し替える。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New はシードデータを投入済みのStoreを生成する。
// シードの投入に失敗した場合はシードデータ自体の不備なのでpanicする。
func New(opts ...Option) *Store {
	s := NewEmpty(opts...)
	if _, err := seed.Apply(context.Background(), s); err != nil {
		panic(fmt.Sprintf("memory: failed to apply seed data: %v", err))
	}
	return s
}

// NewEmpty はシードデータなしのStoreを生成する。
func NewEmpty(opts ...Option) *Store {
	s := &Store{
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[int64]model.User),
		quotes:      make(map[int64]model.Quote),
		tips:        make(map[int64]model.Tip),
		media:       make(map[int64]model.Media),
		messages:    make(map[int64]model.ContactMessage),
		subscribers: make(map[int64]model.Subscriber),
		challenges:  make(map[int64]model.Challenge),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping は常に成功する。
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close は何もしない。
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// GetUser は指定IDのユーザーを取得する。
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByUsername はユーザー名でユーザーを検索する。
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// CreateUser はユーザーを作成する。ユーザー名が重複する場合はErrDuplicateを返す。
func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, &storage.BackendError{Op: "create", Entity: "user", Err: storage.ErrDuplicate}
		}
	}

	s.next.user++
	u := model.User{ID: s.next.user, Username: in.Username, Password: in.Password}
	s.users[u.ID] = u
	return &u, nil
}
