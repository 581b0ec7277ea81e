// Package mongo はMongoDBを使用したストレージ実装を提供する。
//
// 各エンティティは専用コレクションに保存し、整数IDはcountersコレクションで採番する。
// 注目フラグの付け替えはトランザクションを使わずに「他を解除してから書き込む」順で行う。
// 同時に書き込まれた場合は部分ユニークインデックスが2件目を重複エラーとして拒否する。
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hitoshi/soulelevate/internal/storage"
)

// コレクション名。
const (
	collUsers       = "users"
	collQuotes      = "quotes"
	collTips        = "tips"
	collMedia       = "media"
	collMessages    = "contact_messages"
	collSubscribers = "subscribers"
	collChallenges  = "challenges"
	collCounters    = "counters"
)

// newestFirst は一覧の並び順。
var newestFirst = bson.D{{Key: "addedDate", Value: -1}, {Key: "_id", Value: -1}}

// Store はstorage.StorageのMongoDB実装。
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
	now    func() time.Time
}

var _ storage.Storage = (*Store)(nil)

// Open はMongoDBに接続し、疎通確認とインデックス作成を行ってStoreを返す。
func Open(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := New(client, database, logger)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New は接続済みのクライアントからStoreを生成する。loggerがnilの場合はslog.Default()を使う。
func New(client *mongo.Client, database string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
		// BSONの日時はミリ秒精度のため、返却値と保存値を揃える
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureIndexes は一意制約と一覧用のインデックスを作成する。既に存在する場合は何もしない。
func (s *Store) EnsureIndexes(ctx context.Context) error {
	featuredOnly := bson.M{"featured": true}
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collSubscribers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collQuotes: {
			{Keys: bson.D{{Key: "featured", Value: -1}, {Key: "addedDate", Value: -1}}},
			{
				Keys:    bson.D{{Key: "featured", Value: 1}},
				Options: options.Index().SetName("featured_unique").SetUnique(true).SetPartialFilterExpression(featuredOnly),
			},
		},
		collMedia: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "featured", Value: -1}, {Key: "addedDate", Value: -1}}},
			{
				Keys:    bson.D{{Key: "type", Value: 1}},
				Options: options.Index().SetName("featured_type_unique").SetUnique(true).SetPartialFilterExpression(featuredOnly),
			},
		},
		collTips: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "addedDate", Value: -1}}},
		},
		collChallenges: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "addedDate", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Ping はMongoDBへの疎通を確認する。
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close は接続を切断する。
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// nextID はcountersコレクションで次のIDを採番する。削除されたIDは再利用しない。
func (s *Store) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("IDの採番に失敗しました: %w", err)
	}
	return counter.Seq, nil
}

// fail はバックエンド障害をログに記録してBackendErrorを返す。重複キーはErrDuplicateに変換する。
func (s *Store) fail(op, entity string, id int64, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		err = fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
	}
	return storage.Fail(s.logger, op, entity, id, err)
}

// findOne はfilterに一致する1件をデコードする。見つからない場合はfalseを返す。
func (s *Store) findOne(ctx context.Context, coll string, filter any, out any, opts ...*options.FindOneOptions) (bool, error) {
	err := s.db.Collection(coll).FindOne(ctx, filter, opts...).Decode(out)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// findAll はfilterに一致する全件を新しい順でデコードする。
func findAll[T any](ctx context.Context, s *Store, coll string, filter any) ([]T, error) {
	cur, err := s.db.Collection(coll).Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	docs := []T{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// updateByID は$setを適用して更新後のドキュメントをデコードする。
// setが空の場合は現在のドキュメントを返す。見つからない場合はfalseを返す。
func (s *Store) updateByID(ctx context.Context, coll string, id int64, set bson.M, out any) (bool, error) {
	if len(set) == 0 {
		return s.findOne(ctx, coll, bson.M{"_id": id}, out)
	}
	err := s.db.Collection(coll).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(out)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// deleteByID はIDで1件削除し、削除できたかを返す。
func (s *Store) deleteByID(ctx context.Context, coll, entity string, id int64) (bool, error) {
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, s.fail("delete", entity, id, err)
	}
	return res.DeletedCount > 0, nil
}
