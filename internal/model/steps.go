package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// NormalizeSteps はチャレンジのstepsを順序付き文字列スライスに正規化する。
// ストレージ境界の読み書きすべてで使用する唯一の正規化関数。
//
//   - nil は空スライス（nilではない）を返す
//   - スライス・配列は要素を順に文字列化する
//   - 数値キーのマップ（{"0":"a","1":"b"}）はキーの数値順に値を並べる
//   - JSON配列・オブジェクトを保持する文字列はデコードしてから正規化する
//   - それ以外のスカラー値は空スライスを返す
//
// エラーは返さない。不正な形状は常にこの関数で回復する。
func NormalizeSteps(v any) []string {
	steps := []string{}
	if v == nil {
		return steps
	}

	switch t := v.(type) {
	case []string:
		return append(steps, t...)
	case string:
		trimmed := strings.TrimSpace(t)
		if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
			return steps
		}
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return steps
		}
		return NormalizeSteps(decoded)
	case []byte:
		return NormalizeSteps(string(t))
	case json.RawMessage:
		return NormalizeSteps(string(t))
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return steps
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			steps = append(steps, stepString(rv.Index(i)))
		}
	case reflect.Map:
		keys := rv.MapKeys()
		type entry struct {
			key string
			val reflect.Value
		}
		entries := make([]entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, entry{key: fmt.Sprint(k.Interface()), val: rv.MapIndex(k)})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return stepKeyLess(entries[i].key, entries[j].key)
		})
		for _, e := range entries {
			steps = append(steps, stepString(e.val))
		}
	}

	return steps
}

// stepString は1要素を文字列化する。nilは空文字列になる。
func stepString(v reflect.Value) string {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

// stepKeyLess は数値キーを数値順で先に、それ以外のキーを辞書順で後に並べる。
func stepKeyLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
