package nullable

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Value is a column value that may be NULL. It scans like sql.Null and
// marshals to JSON null when invalid.
type Value[T any] struct {
	sql.Null[T]
}

// String and Int64 are the nullable column types used by the entity model.
type (
	String = Value[string]
	Int64  = Value[int64]
)

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.V, v.Valid = *new(T), false
		return nil
	}

	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}

	v.V = val
	v.Valid = true
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v Value[T]) IsNull() bool {
	return !v.Valid
}

func (v Value[T]) Ptr() *T {
	if v.Valid {
		return &v.V
	}

	return nil
}

func (v Value[T]) GetOrElse(value T) T {
	if v.Valid {
		return v.V
	}

	return value
}

func (v Value[T]) String() string {
	if !v.Valid {
		return "<nil>"
	}

	switch val := any(v.V).(type) {
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ValueFrom 创建 Valid=true 的 Value[T]
func ValueFrom[T any](s T) Value[T] {
	return Value[T]{Null: sql.Null[T]{V: s, Valid: true}}
}

// ValueFromPtr nil指针得到NULL
func ValueFromPtr[T any](s *T) Value[T] {
	if s == nil {
		return Value[T]{}
	}
	return ValueFrom(*s)
}

func StringFrom(s string) String {
	return ValueFrom(s)
}

func Int64From(i int64) Int64 {
	return ValueFrom(i)
}
