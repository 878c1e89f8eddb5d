package enum

import (
	"fmt"
	"reflect"
)

var registry = map[reflect.Type]any{}

type enum[T ~string] struct {
	byValue map[string]T
	ordered []T
}

// New 注册一个枚举值，只应在包初始化阶段调用
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)
	e, ok := registry[t].(*enum[T])
	if !ok {
		e = &enum[T]{byValue: make(map[string]T)}
		registry[t] = e
	}
	if _, exists := e.byValue[string(value)]; !exists {
		e.byValue[string(value)] = value
		e.ordered = append(e.ordered, value)
	}
	return value
}

func lookup[T ~string]() (*enum[T], bool) {
	var zero T
	e, ok := registry[reflect.TypeOf(zero)].(*enum[T])
	return e, ok
}

// ToEnum 将存储/请求中的字符串解析为枚举值
func ToEnum[T ~string](s string) (T, error) {
	var zero T
	e, ok := lookup[T]()
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}
	v, ok := e.byValue[s]
	if !ok {
		return zero, fmt.Errorf("not found value %q in enum %T", s, zero)
	}
	return v, nil
}

func IsValid[T ~string](v T) bool {
	e, ok := lookup[T]()
	if !ok {
		return false
	}
	_, ok = e.byValue[string(v)]
	return ok
}

// Values 按注册顺序返回全部取值
func Values[T ~string]() []T {
	e, ok := lookup[T]()
	if !ok {
		return nil
	}
	out := make([]T, len(e.ordered))
	copy(out, e.ordered)
	return out
}
