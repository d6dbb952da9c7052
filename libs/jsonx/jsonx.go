package jsonx

import (
	"reflect"

	"github.com/json-iterator/go"
)

var _jsonx = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	Marshal       = _jsonx.Marshal
	Unmarshal     = _jsonx.Unmarshal
	MarshalIndent = _jsonx.MarshalIndent
	NewEncoder    = _jsonx.NewEncoder
	NewDecoder    = _jsonx.NewDecoder
)

func init() {
	// 64bit integers are out of the safe integer range of javascript clients.
	jsoniter.RegisterExtension(newIntegerExtension(reflect.Int64, reflect.Uint64))
	// snake_case → camelCase
	jsoniter.RegisterExtension(&camelCaseExtension{})
}
