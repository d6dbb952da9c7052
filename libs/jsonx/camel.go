package jsonx

import (
	"strings"
	"unicode"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

type camelCaseExtension struct {
	jsoniter.DummyExtension
}

func (e *camelCaseExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		jsonTag := binding.Field.Tag().Get("json")
		if jsonTag == "-" {
			continue
		}

		tagName := binding.Field.Name()
		if jsonTag != "" {
			if name := strings.Split(jsonTag, ",")[0]; name != "" {
				tagName = name
			}
		}

		if strings.Contains(tagName, "_") || isFirstCharUpper(tagName) {
			camelName := toLowerFirstCamel(tagName)
			binding.ToNames = []string{camelName}
			// both names are accepted in decoding.
			binding.FromNames = []string{camelName, tagName}
		}
	}
}

func toLowerFirstCamel(s string) string {
	if s == "" {
		return s
	}
	if !strings.Contains(s, "_") {
		return strings.ToLower(s[:1]) + s[1:]
	}

	out := ""
	for _, p := range strings.Split(s, "_") {
		if p == "" {
			continue
		}
		if out == "" {
			out += strings.ToLower(p[:1]) + p[1:]
			continue
		}
		out += strings.ToUpper(p[:1]) + p[1:]
	}
	return out
}

func isFirstCharUpper(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
