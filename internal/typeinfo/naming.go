package typeinfo

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/toyz/axonbind/internal/models"
)

// PropertyName applies the naming policy to a struct field
func PropertyName(field string, tag reflect.StructTag, handling models.PropertyNameHandling) string {
	switch handling {
	case models.PropertyNameCamel:
		return CamelCase(field)
	case models.PropertyNameSnake:
		return SnakeCase(field)
	case models.PropertyNameField:
		return field
	default:
		if name := tagName(tag.Get("json")); name != "" {
			return name
		}
		return field
	}
}

// CamelCase lowercases the leading word of a Go identifier: ID -> id, UserID -> userID
func CamelCase(s string) string {
	runes := []rune(s)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		// Keep the first letter of the next word upper case
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// SnakeCase converts a Go identifier to snake_case: UserID -> user_id, HTTPStatus -> http_status
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tagName returns the name part of a tag value like "name,omitempty"
func tagName(value string) string {
	name, _, _ := strings.Cut(value, ",")
	if name == "-" {
		return ""
	}
	return name
}

func requiredTag(tag reflect.StructTag) bool {
	for _, key := range []string{"validate", "binding"} {
		for rule := range strings.SplitSeq(tag.Get(key), ",") {
			if strings.TrimSpace(rule) == "required" {
				return true
			}
		}
	}
	return false
}
