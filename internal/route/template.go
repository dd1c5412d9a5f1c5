package route

import (
	"iter"
	"strings"
)

// Placeholder is a single {name} or {name:constraint} segment of a route template
type Placeholder struct {
	Name          string // placeholder name, trailing '?' removed
	Constraint    string // constraint text after the first ':'
	HasConstraint bool
	Optional      bool   // name carried a trailing '?'
	Raw           string // the full placeholder text including braces
	Start, End    int    // byte offsets of Raw within the template
}

// Placeholders returns a lazy sequence over every well-formed placeholder in
// template order. The sequence can be ranged over any number of times.
// An opening brace without a matching closing brace, or with another opening
// brace before it, does not produce a placeholder.
func Placeholders(template string) iter.Seq[Placeholder] {
	return func(yield func(Placeholder) bool) {
		i := 0
		for i < len(template) {
			open := strings.IndexByte(template[i:], '{')
			if open == -1 {
				return
			}
			open += i

			closeIdx := strings.IndexByte(template[open+1:], '}')
			if closeIdx == -1 {
				return
			}
			closeIdx += open + 1

			content := template[open+1 : closeIdx]
			if nested := strings.IndexByte(content, '{'); nested != -1 {
				// Malformed region, resume scanning at the inner brace
				i = open + 1 + nested
				continue
			}

			ph, ok := parsePlaceholder(content)
			if ok {
				ph.Raw = template[open : closeIdx+1]
				ph.Start = open
				ph.End = closeIdx + 1
				if !yield(ph) {
					return
				}
			}
			i = closeIdx + 1
		}
	}
}

// parsePlaceholder splits placeholder content into name and constraint
func parsePlaceholder(content string) (Placeholder, bool) {
	name, constraint, hasConstraint := strings.Cut(content, ":")
	ph := Placeholder{
		Constraint:    constraint,
		HasConstraint: hasConstraint,
	}
	if strings.HasSuffix(name, "?") {
		ph.Optional = true
		name = strings.TrimSuffix(name, "?")
	}
	ph.Name = name
	if strings.TrimSpace(name) == "" {
		return Placeholder{}, false
	}
	return ph, true
}

// HasPlaceholder reports whether template contains {name} or {name:...},
// comparing names case-insensitively.
func HasPlaceholder(template, name string) bool {
	lower := strings.ToLower(template)
	key := "{" + strings.ToLower(name)
	return strings.Contains(lower, key+"}") || strings.Contains(lower, key+":")
}

// Rewrite replaces each placeholder with {name} when keep reports true and
// removes it otherwise, then trims trailing separators. Rewriting an already
// rewritten template with the same predicate returns it unchanged.
func Rewrite(template string, keep func(name string) bool) string {
	var b strings.Builder
	b.Grow(len(template))

	last := 0
	for ph := range Placeholders(template) {
		b.WriteString(template[last:ph.Start])
		if keep(ph.Name) {
			b.WriteString("{" + ph.Name + "}")
		}
		last = ph.End
	}
	b.WriteString(template[last:])

	return strings.TrimRight(b.String(), "/")
}

// TypeHint maps a placeholder constraint to a schema type hint. Unknown,
// empty or malformed constraints map to "string".
func TypeHint(constraint string) string {
	name := constraint
	if i := strings.IndexAny(name, "(:"); i != -1 {
		name = name[:i]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range name {
		if r < 'a' || r > 'z' {
			return "string"
		}
	}

	switch name {
	case "int", "long", "integer", "int32", "int64", "min", "max", "range":
		return "integer"
	case "bool", "boolean":
		return "boolean"
	case "decimal", "double", "float", "number":
		return "number"
	case "guid", "uuid":
		return "uuid"
	case "datetime":
		return "date-time"
	default:
		return "string"
	}
}
