package markers

import "strings"

// Kind identifies a binding marker variant
type Kind int

const (
	Body Kind = iota
	Query
	Route
	Header
	Binding      // framework-custom parameter binding
	WillReadBody // paired with Binding, declares whether the binder consumes the body
	Ignore
	NeverBind
)

// String returns the string representation of the marker kind
func (k Kind) String() string {
	switch k {
	case Body:
		return "body"
	case Query:
		return "query"
	case Route:
		return "route"
	case Header:
		return "header"
	case Binding:
		return "binding"
	case WillReadBody:
		return "will_read_body"
	case Ignore:
		return "ignore"
	case NeverBind:
		return "never_bind"
	default:
		return "unknown"
	}
}

// ParseKind converts a marker name to its Kind. Matching is case-insensitive
// and accepts the common aliases used by host frameworks.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "body", "frombody":
		return Body, true
	case "query", "fromquery", "uri", "fromuri":
		return Query, true
	case "route", "path", "fromroute", "param", "params":
		return Route, true
	case "header", "fromheader":
		return Header, true
	case "binding", "binder":
		return Binding, true
	case "willreadbody", "will_read_body":
		return WillReadBody, true
	case "ignore", "swaggerignore":
		return Ignore, true
	case "neverbind", "never_bind", "bindnever", "services", "fromservices":
		return NeverBind, true
	default:
		return 0, false
	}
}

// Marker is a single binding annotation attached to a parameter or property
type Marker struct {
	Kind  Kind
	Name  string // optional override name
	Value *bool  // declared flag, only meaningful for WillReadBody
}

// Set is the ordered list of markers attached by a host adapter
type Set []Marker

// Has reports whether the set contains a marker of the given kind
func (s Set) Has(kind Kind) bool {
	for _, m := range s {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// First returns the first marker of the given kind, or nil
func (s Set) First(kind Kind) *Marker {
	for i := range s {
		if s[i].Kind == kind {
			return &s[i]
		}
	}
	return nil
}

// With returns a copy of the set with the given markers appended
func (s Set) With(extra ...Marker) Set {
	out := make(Set, 0, len(s)+len(extra))
	out = append(out, s...)
	return append(out, extra...)
}

// Extracted holds at most one marker of each recognized kind
type Extracted struct {
	Body         *Marker
	Query        *Marker
	Route        *Marker
	Header       *Marker
	Binding      *Marker
	WillReadBody *Marker
	Ignore       bool
	NeverBind    bool
}

// Extract picks the first marker of every kind. Duplicates are not an error.
func Extract(s Set) Extracted {
	return Extracted{
		Body:         s.First(Body),
		Query:        s.First(Query),
		Route:        s.First(Route),
		Header:       s.First(Header),
		Binding:      s.First(Binding),
		WillReadBody: s.First(WillReadBody),
		Ignore:       s.Has(Ignore),
		NeverBind:    s.Has(NeverBind),
	}
}

// Skipped reports whether the markers exclude the target from binding resolution
func (e Extracted) Skipped() bool {
	return e.Ignore || e.NeverBind
}

// ReadsBody returns the declared will-read-body flag, defaulting to true
// when the marker carries no explicit value.
func (e Extracted) ReadsBody() bool {
	if e.WillReadBody == nil || e.WillReadBody.Value == nil {
		return true
	}
	return *e.WillReadBody.Value
}

// EffectiveName returns the marker's override name if present, otherwise fallback
func EffectiveName(m *Marker, fallback string) string {
	if m != nil && m.Name != "" {
		return m.Name
	}
	return fallback
}

// Bool returns a pointer to b, used for WillReadBody values
func Bool(b bool) *bool {
	return &b
}
