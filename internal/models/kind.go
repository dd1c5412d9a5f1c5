package models

// Kind represents where a bound parameter value is read from
type Kind int

const (
	KindQuery Kind = iota
	KindPath
	KindHeader
	KindBody
	KindFormData
)

// String returns the document representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindQuery:
		return "query"
	case KindHeader:
		return "header"
	case KindBody:
		return "body"
	case KindFormData:
		return "formData"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CollectionFormat describes how a collection parameter is serialized
type CollectionFormat int

const (
	CollectionFormatNone CollectionFormat = iota
	CollectionFormatMulti
)

// String returns the document representation of the collection format
func (c CollectionFormat) String() string {
	if c == CollectionFormatMulti {
		return "multi"
	}
	return ""
}

// TypeKind is the structural classification reported by the type oracle
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypeArray
	TypeFile
	TypeFileArray
	TypeComplex
)

// String returns the string representation of the type kind
func (t TypeKind) String() string {
	switch t {
	case TypePrimitive:
		return "primitive"
	case TypeArray:
		return "array"
	case TypeFile:
		return "file"
	case TypeFileArray:
		return "fileArray"
	case TypeComplex:
		return "complex"
	default:
		return "unknown"
	}
}
