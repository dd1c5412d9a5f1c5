package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/axonbind/internal/errors"
)

// annotation is the participle grammar root
type annotation struct {
	Type  string      `parser:"Comment Prefix @Ident"`
	Args  []string    `parser:"@(Path | String | Number | Ident)*"`
	Flags []*flagNode `parser:"@@*"`
}

type flagNode struct {
	Name  string  `parser:"Dash @Ident"`
	Value *string `parser:"( Equals @(String | Path | Number | Ident) )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Prefix", Pattern: `axon::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser parses //axon:: comments
type Parser struct {
	parser *participle.Parser[annotation]
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		parser: participle.MustBuild[annotation](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
	}
}

// IsAnnotation reports whether a comment line is an axon annotation
func IsAnnotation(comment string) bool {
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(content, "axon::")
}

// ParseAnnotation parses a single annotation comment
func (p *Parser) ParseAnnotation(comment string, location errors.SourceLocation) (*ParsedAnnotation, error) {
	raw := strings.TrimSpace(comment)
	ast, err := p.parser.ParseString(location.File, raw)
	if err != nil {
		return nil, errors.NewSyntaxError(raw, err).WithLocation(location)
	}

	annotationType, err := ParseAnnotationType(ast.Type)
	if err != nil {
		return nil, errors.NewSyntaxError(raw, err).WithLocation(location)
	}

	parsed := &ParsedAnnotation{
		Type:     annotationType,
		Location: location,
		Raw:      raw,
	}
	if len(ast.Args) > 0 {
		parsed.Args = ast.Args
	}
	for _, f := range ast.Flags {
		item := Flag{Name: f.Name}
		if f.Value != nil {
			item.Value = *f.Value
			item.HasValue = true
		}
		parsed.Flags = append(parsed.Flags, item)
	}

	return parsed, nil
}
