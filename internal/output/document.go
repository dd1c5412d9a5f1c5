// Package output assembles resolved operations into a Swagger 2.0 document
package output

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/resolver"
	"github.com/toyz/axonbind/internal/route"
)

// SwaggerVersion is the document format version written to "swagger"
const SwaggerVersion = "2.0"

// Info is the document's info object
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Document is a Swagger 2.0 document
type Document struct {
	Swagger     string                        `json:"swagger"`
	Info        Info                          `json:"info"`
	Paths       map[string]PathItem           `json:"paths"`
	Definitions map[string]*jsonschema.Schema `json:"definitions,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations
type PathItem map[string]*Operation

// Operation is one documented handler
type Operation struct {
	OperationID string       `json:"operationId"`
	Consumes    []string     `json:"consumes,omitempty"`
	Parameters  []*Parameter `json:"parameters"`
	Source      string       `json:"x-source,omitempty"`

	// Extensions holds vendor extensions such as x-echo-path
	Extensions map[string]string `json:"-"`
}

// MarshalJSON merges the vendor extensions into the operation object
func (o *Operation) MarshalJSON() ([]byte, error) {
	type plain Operation
	raw, err := json.Marshal((*plain)(o))
	if err != nil {
		return nil, err
	}
	if len(o.Extensions) == 0 {
		return raw, nil
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for key, value := range o.Extensions {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = encoded
	}
	return json.Marshal(fields)
}

// Parameter is a Swagger 2.0 parameter object
type Parameter struct {
	Name             string             `json:"name"`
	In               string             `json:"in"`
	Description      string             `json:"description,omitempty"`
	Required         bool               `json:"required"`
	Type             string             `json:"type,omitempty"`
	Format           string             `json:"format,omitempty"`
	Items            *jsonschema.Schema `json:"items,omitempty"`
	Enum             []any              `json:"enum,omitempty"`
	CollectionFormat string             `json:"collectionFormat,omitempty"`
	Default          any                `json:"default,omitempty"`
	Schema           *jsonschema.Schema `json:"schema,omitempty"`
	Nullable         bool               `json:"x-nullable,omitempty"`
}

// PathConverter renders a route template in a host framework's syntax
type PathConverter interface {
	Name() string
	RoutePath(template string) string
}

// NewDocument creates an empty document
func NewDocument(info Info) *Document {
	return &Document{
		Swagger: SwaggerVersion,
		Info:    info,
		Paths:   make(map[string]PathItem),
	}
}

// Add documents one resolved operation. host may be nil.
func (d *Document) Add(op *models.Operation, res *resolver.Result, host PathConverter) error {
	path := route.ToSwagger(res.Template)
	method := strings.ToLower(op.Method)

	item, ok := d.Paths[path]
	if !ok {
		item = make(PathItem)
		d.Paths[path] = item
	}
	if existing, dup := item[method]; dup {
		return fmt.Errorf("%s %s is declared by both %s and %s", op.Method, path, existing.OperationID, op.ID)
	}

	o := &Operation{
		OperationID: op.ID,
		Consumes:    res.Consumes,
		Parameters:  make([]*Parameter, 0, len(res.Parameters)),
	}
	if op.File != "" {
		o.Source = fmt.Sprintf("%s:%d", op.File, op.Line)
	}
	if host != nil {
		o.Extensions = map[string]string{
			"x-" + host.Name() + "-path": host.RoutePath(res.Template),
		}
	}
	for _, pd := range res.Parameters {
		o.Parameters = append(o.Parameters, parameter(pd))
	}

	item[method] = o
	return nil
}

// AddDefinitions merges shared schema definitions into the document
func (d *Document) AddDefinitions(defs map[string]*jsonschema.Schema) {
	if len(defs) == 0 {
		return
	}
	if d.Definitions == nil {
		d.Definitions = make(map[string]*jsonschema.Schema, len(defs))
	}
	maps.Copy(d.Definitions, defs)
}

// Operations returns the number of documented operations
func (d *Document) Operations() int {
	n := 0
	for _, item := range d.Paths {
		n += len(item)
	}
	return n
}

func parameter(pd *models.ParameterDescriptor) *Parameter {
	p := &Parameter{
		Name:             pd.Name,
		In:               pd.Kind.String(),
		Description:      pd.Description,
		Required:         pd.Required,
		CollectionFormat: pd.CollectionFormat.String(),
		Nullable:         pd.Nullable,
	}
	if pd.HasDefault {
		p.Default = pd.Default
	}

	if pd.Kind == models.KindBody {
		p.Schema = pd.Schema
		if p.Schema == nil {
			// Raw documents are passed through unparsed
			p.Schema = &jsonschema.Schema{Type: "string"}
		}
		return p
	}

	p.Type, p.Format = pd.Type, pd.Format
	if pd.IsFile && p.Type != "array" {
		p.Type, p.Format = "file", ""
	}
	if pd.Schema != nil {
		p.Items = pd.Schema.Items
		p.Enum = pd.Schema.Enum
	}
	if p.Type == "" {
		p.Type = "string"
	}
	return p
}
