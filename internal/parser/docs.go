package parser

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/typeinfo"
)

// Docs indexes struct field comments of the loaded packages. It is built
// once by the parser and read-only afterwards.
type Docs struct {
	fields map[string]map[string]string // qualified type name -> field name -> doc
}

// NewDocs creates an empty index
func NewDocs() *Docs {
	return &Docs{fields: make(map[string]map[string]string)}
}

// Index adds the struct field comments declared in file
func (d *Docs) Index(file *ast.File, info *types.Info) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			obj, ok := info.Defs[ts.Name].(*types.TypeName)
			if !ok {
				continue
			}
			d.indexStruct(typeinfo.QualifiedName(obj.Type()), st)
		}
	}
}

func (d *Docs) indexStruct(owner string, st *ast.StructType) {
	for _, field := range st.Fields.List {
		text := fieldDoc(field)
		if text == "" {
			continue
		}
		for _, name := range field.Names {
			if d.fields[owner] == nil {
				d.fields[owner] = make(map[string]string)
			}
			d.fields[owner][name.Name] = text
		}
	}
}

func fieldDoc(field *ast.Field) string {
	if field.Doc != nil {
		if text := strings.TrimSpace(field.Doc.Text()); text != "" {
			return text
		}
	}
	if field.Comment != nil {
		return strings.TrimSpace(field.Comment.Text())
	}
	return ""
}

// FieldDoc returns the comment of a struct field, or "" when it has none
func (d *Docs) FieldDoc(ctx context.Context, owner models.Type, field string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t, ok := owner.(types.Type)
	if !ok || t == nil {
		return "", nil
	}
	return d.fields[typeinfo.QualifiedName(t)][field], nil
}
