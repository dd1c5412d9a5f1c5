// Package typeinfotest type-checks Go source fixtures against stub
// dependencies so tests run without loading real packages.
package typeinfotest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"
)

// PackagePath is the import path fixtures are checked as
const PackagePath = "example.com/app"

// Fixture is a type-checked source file
type Fixture struct {
	Fset *token.FileSet
	File *ast.File
	Pkg  *types.Package
	Info *types.Info
}

// Check type-checks src against the stub packages
func Check(t testing.TB, src string) *Fixture {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "fixture.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	info := &types.Info{
		Types: map[ast.Expr]types.TypeAndValue{},
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
	}
	conf := types.Config{Importer: Stubs()}
	pkg, err := conf.Check(PackagePath, fset, []*ast.File{file}, info)
	if err != nil {
		t.Fatalf("type-check fixture: %v", err)
	}

	return &Fixture{Fset: fset, File: file, Pkg: pkg, Info: info}
}

// Type returns the declared type with the given name
func (f *Fixture) Type(t testing.TB, name string) types.Type {
	t.Helper()
	obj, ok := f.Pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		t.Fatalf("fixture has no type %q", name)
	}
	return obj.Type()
}

// Params returns the parameters of a function, or of a method written Recv.Name
func (f *Fixture) Params(t testing.TB, name string) *types.Tuple {
	t.Helper()

	recv, method, isMethod := strings.Cut(name, ".")
	if !isMethod {
		fn, ok := f.Pkg.Scope().Lookup(name).(*types.Func)
		if !ok {
			t.Fatalf("fixture has no function %q", name)
		}
		return fn.Signature().Params()
	}

	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(f.Type(t, recv)), true, f.Pkg, method)
	fn, ok := obj.(*types.Func)
	if !ok {
		t.Fatalf("fixture has no method %q", name)
	}
	return fn.Signature().Params()
}

// Importer resolves imports to stub packages
type Importer map[string]*types.Package

// Import implements types.Importer
func (i Importer) Import(path string) (*types.Package, error) {
	if pkg, ok := i[path]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("typeinfotest: no stub for %q", path)
}

// Stubs returns stub packages declaring the names binding resolution cares about
func Stubs() Importer {
	emptyIface := types.NewInterfaceType(nil, nil).Complete()
	emptyStruct := types.NewStruct(nil, nil)

	return Importer{
		"context": stub("context", "context", map[string]types.Type{
			"Context": emptyIface,
		}),
		"mime/multipart": stub("mime/multipart", "multipart", map[string]types.Type{
			"FileHeader": emptyStruct,
			"File":       emptyIface,
		}),
		"net/http": stub("net/http", "http", map[string]types.Type{
			"Request":        emptyStruct,
			"ResponseWriter": emptyIface,
		}),
		"time": stub("time", "time", map[string]types.Type{
			"Time":     emptyStruct,
			"Duration": types.Typ[types.Int64],
		}),
		"github.com/google/uuid": stub("github.com/google/uuid", "uuid", map[string]types.Type{
			"UUID": types.NewArray(types.Typ[types.Byte], 16),
		}),
		"github.com/beevik/etree": stub("github.com/beevik/etree", "etree", map[string]types.Type{
			"Document": emptyStruct,
		}),
		"github.com/labstack/echo/v4": stub("github.com/labstack/echo/v4", "echo", map[string]types.Type{
			"Context": emptyIface,
		}),
	}
}

func stub(path, name string, decls map[string]types.Type) *types.Package {
	pkg := types.NewPackage(path, name)
	for typeName, underlying := range decls {
		obj := types.NewTypeName(token.NoPos, pkg, typeName, nil)
		types.NewNamed(obj, underlying, nil)
		pkg.Scope().Insert(obj)
	}
	pkg.MarkComplete()
	return pkg
}
