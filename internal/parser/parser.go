package parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/toyz/axonbind/internal/annotations"
	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/route"
)

// LoadMode is the information the parser needs from go/packages
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedSyntax

// Binders reports markers a parameter type contributes on its own, such as
// types the host binds from a single string value
type Binders interface {
	BinderMarkers(t models.Type) markers.Set
}

// Parser loads Go packages and builds operations from annotated handlers
type Parser struct {
	annotations *annotations.Parser
	binders     Binders
	logger      *zap.Logger
	dir         string
	tags        []string
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for trace output
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithDir sets the directory patterns are resolved from
func WithDir(dir string) Option {
	return func(p *Parser) {
		p.dir = dir
	}
}

// WithBuildTags sets the build tags used when loading packages
func WithBuildTags(tags ...string) Option {
	return func(p *Parser) {
		p.tags = tags
	}
}

// WithBinders sets the source of type-level binder markers
func WithBinders(b Binders) Option {
	return func(p *Parser) {
		p.binders = b
	}
}

// NewParser creates a new annotation parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		annotations: annotations.NewParser(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is everything the parser extracted from the loaded packages
type Result struct {
	Operations []*models.Operation
	Docs       *Docs
}

// Load loads the packages matching patterns and extracts their operations.
// Annotation problems do not stop loading: the operations that could be
// built are returned together with a *errors.MultipleErrors.
func (p *Parser) Load(ctx context.Context, patterns ...string) (*Result, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     p.dir,
	}
	if len(p.tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(p.tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.WrapLoadError(strings.Join(patterns, " "), err)
	}
	slices.SortFunc(pkgs, func(a, b *packages.Package) int {
		return strings.Compare(a.PkgPath, b.PkgPath)
	})

	result := &Result{Docs: NewDocs()}
	errs := errors.NewMultipleErrors()

	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			errs.Add(errors.WrapLoadError(pkg.PkgPath, pkgErr))
		}
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}

		p.logger.Debug("loaded package",
			zap.String("package", pkg.PkgPath),
			zap.Int("files", len(pkg.Syntax)))

		for _, file := range pkg.Syntax {
			result.Docs.Index(file, pkg.TypesInfo)
		}

		prefixes := make(map[string]string)
		for _, file := range pkg.Syntax {
			p.collectControllers(pkg.Fset, file, prefixes, errs)
		}
		for _, file := range pkg.Syntax {
			result.Operations = append(result.Operations, p.operations(pkg.Fset, file, pkg.TypesInfo, prefixes, errs)...)
		}
	}

	p.logger.Debug("extracted operations", zap.Int("count", len(result.Operations)))
	return result, errs.ErrOrNil()
}

// ParseFile extracts the operations of a single type-checked file
func (p *Parser) ParseFile(fset *token.FileSet, file *ast.File, info *types.Info) ([]*models.Operation, error) {
	errs := errors.NewMultipleErrors()
	prefixes := make(map[string]string)
	p.collectControllers(fset, file, prefixes, errs)
	ops := p.operations(fset, file, info, prefixes, errs)
	return ops, errs.ErrOrNil()
}

// collectControllers records the route prefix of every //axon::controller type
func (p *Parser) collectControllers(fset *token.FileSet, file *ast.File, prefixes map[string]string, errs *errors.MultipleErrors) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			for _, parsed := range p.parseDoc(fset, doc, errs) {
				if parsed.Type != annotations.ControllerAnnotation {
					continue
				}
				ctrl, err := parsed.Controller()
				if err != nil {
					collect(errs, err)
					continue
				}
				prefixes[ts.Name.Name] = ctrl.Prefix
			}
		}
	}
}

func (p *Parser) operations(fset *token.FileSet, file *ast.File, info *types.Info, prefixes map[string]string, errs *errors.MultipleErrors) []*models.Operation {
	var ops []*models.Operation
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}
		if op := p.operation(fset, fd, info, prefixes, errs); op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// operation builds the operation of one annotated handler, or nil when the
// function carries no route or its annotations are invalid
func (p *Parser) operation(fset *token.FileSet, fd *ast.FuncDecl, info *types.Info, prefixes map[string]string, errs *errors.MultipleErrors) *models.Operation {
	parsed := p.parseDoc(fset, fd.Doc, errs)
	if len(parsed) == 0 {
		return nil
	}

	pos := fset.Position(fd.Pos())
	loc := errors.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}

	var (
		rt      *annotations.Route
		params  []annotations.Param
		invalid bool
	)
	for _, a := range parsed {
		switch a.Type {
		case annotations.RouteAnnotation:
			r, err := a.Route()
			if err != nil {
				collect(errs, err)
				invalid = true
				continue
			}
			if rt != nil {
				errs.Add(errors.NewValidationError("route", "a single //axon::route per handler", a.Raw).WithLocation(a.Location))
				invalid = true
				continue
			}
			rt = &r
		case annotations.ParamAnnotation:
			pa, err := a.Param()
			if err != nil {
				collect(errs, err)
				invalid = true
				continue
			}
			params = append(params, pa)
		case annotations.ControllerAnnotation:
			errs.Add(errors.NewValidationError("annotation", "//axon::controller on a type declaration", "a function").WithLocation(a.Location))
			invalid = true
		}
	}

	if rt == nil {
		if len(params) > 0 {
			errs.Add(errors.NewValidationError("annotation", "//axon::param next to an //axon::route", fd.Name.Name).
				WithLocation(loc).
				WithSuggestion("add an //axon::route annotation to " + fd.Name.Name))
		}
		return nil
	}

	fn, ok := info.Defs[fd.Name].(*types.Func)
	if !ok {
		errs.Add(errors.Newf(errors.LoadErrorCode, "no type information for %s", fd.Name.Name).WithLocation(loc))
		return nil
	}

	recv := receiverName(fd)
	op := &models.Operation{
		ID:     operationID(recv, fd.Name.Name),
		Method: rt.Method,
		Path:   route.Join(prefixes[recv], rt.Path),
		File:   pos.Filename,
		Line:   pos.Line,
	}

	op.Parameters = p.parameters(fn.Signature().Params())
	if !p.applyParams(op, params, errs) || invalid {
		return nil
	}

	p.logger.Debug("found operation",
		zap.String("operation", op.ID),
		zap.String("method", op.Method),
		zap.String("path", op.Path),
		zap.Int("parameters", len(op.Parameters)))

	return op
}

// parameters converts a signature to formal parameters. Unnamed parameters
// get a positional name.
func (p *Parser) parameters(tuple *types.Tuple) []models.FormalParameter {
	params := make([]models.FormalParameter, 0, tuple.Len())
	for i := range tuple.Len() {
		v := tuple.At(i)
		name := v.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}

		param := models.FormalParameter{
			Name:     name,
			Type:     v.Type(),
			Position: i,
		}
		if p.binders != nil {
			param.Markers = p.binders.BinderMarkers(v.Type())
		}
		params = append(params, param)
	}
	return params
}

// applyParams merges //axon::param annotations into the formal parameters.
// Annotation markers come before type-level markers so they win.
func (p *Parser) applyParams(op *models.Operation, params []annotations.Param, errs *errors.MultipleErrors) bool {
	ok := true
	for _, pa := range params {
		idx := slices.IndexFunc(op.Parameters, func(fp models.FormalParameter) bool {
			return fp.Name == pa.Name
		})
		if idx < 0 {
			names := make([]string, 0, len(op.Parameters))
			for _, fp := range op.Parameters {
				names = append(names, fp.Name)
			}
			errs.Add(errors.NewValidationError("param", "a parameter of "+op.ID, pa.Name).
				WithLocation(errors.SourceLocation{File: op.File, Line: op.Line}).
				WithSuggestion("available parameters: " + strings.Join(names, ", ")))
			ok = false
			continue
		}

		fp := &op.Parameters[idx]
		fp.Markers = append(slices.Clone(pa.Markers), fp.Markers...)
		if pa.Description != "" {
			fp.Description = pa.Description
		}
		if pa.HasDefault {
			value, err := defaultValue(fp.Type, pa.Default)
			if err != nil {
				errs.Add(errors.NewValidationError("Default", "a value of type "+fp.Type.String(), pa.Default).
					WithLocation(errors.SourceLocation{File: op.File, Line: op.Line}))
				ok = false
				continue
			}
			fp.HasDefault = true
			fp.Default = value
		}
	}
	return ok
}

func (p *Parser) parseDoc(fset *token.FileSet, doc *ast.CommentGroup, errs *errors.MultipleErrors) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}

	var parsed []*annotations.ParsedAnnotation
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		pos := fset.Position(c.Pos())
		loc := errors.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}

		a, err := p.annotations.ParseAnnotation(c.Text, loc)
		if err != nil {
			collect(errs, err)
			continue
		}
		parsed = append(parsed, a)
	}
	return parsed
}

// defaultValue converts a default written in an annotation to the parameter's type
func defaultValue(t models.Type, raw string) (any, error) {
	gt, ok := t.(types.Type)
	if !ok {
		return raw, nil
	}
	if ptr, isPtr := types.Unalias(gt).(*types.Pointer); isPtr {
		gt = ptr.Elem()
	}
	b, ok := gt.Underlying().(*types.Basic)
	if !ok {
		return raw, nil
	}

	info := b.Info()
	switch {
	case info&types.IsBoolean != 0:
		return strconv.ParseBool(raw)
	case info&types.IsUnsigned != 0:
		return strconv.ParseUint(raw, 10, 64)
	case info&types.IsInteger != 0:
		return strconv.ParseInt(raw, 10, 64)
	case info&types.IsFloat != 0:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

func operationID(recv, name string) string {
	if recv == "" {
		return name
	}
	return recv + "." + name
}

func collect(errs *errors.MultipleErrors, err error) {
	var axonErr errors.AxonError
	if errors.As(err, &axonErr) {
		errs.Add(axonErr)
		return
	}
	errs.Add(errors.Wrap(errors.UnknownErrorCode, "annotation error", err))
}
