package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/config"
	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/hosts"
	"github.com/toyz/axonbind/internal/output"
	"github.com/toyz/axonbind/internal/parser"
	"github.com/toyz/axonbind/internal/resolver"
	"github.com/toyz/axonbind/internal/schema"
	"github.com/toyz/axonbind/internal/typeinfo"
	"github.com/toyz/axonbind/internal/utils"
)

// Summary describes the outcome of a run
type Summary struct {
	Module      string
	Operations  int
	Resolved    int
	Failed      int
	Definitions int
	Duration    time.Duration
}

// Generator coordinates loading, resolving and documenting operations
type Generator struct {
	config      *config.Config
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
	version     string
	summary     Summary
}

// NewGenerator creates a generator. logger may be nil.
func NewGenerator(cfg *config.Config, diagnostics *utils.DiagnosticSystem, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		config:      cfg,
		diagnostics: diagnostics,
		logger:      logger,
		version:     "1.0.0",
	}
}

// SetDocumentVersion sets the version written to the document info
func (g *Generator) SetDocumentVersion(version string) {
	g.version = version
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() Summary {
	return g.summary
}

// Run loads the packages matching patterns and resolves every operation.
// The document always contains the operations that resolved; failures are
// returned together as a *errors.MultipleErrors. A nil document means
// nothing could be loaded.
func (g *Generator) Run(ctx context.Context, patterns []string) (*output.Document, error) {
	start := time.Now()
	g.summary = Summary{}

	mod, err := utils.FindModule(g.config.Module)
	if err != nil {
		return nil, err
	}
	g.summary.Module = mod.Path
	g.diagnostics.Verbose("Module %s (%s)", mod.Path, mod.Dir)

	host, err := hosts.Lookup(g.config.Host)
	if err != nil {
		return nil, errors.WrapConfigurationError("host", "select", err)
	}

	settings := g.config.Settings()
	oracle := typeinfo.NewOracle(host, settings)

	p := parser.NewParser(
		parser.WithDir(g.config.Module),
		parser.WithBuildTags(g.config.Tags...),
		parser.WithBinders(oracle),
		parser.WithLogger(g.logger.Named("parser")),
	)

	g.diagnostics.Info("Loading packages %v", patterns)
	loaded, loadErr := p.Load(ctx, patterns...)
	if loaded == nil {
		return nil, loadErr
	}

	errs := errors.NewMultipleErrors()
	collect(errs, loadErr)

	builder := schema.NewBuilder(oracle, loaded.Docs)
	r := resolver.New(oracle, builder, settings, resolver.WithLogger(g.logger.Named("resolver")))

	title := g.config.Title
	if title == "" {
		title = mod.Path
	}
	doc := output.NewDocument(output.Info{Title: title, Version: g.version})

	g.summary.Operations = len(loaded.Operations)
	for _, op := range loaded.Operations {
		res, err := r.Resolve(ctx, op)
		if err != nil {
			g.summary.Failed++
			collect(errs, err)
			continue
		}
		if err := doc.Add(op, res, host); err != nil {
			g.summary.Failed++
			errs.Add(errors.NewValidationError("route", "a unique method and path", op.Method+" "+op.Path).
				WithLocation(errors.SourceLocation{File: op.File, Line: op.Line}).
				WithSuggestion(err.Error()))
			continue
		}

		g.summary.Resolved++
		g.diagnostics.Verbose("%s %s -> %s (%d parameters)", op.Method, res.Template, op.ID, len(res.Parameters))
	}

	defs := builder.Definitions()
	doc.AddDefinitions(defs)
	g.summary.Definitions = len(defs)
	g.summary.Duration = time.Since(start)

	g.logger.Debug("run complete",
		zap.Int("operations", g.summary.Operations),
		zap.Int("resolved", g.summary.Resolved),
		zap.Int("failed", g.summary.Failed),
		zap.Duration("duration", g.summary.Duration))

	return doc, errs.ErrOrNil()
}

// ReportSummary prints the summary of the last run
func (g *Generator) ReportSummary() {
	s := g.summary
	g.diagnostics.Summary("Resolution complete", []string{"Module", "Operations", "Resolved", "Failed", "Definitions", "Duration"},
		map[string]interface{}{
			"Module":      s.Module,
			"Operations":  s.Operations,
			"Resolved":    s.Resolved,
			"Failed":      s.Failed,
			"Definitions": s.Definitions,
			"Duration":    s.Duration.Round(time.Millisecond),
		})
}

func collect(errs *errors.MultipleErrors, err error) {
	if err == nil {
		return
	}
	var multi *errors.MultipleErrors
	if errors.As(err, &multi) {
		errs.Errors = append(errs.Errors, multi.Errors...)
		return
	}
	var axonErr errors.AxonError
	if errors.As(err, &axonErr) {
		errs.Add(axonErr)
		return
	}
	errs.Add(errors.Wrap(errors.UnknownErrorCode, "operation failed", err))
}
