package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/config"
	"github.com/toyz/axonbind/internal/hosts"
	"github.com/toyz/axonbind/internal/utils"
)

// Build information, set with -ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app is the state shared by all commands
type app struct {
	configFile string
	verbose    bool
	quiet      bool
	debug      bool

	config      *config.Config
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if a.diagnostics == nil {
			a.diagnostics = newDiagnostics(utils.DiagnosticError, stderr)
		}
		a.diagnostics.ReportError(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "axonbind",
		Short: "Resolve HTTP parameter bindings of axon-annotated Go handlers",
		Long: `axonbind loads Go packages, finds handlers annotated with //axon::route and
decides for every parameter where in the HTTP request it is bound from:
path, query, header, body or multipart form. The result is published as a
Swagger 2.0 document.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "configuration file (default: ./axonbind.yaml when present)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging of every binding decision")

	def := config.Default()
	pf.String("host", def.Host, "host framework: "+strings.Join(hosts.Names(), ", "))
	pf.Bool("convention-b", def.ConventionB, "bind complex parameters from the query string unless marked -Body")
	pf.Bool("add-missing-path-parameters", def.AddMissingPathParameters, "synthesize path parameters for unbound route placeholders")
	pf.String("enum-handling", def.EnumHandling, "enum representation: integer, string")
	pf.String("property-name-handling", def.PropertyNameHandling, "property naming: default, camel, snake, field")
	pf.StringSlice("raw-document-types", def.RawDocumentTypes, "qualified type names bound as raw XML bodies")
	pf.String("module", def.Module, "directory of the Go module to load")
	pf.StringSlice("tags", def.Tags, "build tags used when loading packages")
	pf.String("title", def.Title, "document title (default: the module path)")

	root.AddCommand(
		a.resolveCommand(),
		a.serveCommand(),
		versionCommand(),
	)
	return root
}

// setup loads the configuration and creates the output systems
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := utils.DiagnosticInfo
	switch {
	case a.quiet:
		level = utils.DiagnosticError
	case a.debug:
		level = utils.DiagnosticDebug
	case a.verbose:
		level = utils.DiagnosticVerbose
	}
	a.diagnostics = newDiagnostics(level, cmd.ErrOrStderr())

	a.logger = zap.NewNop()
	if a.debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = logger
	}

	loader := config.NewLoader()
	if a.configFile != "" {
		loader.SetConfigFile(a.configFile)
	}
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.config = cfg

	if used := loader.ConfigFileUsed(); used != "" {
		a.diagnostics.Verbose("Using configuration %s", used)
	}
	a.diagnostics.Debug("Configuration: %s", cfg)
	return nil
}

// newDiagnostics writes every level to w; colors stay on only for the terminal
func newDiagnostics(level utils.DiagnosticLevel, w io.Writer) *utils.DiagnosticSystem {
	d := utils.NewDiagnosticSystem(level)
	if w != os.Stderr {
		d.SetOutput(w, w)
	}
	return d
}
