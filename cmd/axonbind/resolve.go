package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/axonbind/internal/cli"
	"github.com/toyz/axonbind/internal/config"
	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/output"
)

var errResolveFailed = errors.New(errors.ResolutionErrorCode, "some operations could not be resolved").
	WithSuggestion("fix the reported operations or pass --keep-going to write the document anyway")

type resolveOptions struct {
	output    string
	keepGoing bool
}

func (a *app) resolveCommand() *cobra.Command {
	opts := &resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve [packages...]",
		Short: "Resolve parameter bindings and write the document",
		Example: `  axonbind resolve ./...
  axonbind resolve --host gin --format yaml -o swagger.yaml ./internal/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "write the document even when some operations failed")
	cmd.Flags().String("format", config.Default().Format, "document format: json, yaml")
	return cmd
}

func (a *app) resolve(cmd *cobra.Command, args []string, opts *resolveOptions) error {
	generator := cli.NewGenerator(a.config, a.diagnostics, a.logger)
	generator.SetDocumentVersion(Version)

	doc, err := generator.Run(cmd.Context(), args)
	if doc == nil {
		return err
	}
	if err != nil {
		a.diagnostics.ReportError(err)
		if !opts.keepGoing {
			generator.ReportSummary()
			return errResolveFailed
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, ferr := os.Create(opts.output)
		if ferr != nil {
			return errors.WrapFileSystemError("create", opts.output, ferr)
		}
		defer f.Close()
		w = f
	}

	if werr := output.Write(w, doc, a.config.OutputFormat()); werr != nil {
		return errors.WrapWithOperation("write", "document", werr)
	}
	if opts.output != "" {
		a.diagnostics.Success("Wrote %s", opts.output)
	}

	generator.ReportSummary()
	return nil
}
