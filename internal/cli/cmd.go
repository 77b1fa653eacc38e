// Package cli implements the mysqlxml2csv command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/mysqlxml2csv"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/nao1215/mysqlxml2csv/internal/cli.Version=..."
var Version = "develop"

// stdinArg selects standard input explicitly
const stdinArg = "-"

type ConvertOptions struct {
	Separator       string
	NullValue       string
	SkipColumnNames bool
	EmptyResultLine string
	Output          string
	ConfigPath      string
	Debug           bool
}

func NewConvertOptions() *ConvertOptions {
	return &ConvertOptions{
		Separator: mysqlxml2csv.DefaultSeparator,
	}
}

func NewDefaultRootCmd() *cobra.Command {
	return NewRootCmd(NewConvertOptions())
}

func NewRootCmd(o *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mysqlxml2csv [options] [file.xml]",
		Short:   "mysqlxml2csv converts MySQL XML query output to CSV",
		Version: Version,
		Long: `mysqlxml2csv converts the XML produced by "mysql --xml" into CSV.

Input is read from file.xml, or from standard input when no file or "-" is given.
Files ending in .gz, .bz2, .xz or .zst are decompressed; compressed standard
input is detected automatically. Every value is double-quoted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error { return o.Run(cmd, args) },
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.DisableAutoGenTag = true
	cmd.SetVersionTemplate("mysqlxml2csv {{.Version}}\n")

	cmd.Flags().StringVarP(&o.EmptyResultLine, "empty", "E", "", `Output "line" if result has zero rows (default output nothing)`)
	cmd.Flags().StringVarP(&o.NullValue, "null", "n", "", `Output "value" for NULL values (default empty string)`)
	cmd.Flags().BoolVarP(&o.SkipColumnNames, "skip-column-names", "N", false, "Do not output column names as the first CSV row")
	cmd.Flags().StringVarP(&o.Separator, "separator", "s", o.Separator, "Specify column separator")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "Write CSV to this file instead of standard output (.gz, .xz and .zst are compressed)")
	cmd.Flags().StringVar(&o.ConfigPath, "config", "", "Read options from a TOML file; flags take precedence")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *ConvertOptions) Run(cmd *cobra.Command, args []string) error {
	ui := NewPlainUI(cmd.ErrOrStderr(), o.Debug)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	opts, output, err := o.resolve(cmd)
	if err != nil {
		return err
	}
	ui.Debugf("options: %s\n", opts)

	conv, err := mysqlxml2csv.NewConverter(opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	closeOutput := func() error { return nil }
	if output != "" {
		w, closeOutput, err = mysqlxml2csv.NewCompressionFactory().CreateWriterForFile(output)
		if err != nil {
			return fmt.Errorf("failed to open output %s: %w", output, err)
		}
		ui.Debugf("writing %s\n", output)
	}

	stats, err := o.convert(cmd.Context(), conv, cmd.InOrStdin(), args, w, ui)
	if closeErr := closeOutput(); closeErr != nil {
		if err != nil {
			ui.Warnf("failed to close output %s: %s\n", output, closeErr)
			return err
		}
		return fmt.Errorf("failed to close output %s: %w", output, closeErr)
	}
	if err != nil {
		return err
	}

	ui.Debugf("rows: %d, input compression: %s\n", stats.Rows, stats.Compression)
	return nil
}

func (o *ConvertOptions) convert(ctx context.Context, conv *mysqlxml2csv.Converter, stdin io.Reader,
	args []string, w io.Writer, ui PlainUI) (mysqlxml2csv.Stats, error) {

	if ctx == nil {
		ctx = context.Background()
	}
	if len(args) == 0 || args[0] == stdinArg {
		ui.Debugf("reading standard input\n")
		return conv.Convert(ctx, stdin, w)
	}
	ui.Debugf("reading %s\n", args[0])
	return conv.ConvertFile(ctx, args[0], w)
}

// resolve merges defaults, the config file and explicitly set flags, in that order.
func (o *ConvertOptions) resolve(cmd *cobra.Command) (mysqlxml2csv.Options, string, error) {
	opts := mysqlxml2csv.NewOptions()
	output := o.Output

	if o.ConfigPath != "" {
		cfg, err := LoadFileConfig(o.ConfigPath)
		if err != nil {
			return mysqlxml2csv.Options{}, "", err
		}
		if cfg.Separator != nil {
			opts = opts.WithSeparator(*cfg.Separator)
		}
		if cfg.NullValue != nil {
			opts = opts.WithNullValue(*cfg.NullValue)
		}
		if cfg.SkipColumnNames != nil && *cfg.SkipColumnNames {
			opts = opts.WithoutHeader()
		}
		if cfg.EmptyResultLine != nil {
			opts = opts.WithEmptyResultLine(*cfg.EmptyResultLine)
		}
		if cfg.Output != nil && !cmd.Flags().Changed("output") {
			output = *cfg.Output
		}
	}

	flags := cmd.Flags()
	if flags.Changed("separator") {
		opts = opts.WithSeparator(o.Separator)
	}
	if flags.Changed("null") {
		opts = opts.WithNullValue(o.NullValue)
	}
	if flags.Changed("skip-column-names") {
		opts.EmitHeader = !o.SkipColumnNames
	}
	if flags.Changed("empty") {
		opts = opts.WithEmptyResultLine(o.EmptyResultLine)
	}
	return opts, output, nil
}
