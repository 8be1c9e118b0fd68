// Command watc drives the text-format front end end-to-end: lex, read,
// resolve, desugar, then print the desugared module's canonical text
// form. Encoding and validation are external collaborators (spec.md §1)
// so this driver stops at the desugared AST.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuri91/wasp/lib/config"
	"github.com/yuri91/wasp/lib/desugar"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/features"
	"github.com/yuri91/wasp/lib/printer"
	"github.com/yuri91/wasp/lib/reader"
	"github.com/yuri91/wasp/lib/resolve"
)

var (
	outputPath string
	noValidate bool
	profile    string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watc <input-file>",
		Short: "Parse and desugar a WebAssembly text-format module",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	flags := cmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "write the canonical text form here instead of stdout")
	flags.BoolVar(&noValidate, "no-validate", false, "log that external validation is skipped (watc never runs a validator)")
	flags.StringVar(&profile, "profile", "mvp", "named feature profile (mvp, mvp+bulk-memory, all) or a YAML profile path")
	for _, f := range features.AllFlags() {
		name := f.String()
		flags.Bool("enable-"+dashed(name), false, fmt.Sprintf("enable the %s feature", name))
		flags.Bool("disable-"+dashed(name), false, fmt.Sprintf("disable the %s feature", name))
	}
	return cmd
}

func dashed(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '_' {
			out[i] = '-'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	path := args[0]
	enabled, err := config.Load(profile)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, enabled); err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sink := diag.New()
	r := reader.New(src, enabled, sink)
	mod, err := r.ReadModule()
	if err != nil {
		logReadErrors(logger, path, sink)
		return err
	}

	resolve.New(sink).ResolveModule(mod)
	if sink.HasError() {
		logReadErrors(logger, path, sink)
		return fmt.Errorf("module contained errors")
	}

	desugar.New(sink).DesugarModule(mod)
	if sink.HasError() {
		logReadErrors(logger, path, sink)
		return fmt.Errorf("module contained errors")
	}

	logger.Info("parsed module", zap.String("path", path), zap.Int("items", len(mod.Items)))
	if noValidate {
		logger.Info("skipping external validation", zap.String("path", path))
	}

	out := printer.Module(mod)
	if outputPath == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(outputPath, []byte(out), 0o644)
}

func applyFlagOverrides(cmd *cobra.Command, enabled *features.Set) error {
	for _, f := range features.AllFlags() {
		name := dashed(f.String())
		if on, _ := cmd.Flags().GetBool("enable-" + name); on {
			enabled.Enable(f)
		}
		if off, _ := cmd.Flags().GetBool("disable-" + name); off {
			enabled.Disable(f)
		}
	}
	return nil
}

func logReadErrors(logger *zap.Logger, path string, sink diag.Sink) {
	for _, e := range sink.Errors() {
		logger.Error("diagnostic", zap.String("path", path), zap.String("message", e.Error()))
	}
}
