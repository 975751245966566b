package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-logger/glog"

	statechart "github.com/goliatone/go-statechart"
)

var cli struct {
	File    string `arg:"" type:"existingfile" help:"Chart document to validate (YAML or JSON)."`
	Format  string `default:"text" enum:"text,json" help:"Diagnostic output format."`
	Verbose bool   `short:"v" help:"Enable debug logging."`
}

func main() {
	ktx := kong.Parse(&cli,
		kong.Name("statechart-lint"),
		kong.Description("Validate a statechart document and report every finding."),
	)

	level := "info"
	if cli.Verbose {
		level = "debug"
	}
	logger := glog.NewLogger(
		glog.WithWriter(os.Stderr),
		glog.WithLevel(level),
	)

	diags, err := lint(cli.File, logger)
	ktx.FatalIfErrorf(err)

	ktx.FatalIfErrorf(report(diags))
	if statechart.HasErrors(diags) {
		os.Exit(1)
	}
}

func lint(path string, logger statechart.Logger) ([]statechart.Diagnostic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart: %w", err)
	}

	doc, err := statechart.ParseDocument(raw)
	if err != nil {
		return nil, err
	}

	machine, err := statechart.Decode(doc,
		statechart.WithResolution(statechart.ResolveDeferred),
		statechart.WithLogger(logger),
	)
	if err != nil {
		// Reference and invariant problems arrive as a diagnostics batch;
		// anything else is a malformed document.
		var derr *statechart.DiagnosticsError
		if errors.As(err, &derr) {
			return derr.Diagnostics, nil
		}
		return nil, err
	}
	return machine.Validate(), nil
}

func report(diags []statechart.Diagnostic) error {
	if cli.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diags)
	}
	if len(diags) == 0 {
		fmt.Println("ok: no findings")
		return nil
	}
	for _, d := range diags {
		location := d.Element
		if d.Field != "" {
			location += "." + d.Field
		}
		fmt.Printf("%s %s %s: %s\n", d.Severity, d.Code, location, d.Message)
	}
	return nil
}
