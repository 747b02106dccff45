package main

import (
	"fmt"

	contentcmd "github.com/goliatone/go-site/internal/commands/content"

	"github.com/goliatone/go-site/cmd/site/internal/bootstrap"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Collections []string `arg:"" optional:"" help:"Collections to validate; every enabled collection when omitted."`
	Strict      bool     `help:"Treat duplicate section ids as errors."`
}

func (c *ValidateCmd) Run(g *Globals, env *runtimeEnv) error {
	module, err := env.build(g)
	if err != nil {
		return err
	}

	var report *contentcmd.Report
	execErr := module.Module.Container().ValidateContentHandler().Execute(env.Context, contentcmd.ValidateContentCommand{
		Collections:    bootstrap.SplitCollections(c.Collections),
		Strict:         c.Strict,
		ResultCallback: func(r *contentcmd.Report) { report = r },
	})
	if report == nil {
		return execErr
	}
	module.Logger.Debug("cli.validate.finished",
		"run_id", report.RunID.String(),
		"entries", report.EntryCount(),
		"failures", report.FailureCount(),
		"duration", report.Duration.String(),
	)

	for _, line := range report.Lines() {
		fmt.Fprintln(env.Out, line)
	}
	for _, collection := range report.Collections {
		fmt.Fprintf(env.Out, "%-10s %3d entries %3d rejected\n", collection.Name, collection.Entries, len(collection.Failures)+len(collection.Errors))
	}

	if execErr != nil {
		if report.FailureCount() > 0 {
			return fmt.Errorf("%d entries failed validation", report.FailureCount())
		}
		return execErr
	}
	return nil
}
