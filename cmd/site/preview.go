package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-site/internal/collections"
)

// ErrEntryNotFound is returned when no collection holds the previewed file.
var ErrEntryNotFound = errors.New("entry not found")

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Path string `arg:"" help:"Content file, relative to the content root."`
	Body bool   `help:"Print the Markdown source instead of the rendered HTML."`
}

func (c *PreviewCmd) Run(g *Globals, env *runtimeEnv) error {
	module, err := env.build(g)
	if err != nil {
		return err
	}

	target := path.Clean(strings.TrimPrefix(strings.ReplaceAll(c.Path, "\\", "/"), "./"))
	svc := module.Module.Collections()

	def, ok := definitionFor(svc.Definitions(), target)
	if !ok {
		return fmt.Errorf("%w: %s is outside every collection", ErrEntryNotFound, target)
	}

	collection, loadErr := svc.Load(env.Context, def.Name)
	if collection == nil {
		return loadErr
	}
	for _, entry := range collection.Entries {
		if entry.FilePath == target {
			return printEntry(env, entry, c.Body)
		}
	}

	var failures *collections.LoadError
	if errors.As(loadErr, &failures) {
		for _, failure := range failures.Failures {
			for _, line := range collections.IssueLines(failure) {
				if strings.HasPrefix(line, target+":") {
					fmt.Fprintln(env.Out, line)
				}
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, target)
}

// definitionFor picks the collection with the longest base containing target.
func definitionFor(defs []collections.Definition, target string) (collections.Definition, bool) {
	var (
		best  collections.Definition
		found bool
	)
	for _, def := range defs {
		base := strings.Trim(def.Base, "/")
		if base != "" && !strings.HasPrefix(target, base+"/") {
			continue
		}
		if !found || len(base) > len(best.Base) {
			best, found = def, true
		}
	}
	return best, found
}

func printEntry(env *runtimeEnv, entry *collections.Entry, body bool) error {
	fmt.Fprintf(env.Out, "Collection: %s\nID: %s\nUUID: %s\nPath: %s\n", entry.Collection, entry.ID, entry.UUID, entry.FilePath)
	if minutes := entry.MinutesRead(); minutes != "" {
		fmt.Fprintf(env.Out, "Reading time: %s\n", minutes)
	}

	data, err := json.MarshalIndent(entry.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "\nData:\n%s\n", data)

	if entry.Rendered == nil {
		return nil
	}
	if body {
		fmt.Fprintf(env.Out, "\nMarkdown body:\n%s\n", entry.Body)
		return nil
	}
	fmt.Fprintf(env.Out, "\nRendered HTML:\n%s\n", entry.HTML())
	return nil
}
