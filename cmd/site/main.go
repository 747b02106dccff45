package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-site/cmd/site/internal/bootstrap"
)

// Globals are flags shared by every sub-command.
type Globals struct {
	Config       string `short:"c" help:"Configuration file (YAML)." type:"path"`
	Root         string `short:"r" help:"Content root, overrides the configuration file."`
	Verbose      bool   `short:"v" help:"Enable debug logging."`
	LogFormat    string `name:"log-format" help:"Log format (console, json, pretty)."`
	Blog         bool   `help:"Load blog posts even when the blog module is disabled."`
	NoImageCheck bool   `name:"no-image-check" help:"Skip checks that referenced images exist."`
}

func (g *Globals) options() bootstrap.Options {
	return bootstrap.Options{
		ConfigPath:   g.Config,
		Root:         g.Root,
		Verbose:      g.Verbose,
		LogFormat:    g.LogFormat,
		Blog:         g.Blog,
		NoImageCheck: g.NoImageCheck,
	}
}

// CLI is the command tree.
type CLI struct {
	Globals

	Validate   ValidateCmd `cmd:"" help:"Validate content collections and report every problem."`
	Preview    PreviewCmd  `cmd:"" help:"Show a content entry the way the rendering layer receives it."`
	ShowConfig ConfigCmd   `cmd:"" name:"config" help:"Print the effective configuration."`
}

// runtimeEnv carries process dependencies into command Run methods.
type runtimeEnv struct {
	Context context.Context
	Out     io.Writer
	Build   func(bootstrap.Options) (*bootstrap.Module, error)
}

func (e *runtimeEnv) build(g *Globals) (*bootstrap.Module, error) {
	return e.Build(g.options())
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("site"),
		kong.Description("Validate and inspect the content collections of the site."),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	env := &runtimeEnv{Context: ctx, Out: os.Stdout, Build: bootstrap.BuildModule}
	kctx.FatalIfErrorf(kctx.Run(&cli.Globals, env))
}
