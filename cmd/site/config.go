package main

import (
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-site/cmd/site/internal/bootstrap"
)

// ConfigCmd implements the 'config' command.
type ConfigCmd struct {
	Project bool `help:"Print the project settings resolved from the environment instead."`
}

func (c *ConfigCmd) Run(g *Globals, env *runtimeEnv) error {
	var value any
	if c.Project {
		module, err := env.build(g)
		if err != nil {
			return err
		}
		value = module.Module.Project()
	} else {
		cfg, err := bootstrap.LoadConfig(g.options())
		if err != nil {
			return err
		}
		value = cfg
	}

	encoder := yaml.NewEncoder(env.Out)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
