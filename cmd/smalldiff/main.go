package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Main, "smalldiff").
		WithSynopsis("smalldiff [-format pretty|json|yaml] [-color] [-stats] [-config file.toml] [-v] expected actual").
		WithDescription("smalldiff compares two JSON or YAML documents and reports every path where they differ. exits 1 when differences are found.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}
