package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/buttongame/internal/app"
	"github.com/dmitrijs2005/buttongame/internal/buildinfo"
	"github.com/dmitrijs2005/buttongame/internal/cli"
	"github.com/dmitrijs2005/buttongame/internal/config"
	"github.com/dmitrijs2005/buttongame/internal/flagx"
)

func main() {

	cfg := config.LoadConfig()
	args := flagx.Positional(os.Args[1:], config.ValueFlags)

	if len(args) == 1 && args[0] == "version" {
		buildinfo.PrintBuildData(os.Stdout)
		return
	}

	ctx := context.Background()
	a, err := app.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		os.Exit(1)
	}

	c := cli.New(a.Game, a.Importer, cfg.BcryptCost, os.Stdin, os.Stdout)
	err = a.Run(ctx, func(ctx context.Context) error {
		return c.Run(ctx, args)
	})

	if cerr := a.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		os.Exit(1)
	}

}
