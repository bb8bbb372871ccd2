package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/buttongame/internal/app"
	"github.com/dmitrijs2005/buttongame/internal/cli"
	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/config"
	"github.com/dmitrijs2005/buttongame/internal/flagx"
)

const defaultCSV = "users.csv"

func main() {

	cfg := config.LoadConfig()

	path := defaultCSV
	if args := flagx.Positional(os.Args[1:], config.ValueFlags); len(args) > 0 {
		path = args[0]
	}

	ctx := context.Background()
	a, err := app.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		os.Exit(1)
	}

	err = a.Run(ctx, func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		defer f.Close()

		rep, err := a.Importer.Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d, skipped %d\n", len(rep.Imported), len(rep.Skipped))
		return nil
	})

	if cerr := a.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		os.Exit(1)
	}

}
