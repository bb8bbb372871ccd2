package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/buttongame/internal/game"
)

func (c *CLI) printStatus(ctx context.Context, id string) error {
	v, err := c.game.View(ctx, id)
	if err != nil {
		return err
	}
	d := v.Profile.Data

	c.printf("%s: %d points\n", d.Username, d.Points)
	if len(d.Items) == 0 {
		c.println("items: none")
	} else {
		names := make([]string, len(d.Items))
		for i, it := range d.Items {
			names[i] = it.String()
		}
		c.println("items: " + strings.Join(names, ", "))
	}

	if v.Status == game.Ready {
		c.println("ready to claim")
	} else {
		c.println(v.Wait)
	}
	return nil
}

func (c *CLI) printShop(ctx context.Context, id string) error {
	listings, err := c.game.Shop(ctx, id)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRICE\t")
	for _, l := range listings {
		action := "buy"
		if l.Owned {
			action = "sell"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", l.Name, l.Price, action)
	}
	return tw.Flush()
}

func (c *CLI) printLeaderboard(ctx context.Context) error {
	entries, err := c.game.Leaderboard(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		c.println("nobody has played yet")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tUSER\tPOINTS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", e.Rank, e.Username, e.Points)
	}
	return tw.Flush()
}
