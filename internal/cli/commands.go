package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/credentials"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
	"github.com/dmitrijs2005/buttongame/internal/shop"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: gamectl %s", errUsage, format)
}

type command struct {
	name  string
	args  string
	nargs int
	run   func(c *CLI, ctx context.Context, args []string) error
}

var commands = []command{
	{"register", "register <username>", 1, (*CLI).register},
	{"login", "login <username>", 1, (*CLI).login},
	{"status", "status <username>", 1, (*CLI).status},
	{"claim", "claim <username>", 1, (*CLI).claim},
	{"shop", "shop <username>", 1, (*CLI).shop},
	{"buy", "buy <username> <item>", 2, (*CLI).buy},
	{"sell", "sell <username> <item>", 2, (*CLI).sell},
	{"leaderboard", "leaderboard", 0, (*CLI).leaderboard},
	{"set-points", "set-points <username> <points>", 2, (*CLI).setPoints},
	{"import", "import <file.csv>", 1, (*CLI).importCSV},
	{"play", "play <username>", 1, (*CLI).play},
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		c.help()
		return nil
	}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if len(args)-1 != cmd.nargs {
			return usage(cmd.args)
		}
		return cmd.run(c, ctx, args[1:])
	}
	return fmt.Errorf("%w: unknown command %q, try gamectl help", errUsage, args[0])
}

func (c *CLI) help() {
	c.println("Usage: gamectl [-c config.json] [-d database.db] <command>")
	c.println("Commands:")
	for _, cmd := range commands {
		c.println("  " + cmd.args)
	}
	names := make([]string, 0, len(profiles.AllItems()))
	for _, it := range profiles.AllItems() {
		names = append(names, it.String())
	}
	c.println("Items: " + strings.Join(names, ", "))
}

func (c *CLI) register(ctx context.Context, args []string) error {
	username := strings.TrimSpace(args[0])
	password, err := GetPassword(c.reader, c.out)
	if err != nil {
		return err
	}
	defer credentials.Wipe(password)
	if username == "" || len(password) == 0 {
		return fmt.Errorf("%w: Username and password cannot be empty", common.ErrValidation)
	}

	hash, err := credentials.Hash(password, c.bcryptCost)
	if err != nil {
		return err
	}
	if _, err := c.game.Register(ctx, username, hash); err != nil {
		return err
	}
	c.println("Account creation successful")
	return nil
}

func (c *CLI) login(ctx context.Context, args []string) error {
	p, err := c.authenticate(ctx, args[0])
	if err != nil {
		return err
	}
	c.printf("Welcome, %s\n", p.Data.Username)
	return c.printStatus(ctx, p.ID)
}

func (c *CLI) status(ctx context.Context, args []string) error {
	id, err := c.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	return c.printStatus(ctx, id)
}

func (c *CLI) claim(ctx context.Context, args []string) error {
	p, err := c.authenticate(ctx, args[0])
	if err != nil {
		return err
	}
	return c.doClaim(ctx, p.ID)
}

func (c *CLI) shop(ctx context.Context, args []string) error {
	id, err := c.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	return c.printShop(ctx, id)
}

func (c *CLI) buy(ctx context.Context, args []string) error {
	return c.trade(ctx, args[0], args[1], shop.IntentBuy)
}

func (c *CLI) sell(ctx context.Context, args []string) error {
	return c.trade(ctx, args[0], args[1], shop.IntentSell)
}

func (c *CLI) trade(ctx context.Context, username, itemName string, intent shop.Intent) error {
	item, err := profiles.ParseItem(itemName)
	if err != nil {
		return err
	}
	p, err := c.authenticate(ctx, username)
	if err != nil {
		return err
	}
	return c.doTrade(ctx, p.ID, item, intent)
}

func (c *CLI) leaderboard(ctx context.Context, _ []string) error {
	return c.printLeaderboard(ctx)
}

func (c *CLI) setPoints(ctx context.Context, args []string) error {
	n, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: points must be between 0 and 65535", common.ErrValidation)
	}
	p, err := c.game.SetPoints(ctx, args[0], uint16(n))
	if err != nil {
		return err
	}
	c.printf("%s now has %d points\n", p.Data.Username, p.Data.Points)
	return nil
}

func (c *CLI) importCSV(ctx context.Context, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	defer f.Close()

	rep, err := c.importer.Import(ctx, f)
	if err != nil {
		return err
	}
	c.printf("imported %d, skipped %d\n", len(rep.Imported), len(rep.Skipped))
	for _, name := range rep.Skipped {
		c.printf("  skipped %s: username already exists\n", name)
	}
	return nil
}

func (c *CLI) doClaim(ctx context.Context, id string) error {
	res, err := c.game.Claim(ctx, id)
	if err != nil {
		return err
	}
	if !res.Claimed {
		c.println(res.Wait)
		return nil
	}
	c.printf("+1! You have %d points\n", res.Profile.Data.Points)
	return nil
}

func (c *CLI) doTrade(ctx context.Context, id string, item profiles.Item, intent shop.Intent) error {
	p, res, err := c.game.BuyOrSell(ctx, id, item, intent)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case shop.Declined:
		c.printf("Not enough points for %s\n", item)
		return nil
	case shop.Sold:
		c.printf("Sold %s for %d\n", item, res.Price)
	case shop.Purchased:
		c.printf("Bought %s for %d\n", item, res.Price)
		switch item {
		case profiles.FiftyFifty:
			if res.Bonus > 0 {
				c.printf("Lucky! +%d points\n", res.Bonus)
			} else {
				c.println("No luck this time")
			}
		case profiles.Thanos:
			c.printf("Snap. %d players lost everything\n", len(res.Snapped))
		}
	}
	c.printf("You have %d points\n", p.Data.Points)
	return nil
}
