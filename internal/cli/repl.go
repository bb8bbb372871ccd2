package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/dmitrijs2005/buttongame/internal/profiles"
	"github.com/dmitrijs2005/buttongame/internal/shop"
)

const replHelp = "Available commands: status, claim, shop, buy <item>, sell <item>, leaderboard, exit"

// play logs username in and then runs a session on stdin.
func (c *CLI) play(ctx context.Context, args []string) error {
	p, err := c.authenticate(ctx, args[0])
	if err != nil {
		return err
	}
	c.printf("Welcome, %s (type 'help' for commands)\n", p.Data.Username)
	return c.runREPL(ctx, p.ID, p.Data.Username, bufio.NewScanner(c.reader))
}

// runREPL reads one command per line and runs it for the profile id. Errors
// from a command are printed and the loop goes on. It returns on EOF,
// exit or quit, or when ctx is done.
func (c *CLI) runREPL(ctx context.Context, id, username string, scanner *bufio.Scanner) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s> ", username)
		if !scanner.Scan() {
			c.println()
			return scanner.Err()
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch cmd, rest := parts[0], parts[1:]; cmd {
		case "help":
			c.println(replHelp)
		case "status", "s":
			err = c.printStatus(ctx, id)
		case "claim", "get":
			err = c.doClaim(ctx, id)
		case "shop":
			err = c.printShop(ctx, id)
		case "buy", "sell":
			if len(rest) != 1 {
				c.println("Usage: " + cmd + " <item>")
				continue
			}
			intent := shop.IntentBuy
			if cmd == "sell" {
				intent = shop.IntentSell
			}
			var item profiles.Item
			if item, err = profiles.ParseItem(rest[0]); err == nil {
				err = c.doTrade(ctx, id, item, intent)
			}
		case "leaderboard", "lb":
			err = c.printLeaderboard(ctx)
		case "exit", "quit":
			c.println("Bye!")
			return nil
		default:
			c.println("Unknown command:", cmd)
		}

		if err != nil {
			c.println(Message(err))
		}
	}
}
