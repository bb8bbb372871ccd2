package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/credentials"
	"github.com/dmitrijs2005/buttongame/internal/importer"
	"github.com/dmitrijs2005/buttongame/internal/leaderboard"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
	"github.com/dmitrijs2005/buttongame/internal/services"
	"github.com/dmitrijs2005/buttongame/internal/shop"
)

// Game is the service surface the CLI drives.
type Game interface {
	Register(ctx context.Context, username, credentialHash string) (*profiles.Profile, error)
	FindByUsername(ctx context.Context, username string) (*profiles.Profile, error)
	View(ctx context.Context, id string) (*services.View, error)
	Claim(ctx context.Context, id string) (*services.ClaimResult, error)
	BuyOrSell(ctx context.Context, id string, item profiles.Item, intent shop.Intent) (*profiles.Profile, shop.Result, error)
	Shop(ctx context.Context, id string) ([]shop.Listing, error)
	Leaderboard(ctx context.Context) ([]leaderboard.Entry, error)
	SetPoints(ctx context.Context, username string, points uint16) (*profiles.Profile, error)
}

type Importer interface {
	Import(ctx context.Context, r io.Reader) (importer.Report, error)
}

type CLI struct {
	game       Game
	importer   Importer
	bcryptCost int
	reader     *bufio.Reader
	out        io.Writer
}

func New(game Game, imp Importer, bcryptCost int, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		game:       game,
		importer:   imp,
		bcryptCost: bcryptCost,
		reader:     bufio.NewReader(in),
		out:        out,
	}
}

func (c *CLI) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *CLI) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// authenticate asks for the password of username and checks it. Unknown
// users and wrong passwords are reported the same way.
func (c *CLI) authenticate(ctx context.Context, username string) (*profiles.Profile, error) {
	password, err := GetPassword(c.reader, c.out)
	if err != nil {
		return nil, err
	}
	defer credentials.Wipe(password)
	if username == "" || len(password) == 0 {
		return nil, common.ErrUnauthorized
	}

	p, err := c.game.FindByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	ok, err := credentials.Verify(p.Data.CredentialHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return p, nil
}

// lookup resolves username to a profile id without asking for a password.
func (c *CLI) lookup(ctx context.Context, username string) (string, error) {
	p, err := c.game.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// Message turns an error returned by Run into the line shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return err.Error()
	case errors.Is(err, common.ErrUnauthorized):
		return "Incorrect username/password"
	case errors.Is(err, common.ErrDuplicateUsername):
		return "Account already exists"
	case errors.Is(err, common.ErrNotFound):
		return "No such user"
	case errors.Is(err, common.ErrInvalidItem):
		return "Unknown item"
	case errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, common.ErrStoreUnavailable):
		return "Store unavailable: " + err.Error()
	case errors.Is(err, common.ErrDataCorruption):
		return "Stored data is corrupt: " + err.Error()
	default:
		return err.Error()
	}
}
