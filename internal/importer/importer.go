// Package importer loads legacy user rows from CSV into the profile store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/kvstore"
	"github.com/dmitrijs2005/buttongame/internal/logging"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
)

// TimeLayout is the format of the next column. A fractional second part is
// accepted after the seconds.
const TimeLayout = "2006-01-02 15:04:05"

var header = []string{"username", "next", "points", "dark_mode", "gay_button", "hash"}

// Row is one parsed CSV record.
type Row struct {
	Username  string
	Next      time.Time
	Points    uint16
	DarkMode  bool
	GayButton bool
	Hash      string
}

// UserData converts the row into a stored record. Ready is left false; it
// is recomputed the first time the profile is viewed.
func (r Row) UserData() profiles.UserData {
	d := profiles.UserData{
		Username:       r.Username,
		CredentialHash: r.Hash,
		Points:         r.Points,
		NextClaim:      r.Next.UTC().Truncate(time.Second),
	}
	if r.GayButton {
		d.Items.Add(profiles.GayButton)
	}
	if r.DarkMode {
		d.Items.Add(profiles.DarkMode)
	}
	return d
}

// Report summarizes an import.
type Report struct {
	Imported []string
	Skipped  []string
}

// Batcher runs fn inside one store transaction.
type Batcher interface {
	Batch(ctx context.Context, fn func(ctx context.Context, tx *kvstore.Store) error) error
}

type Importer struct {
	store  Batcher
	logger logging.Logger
}

func New(store Batcher, logger logging.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// Import reads every row from r and writes the accepted ones in a single
// batch. A username that already exists, in the store or earlier in the
// file, is skipped with a warning. Any parse or write error aborts the
// import and nothing is written.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	var rep Report

	rows, err := ParseCSV(r)
	if err != nil {
		return rep, err
	}

	err = im.store.Batch(ctx, func(ctx context.Context, tx *kvstore.Store) error {
		rep = Report{}
		repo := profiles.NewKVRepository(tx, im.logger)

		taken := map[string]bool{}
		for p, err := range repo.List(ctx) {
			if err != nil {
				return fmt.Errorf("error listing profiles: %w", err)
			}
			taken[p.Data.Username] = true
		}

		for _, row := range rows {
			if taken[row.Username] {
				im.logger.Warn(ctx, "username already exists, skipping", "username", row.Username)
				rep.Skipped = append(rep.Skipped, row.Username)
				continue
			}

			id, err := repo.GenerateID(ctx)
			if err != nil {
				return err
			}
			p := &profiles.Profile{ID: id, Data: row.UserData()}
			if err := repo.Save(ctx, p); err != nil {
				return err
			}
			taken[row.Username] = true
			rep.Imported = append(rep.Imported, row.Username)
			im.logger.Debug(ctx, "imported profile", "id", id, "username", row.Username)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	im.logger.Info(ctx, "import finished", "imported", len(rep.Imported), "skipped", len(rep.Skipped))
	return rep, nil
}

// ParseCSV reads all rows. The first record must be the header; columns
// may appear in any order.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", common.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", common.ErrValidation, err)
	}

	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: csv header is missing column %q", common.ErrValidation, name)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %v", common.ErrValidation, err)
		}

		line, _ := cr.FieldPos(0)
		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", common.ErrValidation, line, err)
		}
		rows = append(rows, row)
	}
}

func parseRow(rec []string, cols map[string]int) (Row, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(rec) {
			return "", fmt.Errorf("missing %s", name)
		}
		return strings.TrimSpace(rec[i]), nil
	}

	var row Row
	var err error
	var s string

	if s, err = field("username"); err != nil {
		return row, err
	}
	if s == "" {
		return row, errors.New("empty username")
	}
	row.Username = s

	if s, err = field("next"); err != nil {
		return row, err
	}
	if row.Next, err = time.ParseInLocation(TimeLayout, s, time.UTC); err != nil {
		return row, fmt.Errorf("next: %v", err)
	}

	if s, err = field("points"); err != nil {
		return row, err
	}
	points, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return row, fmt.Errorf("points: %v", err)
	}
	row.Points = uint16(points)

	if s, err = field("dark_mode"); err != nil {
		return row, err
	}
	if row.DarkMode, err = strconv.ParseBool(s); err != nil {
		return row, fmt.Errorf("dark_mode: %v", err)
	}

	if s, err = field("gay_button"); err != nil {
		return row, err
	}
	if row.GayButton, err = strconv.ParseBool(s); err != nil {
		return row, fmt.Errorf("gay_button: %v", err)
	}

	if row.Hash, err = field("hash"); err != nil {
		return row, err
	}
	return row, nil
}
