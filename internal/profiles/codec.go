package profiles

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/buttongame/internal/common"
)

// Record layout, all integers little-endian:
//
//	u64 len | username
//	u64 len | credential hash
//	u16       points
//	i64       next claim, unix seconds
//	u8        ready (0 or 1)
//	u64 count | count x u8 item code

var errShortRecord = errors.New("record truncated")

// Encode serializes d into its persisted form.
func Encode(d UserData) []byte {
	size := 8 + len(d.Username) + 8 + len(d.CredentialHash) + 2 + 8 + 1 + 8 + len(d.Items)
	buf := make([]byte, 0, size)

	buf = appendString(buf, d.Username)
	buf = appendString(buf, d.CredentialHash)
	buf = binary.LittleEndian.AppendUint16(buf, d.Points)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(d.NextClaim.Unix()))
	if d.Ready {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(d.Items)))
	for _, it := range d.Items {
		buf = append(buf, byte(it))
	}
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

// Decode parses a persisted record. Any malformed input is reported as
// common.ErrDataCorruption.
func Decode(b []byte) (UserData, error) {
	d, err := decode(b)
	if err != nil {
		return UserData{}, fmt.Errorf("%w: %v", common.ErrDataCorruption, err)
	}
	return d, nil
}

type reader struct {
	b []byte
}

func (r *reader) take(n uint64) ([]byte, error) {
	if uint64(len(r.b)) < n {
		return nil, errShortRecord
	}
	out := r.b[:n]
	r.b = r.b[n:]
	return out, nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) str(field string) (string, error) {
	n, err := r.u64()
	if err != nil {
		return "", fmt.Errorf("%s length: %w", field, err)
	}
	b, err := r.take(n)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: invalid utf-8", field)
	}
	return string(b), nil
}

func decode(b []byte) (UserData, error) {
	var (
		d   UserData
		err error
	)
	r := &reader{b: b}

	if d.Username, err = r.str("username"); err != nil {
		return d, err
	}
	if d.CredentialHash, err = r.str("credential hash"); err != nil {
		return d, err
	}

	pts, err := r.take(2)
	if err != nil {
		return d, fmt.Errorf("points: %w", err)
	}
	d.Points = binary.LittleEndian.Uint16(pts)

	next, err := r.u64()
	if err != nil {
		return d, fmt.Errorf("next claim: %w", err)
	}
	d.NextClaim = time.Unix(int64(next), 0).UTC()

	ready, err := r.take(1)
	if err != nil {
		return d, fmt.Errorf("ready: %w", err)
	}
	switch ready[0] {
	case 0:
		d.Ready = false
	case 1:
		d.Ready = true
	default:
		return d, fmt.Errorf("ready: invalid flag %d", ready[0])
	}

	count, err := r.u64()
	if err != nil {
		return d, fmt.Errorf("item count: %w", err)
	}
	codes, err := r.take(count)
	if err != nil {
		return d, fmt.Errorf("items: %w", err)
	}
	d.Items = make(ItemSet, 0, len(codes))
	for _, c := range codes {
		item := Item(c)
		if !item.Valid() {
			return d, fmt.Errorf("items: unknown code %d", c)
		}
		if d.Items.Has(item) {
			return d, fmt.Errorf("items: duplicate %s", item)
		}
		d.Items = append(d.Items, item)
	}

	if len(r.b) != 0 {
		return d, fmt.Errorf("%d trailing bytes", len(r.b))
	}
	return d, nil
}
