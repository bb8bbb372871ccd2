package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	got, err := GetSimpleText(in, "Name?", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Name?", &bytes.Buffer{})
	require.Error(t, err)
}

func TestGetPassword_Piped(t *testing.T) {
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })

	in := bufio.NewReader(strings.NewReader("p@ss word\r\nnext\n"))
	pw, err := GetPassword(in, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "p@ss word", string(pw))

	pw, err = GetPassword(bufio.NewReader(strings.NewReader("noeol")), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "noeol", string(pw))

	_, err = GetPassword(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})
	require.Error(t, err)
}
