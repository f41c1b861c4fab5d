package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskUntil(t *testing.T) {
	var out bytes.Buffer
	a := NewAsker(strings.NewReader("\n  nope  \n./project\n"), &out)

	got, err := a.AskUntil("Enter the root directory path: ", func(s string) error {
		if s != "./project" {
			return errors.New("the specified path is not a valid directory")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "./project", got)
	assert.Equal(t, 2, strings.Count(out.String(), "Please try again."))
}

func TestAskLastLineWithoutNewline(t *testing.T) {
	a := NewAsker(strings.NewReader("out.txt"), &bytes.Buffer{})
	got, err := a.Ask("Output: ")
	require.NoError(t, err)
	assert.Equal(t, "out.txt", got)

	_, err = a.Ask("Again: ")
	assert.Error(t, err)
}
