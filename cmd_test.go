package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"serve", "ask", "image"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"ask"})

	assert.Error(t, cmd.Execute())
}

func TestImageCmd_OutFlag(t *testing.T) {
	cmd := newImageCmd(&rootOptions{})

	flag := cmd.Flags().Lookup("out")
	require.NotNil(t, flag)
	assert.Equal(t, "image.png", flag.DefValue)
	assert.Equal(t, "o", flag.Shorthand)
}
