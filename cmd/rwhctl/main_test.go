package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "rwhctl", root.Use)
	assert.True(t, root.SilenceUsage)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"assess", "render", "trends", "validate"})

	out := root.PersistentFlags().Lookup("output")
	require.NotNil(t, out)
	assert.Equal(t, "o", out.Shorthand)
	assert.Equal(t, "json", out.DefValue)
}
