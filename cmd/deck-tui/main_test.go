package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveProfile(t *testing.T) {
	require.Equal(t, "work", resolveProfile("work", "home"))
	require.Equal(t, "home", resolveProfile("", "home"))
	require.Equal(t, "default", resolveProfile("", ""))
}
