package gitboot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, GenCompletion(NewRootCmd(), shell, &buf))
			assert.Contains(t, buf.String(), "gitboot")
		})
	}

	var buf bytes.Buffer
	err := GenCompletion(NewRootCmd(), "tcsh", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tcsh")
}

func TestGenManPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenManPage(NewRootCmd(), &buf))
	assert.Contains(t, buf.String(), "GITBOOT")
	assert.Contains(t, buf.String(), "identity")
}
