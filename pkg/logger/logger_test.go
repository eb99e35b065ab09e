package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New("debug")
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = New("verbose")
	require.Error(t, err)
}
