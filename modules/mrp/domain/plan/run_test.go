package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMRPRun_Terminal(t *testing.T) {
	require.False(t, (&MRPRun{Status: RunStatusCreated}).Terminal())
	require.False(t, (&MRPRun{Status: RunStatusRunning}).Terminal())
	require.True(t, (&MRPRun{Status: RunStatusCompleted}).Terminal())
	require.True(t, (&MRPRun{Status: RunStatusFailed}).Terminal())
}
