package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	e := New()
	if _, err := e.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	tests := []struct {
		name       string
		script     string
		wantOut    string
		wantErrSub string
	}{
		{name: "stdout returned", script: "echo hallo", wantOut: "hallo\n"},
		{name: "stderr in error", script: "echo kaputt >&2; exit 3", wantErrSub: "stderr: kaputt"},
		{name: "exit without stderr", script: "exit 1", wantErrSub: "command 'sh' failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Execute(context.Background(), "sh", "-c", tt.script)
			if tt.wantErrSub != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrSub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	e := New()
	if _, err := e.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := e.Execute(ctx, "sleep", "5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n"))

	long := strings.Repeat("a", stderrTail) + "END"
	got := tail(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "END"))
	assert.Len(t, got, stderrTail+3)
}
