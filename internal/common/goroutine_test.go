package common

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestSafeFunc_ReturnsError(t *testing.T) {
	want := errors.New("boom")
	fn := SafeFunc(arbor.NewLogger(), "worker", func() error { return want })
	assert.Equal(t, want, fn())
}

func TestSafeFunc_RecoversPanic(t *testing.T) {
	fn := SafeFunc(arbor.NewLogger(), "worker", func() error { panic("bad state") })

	err := fn()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in worker: bad state")
}

func TestWriteCrashFile(t *testing.T) {
	InstallCrashHandler(t.TempDir())

	path := WriteCrashFile("bad state", "goroutine 1 [running]:")
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "=== SPECTORR CRASH REPORT ==="))
	assert.Contains(t, string(data), "bad state")
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.True(t, strings.HasPrefix(a, "run_"))
	assert.NotEqual(t, a, b)
}
