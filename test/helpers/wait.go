// test/helpers/wait.go
package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Eventually waits for cond with the timings used across the suite.
func Eventually(t *testing.T, cond func() bool, msgAndArgs ...interface{}) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msgAndArgs...)
}

// Never asserts cond stays false for a short window.
func Never(t *testing.T, cond func() bool, msgAndArgs ...interface{}) {
	t.Helper()
	require.Never(t, cond, 100*time.Millisecond, 5*time.Millisecond, msgAndArgs...)
}
