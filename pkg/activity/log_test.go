package activity_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/activity"
)

func TestFileLog_AppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	log, err := activity.OpenFileLog(path)
	require.NoError(t, err)
	assert.Equal(t, path, log.Path())

	require.NoError(t, log.Append("one"))
	require.NoError(t, log.Append("two"))
	require.NoError(t, log.Append("three"))
	require.NoError(t, log.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(raw))

	last, err := activity.Tail(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, last)

	all, err := activity.Tail(path, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFileLog_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0644))

	log, err := activity.OpenFileLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Append("later"))
	require.NoError(t, log.Close())

	lines, err := activity.Tail(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"earlier", "later"}, lines)
}

func TestFileLog_Closed(t *testing.T) {
	log, err := activity.OpenFileLog(filepath.Join(t.TempDir(), "activity.log"))
	require.NoError(t, err)

	require.NoError(t, log.Close())
	require.NoError(t, log.Close(), "close is idempotent")
	assert.Error(t, log.Append("late"))
}

func TestFileLog_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	log, err := activity.OpenFileLog(path)
	require.NoError(t, err)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				assert.NoError(t, log.Append(fmt.Sprintf("writer-%d line-%d", w, i)))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, log.Close())

	lines, err := activity.Tail(path, 0)
	require.NoError(t, err)
	require.Len(t, lines, writers*perWriter)
	for _, line := range lines {
		assert.Regexp(t, `^writer-\d+ line-\d+$`, line)
	}
}

func TestTail_MissingFile(t *testing.T) {
	lines, err := activity.Tail(filepath.Join(t.TempDir(), "nope.log"), 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOpenFileLog_MissingDirectory(t *testing.T) {
	_, err := activity.OpenFileLog(filepath.Join(t.TempDir(), "missing", "activity.log"))
	assert.Error(t, err)
}
