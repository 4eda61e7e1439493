package infrastructure

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuCms/internal/modules/menus/domain"
)

func TestActivityLogAppendsJSONLines(t *testing.T) {
	log := NewActivityLog(t.TempDir())
	ctx := context.Background()
	at := time.Date(2024, time.January, 17, 10, 30, 0, 0, time.UTC)

	require.NoError(t, log.Append(ctx, domain.NewActivityEntry(at, "admin", domain.ActivityLogin, nil, "10.0.0.1")))
	require.NoError(t, log.Append(ctx, domain.NewActivityEntry(at, "admin", domain.ActivityMenuSaved, map[string]string{"restaurant": "bufet", "week": "2024-01-15"}, "10.0.0.1")))

	f, err := os.Open(log.Path())
	require.NoError(t, err)
	defer f.Close()

	var entries []domain.ActivityEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry domain.ActivityEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-17 10:30:00", entries[0].Timestamp)
	assert.Equal(t, domain.ActivityMenuSaved, entries[1].Action)
	assert.Equal(t, "bufet", entries[1].Details["restaurant"])
}

func TestActivityLogConcurrentAppends(t *testing.T) {
	log := NewActivityLog(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Append(ctx, domain.NewActivityEntry(time.Now(), "admin", domain.ActivityMenuSaved, nil, "")))
		}()
	}
	wg.Wait()

	f, err := os.Open(log.Path())
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry domain.ActivityEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "line %d must be whole JSON", lines)
		lines++
	}
	assert.Equal(t, 20, lines)
}
