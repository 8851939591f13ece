package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting from many goroutines", func(t *testing.T) {
		c := NewCollector()
		c.Start()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.AddAccepted()
				c.AddRejected()
			}()
		}
		wg.Wait()
		c.AddFailed()
		c.AddConquest()
		c.AddConquest()

		got := c.Complete()
		require.Equal(t, 50, got.Accepted)
		require.Equal(t, 50, got.Rejected)
		require.Equal(t, 1, got.Failed)
		require.Equal(t, 2, got.Conquests)
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.AddAccepted()
		require.Equal(t, SessionMetric{}, c.Complete())
	})
}

func TestWriteGameRecords(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	err = w.WriteGameRecords([]GameRecord{
		{ID: 1, Session: "s1", Seed: 42, Players: 3, Winner: "red", Turns: 17, SessionMetric: SessionMetric{Accepted: 400, Rejected: 2, Conquests: 60, Duration: time.Second}},
		{ID: 2, Session: "s2", Seed: 43, Players: 3, Turns: 300},
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(w.Dir(), "game_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3, "Header plus one row per game")
	require.Equal(t, "winner", rows[0][4])
	require.Equal(t, []string{"1", "s1", "42", "3", "red", "17", "400", "2", "0", "60", "1s"}, rows[1])
	require.Equal(t, "", rows[2][4], "Unfinished game has no winner")
}
