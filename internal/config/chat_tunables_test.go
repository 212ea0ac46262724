package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatTunablesSnapshotAndUpdate(t *testing.T) {
	tun := NewChatTunables(ChatConfig{HistoryWindow: 5})
	assert.Equal(t, 5, tun.Snapshot().HistoryWindow)

	tun.Update(ChatConfig{HistoryWindow: 9})
	assert.Equal(t, 9, tun.Snapshot().HistoryWindow)
}

func TestChatTunablesConcurrentReload(t *testing.T) {
	tun := NewChatTunables(ChatConfig{HistoryWindow: 0, AssessmentMaxTurns: 0})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c := tun.Snapshot()
				if c.HistoryWindow != c.AssessmentMaxTurns {
					t.Errorf("torn snapshot: %d vs %d", c.HistoryWindow, c.AssessmentMaxTurns)
					return
				}
			}
		}()
	}
	for j := 1; j <= 1000; j++ {
		tun.Update(ChatConfig{HistoryWindow: j, AssessmentMaxTurns: j})
	}
	wg.Wait()
}
