package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ledgerCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (l *ledgerCounter) RecordLedgerWrite(outcome string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[outcome]++
}

func TestActivityService_CountsLedgerWrites(t *testing.T) {
	env := newTestEnv(t, "2024-06-01")
	counter := &ledgerCounter{}
	NewActivityService(env.dispatcher, zap.NewNop(), counter).RegisterHandlers()

	jane := env.createJane(t)
	first := env.assign(t, jane.ID, "RIDER", "FARM", "2024-02-01")
	env.assign(t, jane.ID, "RIDER", "FARM", "2024-03-01")
	env.assign(t, jane.ID, "VET", "FARM", "2024-04-01")
	_, err := env.assignments.EndAssignment(context.Background(), jane.ID, first.Assignment.ID, day(t, "2024-03-15"))
	require.NoError(t, err)

	require.Equal(t, map[string]int{
		"created":    1,
		"unchanged":  1,
		"superseded": 1,
		"ended":      1,
	}, counter.counts)
}
