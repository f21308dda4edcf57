package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sequor/internal/domain/coderule"
	apperrors "sequor/internal/shared/errors"
)

func seedRule(t *testing.T, repo *fakeRuleRepo, entityCode, prefix, separator string, digitLength int, useDate bool, dateFormat coderule.DateFormat, cycle coderule.ResetCycle) *coderule.CodeRule {
	t.Helper()
	rule, err := coderule.NewCodeRule(entityCode, entityCode, prefix, separator, digitLength, useDate, dateFormat, cycle)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), rule))
	return rule
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestAllocateCode_Sequential(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "PARTNER", "PTN", "-", 4, false, "", coderule.ResetCycleNone)

	uc := NewAllocateCodeUseCase(repo, nil, testLogger())

	first, err := uc.Execute(context.Background(), "PARTNER")
	require.NoError(t, err)
	assert.Equal(t, "PTN-0001", first.Code)
	assert.Equal(t, int64(1), first.SequenceNumber)

	second, err := uc.Execute(context.Background(), "PARTNER")
	require.NoError(t, err)
	assert.Equal(t, "PTN-0002", second.Code)

	third, err := uc.Execute(context.Background(), "partner")
	require.NoError(t, err)
	assert.Equal(t, "PTN-0003", third.Code, "entity code lookup is case-insensitive")
}

func TestAllocateCode_ConcurrentAllocationsAreUniqueAndGapless(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "ORDER", "ORD", "-", 6, false, "", coderule.ResetCycleNone)

	const workers = 100

	uc := NewAllocateCodeUseCase(repo, nil, testLogger()).
		WithRetryPolicy(workers+10, time.Microsecond)

	var wg sync.WaitGroup
	results := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.Execute(context.Background(), "ORDER")
			if assert.NoError(t, err) {
				results <- out.SequenceNumber
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for seq := range results {
		assert.False(t, seen[seq], "sequence %d allocated twice", seq)
		seen[seq] = true
	}
	require.Len(t, seen, workers)
	for i := int64(1); i <= workers; i++ {
		assert.True(t, seen[i], "sequence %d missing", i)
	}

	stored, err := repo.GetByEntityCode(context.Background(), "ORDER")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), stored.CurrentNumber())
}

func TestAllocateCode_DailyRollover(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "ORDER", "ORD", "", 4, true, coderule.DateFormatYYMMDD, coderule.ResetCycleDaily)

	day1 := time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	uc := NewAllocateCodeUseCase(repo, nil, testLogger()).WithClock(fixedClock(day1))

	_, err := uc.Execute(context.Background(), "ORDER")
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), "ORDER")
	require.NoError(t, err)
	assert.Equal(t, "ORD2501040002", out.Code)
	assert.Equal(t, "2025-01-04", out.PeriodKey)

	uc.WithClock(fixedClock(day2))
	out, err = uc.Execute(context.Background(), "ORDER")
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.SequenceNumber, "counter restarts on a new day")
	assert.Equal(t, "ORD2501050001", out.Code)
	assert.Equal(t, "2025-01-05", out.PeriodKey)
}

func TestAllocateCode_YearlyRolloverKeepsCounterWithinYear(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "INVOICE", "INV", "-", 5, true, coderule.DateFormatYYYY, coderule.ResetCycleYearly)

	december := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	january := time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)

	uc := NewAllocateCodeUseCase(repo, nil, testLogger()).WithClock(fixedClock(december))

	out, err := uc.Execute(context.Background(), "INVOICE")
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-00001", out.Code)

	uc.WithClock(fixedClock(january))
	out, err = uc.Execute(context.Background(), "INVOICE")
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", out.Code)
	assert.Equal(t, "2026", out.PeriodKey)
}

func TestAllocateCode_Overflow(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "TINY", "T", "-", 2, false, "", coderule.ResetCycleNone)

	uc := NewAllocateCodeUseCase(repo, nil, testLogger()).WithRetryPolicy(5, 0)

	for i := 1; i <= 99; i++ {
		_, err := uc.Execute(context.Background(), "TINY")
		require.NoError(t, err)
	}

	_, err := uc.Execute(context.Background(), "TINY")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))

	stored, err := repo.GetByEntityCode(context.Background(), "TINY")
	require.NoError(t, err)
	assert.Equal(t, int64(99), stored.CurrentNumber(), "overflow leaves the counter untouched")
}

func TestAllocateCode_OverflowNotifiesCapacityAlert(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "TINY", "T", "-", 1, false, "", coderule.ResetCycleNone)

	notifier := &recordingNotifier{}
	uc := NewAllocateCodeUseCase(repo, notifier, testLogger())

	for i := 1; i <= 9; i++ {
		_, err := uc.Execute(context.Background(), "TINY")
		require.NoError(t, err)
	}
	_, err := uc.Execute(context.Background(), "TINY")
	require.Error(t, err)

	assert.Equal(t, 1, notifier.overflows)
	assert.Equal(t, "TINY", notifier.lastEntityCode)
}

func TestAllocateCode_InactiveRule(t *testing.T) {
	repo := newFakeRuleRepo()
	rule := seedRule(t, repo, "PARTNER", "PTN", "-", 4, false, "", coderule.ResetCycleNone)
	rule.Deactivate()
	require.NoError(t, repo.Update(context.Background(), rule))

	uc := NewAllocateCodeUseCase(repo, nil, testLogger())

	_, err := uc.Execute(context.Background(), "PARTNER")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestAllocateCode_SoftDeletedRule(t *testing.T) {
	repo := newFakeRuleRepo()
	rule := seedRule(t, repo, "PARTNER", "PTN", "-", 4, false, "", coderule.ResetCycleNone)
	rule.SoftDelete()
	require.NoError(t, repo.Update(context.Background(), rule))

	uc := NewAllocateCodeUseCase(repo, nil, testLogger())

	_, err := uc.Execute(context.Background(), "PARTNER")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err), "deleted rules are inactive, not missing")
}

func TestAllocateCode_UnknownEntityCode(t *testing.T) {
	repo := newFakeRuleRepo()
	uc := NewAllocateCodeUseCase(repo, nil, testLogger())

	_, err := uc.Execute(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestAllocateCode_RecoversFromTransientContention(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "PARTNER", "PTN", "-", 4, false, "", coderule.ResetCycleNone)
	repo.failCAS = 2

	uc := NewAllocateCodeUseCase(repo, nil, testLogger()).WithRetryPolicy(5, 0)

	out, err := uc.Execute(context.Background(), "PARTNER")
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.SequenceNumber)
}

func TestAllocateCode_ContentionExhausted(t *testing.T) {
	repo := newFakeRuleRepo()
	seedRule(t, repo, "PARTNER", "PTN", "-", 4, false, "", coderule.ResetCycleNone)
	repo.failCAS = 1000

	uc := NewAllocateCodeUseCase(repo, nil, testLogger()).WithRetryPolicy(3, 0)

	_, err := uc.Execute(context.Background(), "PARTNER")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailableError(err))
}

type recordingNotifier struct {
	mu             sync.Mutex
	overflows      int
	thresholds     int
	lastEntityCode string
}

func (n *recordingNotifier) NotifySequenceOverflow(entityCode string, _ int, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.overflows++
	n.lastEntityCode = entityCode
}

func (n *recordingNotifier) NotifyCapacityThreshold(entityCode string, _, _ int64, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.thresholds++
	n.lastEntityCode = entityCode
}
