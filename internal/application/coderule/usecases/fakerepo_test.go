package usecases

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"sequor/internal/domain/coderule"
	"sequor/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeRuleRepo is an in-memory Repository with the same compare-and-set
// semantics as the database implementation. Reads hand out snapshots so
// concurrent callers plan against stale state exactly like they would
// against real rows.
type fakeRuleRepo struct {
	mu     sync.Mutex
	nextID uint
	rules  map[string]*coderule.CodeRule // keyed by entity code

	failCAS   int // force this many CAS misses before behaving normally
	casErr    error
	getErr    error
	updateErr error
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{
		nextID: 1,
		rules:  map[string]*coderule.CodeRule{},
	}
}

func cloneRule(r *coderule.CodeRule) *coderule.CodeRule {
	return coderule.ReconstructCodeRule(
		r.ID(), r.SID(), r.EntityCode(), r.EntityName(), r.EntityNameEN(),
		r.Description(), r.Prefix(), r.Separator(), r.DigitLength(),
		r.UseDate(), r.DateFormat(), r.ResetCycle(),
		r.CurrentNumber(), r.LastPeriodKey(),
		r.IsActive(), r.IsDeleted(), r.MetaData(),
		r.CreatedAt(), r.UpdatedAt(),
	)
}

func (f *fakeRuleRepo) Create(_ context.Context, rule *coderule.CodeRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rules[rule.EntityCode()]; ok {
		return coderule.ErrDuplicateEntityCode
	}
	rule.SetID(f.nextID)
	f.nextID++
	f.rules[rule.EntityCode()] = cloneRule(rule)
	return nil
}

func (f *fakeRuleRepo) Update(_ context.Context, rule *coderule.CodeRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.rules[rule.EntityCode()]
	if !ok {
		return coderule.ErrRuleNotFound
	}
	updated := cloneRule(rule)
	// Counter fields stay under CAS control.
	f.rules[rule.EntityCode()] = coderule.ReconstructCodeRule(
		updated.ID(), updated.SID(), updated.EntityCode(), updated.EntityName(),
		updated.EntityNameEN(), updated.Description(), updated.Prefix(),
		updated.Separator(), updated.DigitLength(), updated.UseDate(),
		updated.DateFormat(), updated.ResetCycle(),
		stored.CurrentNumber(), stored.LastPeriodKey(),
		updated.IsActive(), updated.IsDeleted(), updated.MetaData(),
		updated.CreatedAt(), updated.UpdatedAt(),
	)
	return nil
}

func (f *fakeRuleRepo) GetByEntityCode(_ context.Context, entityCode string) (*coderule.CodeRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	// Soft-deleted rules stay visible here, mirroring the real repository;
	// allocation refuses them as inactive.
	rule, ok := f.rules[strings.ToUpper(entityCode)]
	if !ok {
		return nil, coderule.ErrRuleNotFound
	}
	return cloneRule(rule), nil
}

func (f *fakeRuleRepo) GetBySID(_ context.Context, sid string) (*coderule.CodeRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, rule := range f.rules {
		if rule.SID() == sid && !rule.IsDeleted() {
			return cloneRule(rule), nil
		}
	}
	return nil, coderule.ErrRuleNotFound
}

func (f *fakeRuleRepo) List(_ context.Context, filter coderule.ListFilter) ([]*coderule.CodeRule, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*coderule.CodeRule
	for _, rule := range f.rules {
		if rule.IsDeleted() {
			continue
		}
		if filter.IsActive != nil && rule.IsActive() != *filter.IsActive {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(rule.EntityCode(), strings.ToUpper(filter.Keyword)) {
			continue
		}
		out = append(out, cloneRule(rule))
	}
	return out, int64(len(out)), nil
}

func (f *fakeRuleRepo) CompareAndSetCounter(_ context.Context, ruleID uint, prevNumber int64, prevPeriodKey string, nextNumber int64, nextPeriodKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.casErr != nil {
		return false, f.casErr
	}
	if f.failCAS > 0 {
		f.failCAS--
		return false, nil
	}
	for code, rule := range f.rules {
		if rule.ID() != ruleID {
			continue
		}
		if rule.CurrentNumber() != prevNumber || rule.LastPeriodKey() != prevPeriodKey {
			return false, nil
		}
		f.rules[code] = coderule.ReconstructCodeRule(
			rule.ID(), rule.SID(), rule.EntityCode(), rule.EntityName(),
			rule.EntityNameEN(), rule.Description(), rule.Prefix(),
			rule.Separator(), rule.DigitLength(), rule.UseDate(),
			rule.DateFormat(), rule.ResetCycle(),
			nextNumber, nextPeriodKey,
			rule.IsActive(), rule.IsDeleted(), rule.MetaData(),
			rule.CreatedAt(), rule.UpdatedAt(),
		)
		return true, nil
	}
	return false, nil
}
