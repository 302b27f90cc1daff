package toggle_availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/memory"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	sharedRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/shareddoc"
	rosterService "github.com/m04kA/SMC-AvailabilityService/internal/service/roster"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/retry"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type staticRoster struct {
	entries []domain.RosterEntry
}

func (s staticRoster) GetEntries(context.Context) ([]domain.RosterEntry, error) {
	return s.entries, nil
}

type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

type zeroRand struct{}

func (zeroRand) Int64N(int64) int64 { return 0 }

type countingRecorder struct {
	mu        sync.Mutex
	conflicts int
	writes    map[string]int
}

func (c *countingRecorder) IncWriteConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conflicts++
}

func (c *countingRecorder) ObserveWrite(strategy, state string, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writes == nil {
		c.writes = map[string]int{}
	}
	c.writes[strategy+"/"+state]++
}

type fixture struct {
	store   *memory.Store
	records *availabilityRepo.Repository
	shared  *sharedRepo.Repository
	reader  *get_availability.UseCase
	roster  *rosterService.Service

	sharedReader *get_availability.UseCase
}

func newFixture(names ...string) *fixture {
	entries := make([]domain.RosterEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, domain.RosterEntry{DisplayName: n, Role: domain.RolePlayer})
	}

	store := memory.NewStore()
	roster := rosterService.NewService(staticRoster{entries: entries}, nil, nopLogger{})
	records := availabilityRepo.NewRepository(store)
	shared := sharedRepo.NewRepository(store)

	return &fixture{
		store:   store,
		records: records,
		shared:  shared,
		roster:  roster,
		reader:  get_availability.NewUseCase(roster, records, nil, get_availability.Options{Concurrency: 4}, nopLogger{}),

		sharedReader: get_availability.NewUseCase(roster, records, shared, get_availability.Options{
			Source: get_availability.SourceShared,
		}, nopLogger{}),
	}
}

// readerFor возвращает агрегатор, читающий тот же источник, что пишет стратегия
func (f *fixture) readerFor(strategy Strategy) *get_availability.UseCase {
	if strategy == StrategyShared {
		return f.sharedReader
	}
	return f.reader
}

func (f *fixture) useCase(strategy Strategy, recorder WriteRecorder) *UseCase {
	return NewUseCase(f.roster, f.records, f.readerFor(strategy), f.shared, Config{
		Strategy: strategy,
		Retry:    retry.Policy{Sleeper: noSleep{}},
	}, recorder, nopLogger{})
}

func toggle(t *testing.T, uc *UseCase, identity, slot string, available bool) *Response {
	t.Helper()
	resp, err := uc.Execute(context.Background(), &Request{Identity: identity, SlotKey: slot, Available: &available})
	require.NoError(t, err)
	return resp
}

func TestUseCase_AliceBobScenario(t *testing.T) {
	const slot = "2025-06-02|19"

	for _, strategy := range []Strategy{StrategySharded, StrategyShared} {
		t.Run(string(strategy), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture("Alice", "Bob")
			uc := f.useCase(strategy, nil)
			reader := f.readerFor(strategy)

			readSlot := func() []string {
				view, err := reader.Execute(ctx)
				require.NoError(t, err)
				assert.False(t, view.Degraded)
				return view.Aggregate.Slots[slot]
			}

			resp := toggle(t, uc, "Alice", slot, true)
			assert.Equal(t, []string{"Alice"}, resp.Attendees)
			assert.Equal(t, slot, resp.SlotKey)
			assert.Equal(t, []string{"Alice"}, readSlot())

			resp = toggle(t, uc, "bob", slot, true)
			assert.Equal(t, []string{"Alice", "Bob"}, resp.Attendees)
			assert.Equal(t, []string{"Alice", "Bob"}, readSlot())

			resp = toggle(t, uc, "alice", slot, false)
			assert.Equal(t, []string{"Bob"}, resp.Attendees)
			assert.Equal(t, []string{"Bob"}, readSlot())

			resp = toggle(t, uc, "BOB", slot, false)
			assert.Empty(t, resp.Attendees)

			view, err := reader.Execute(ctx)
			require.NoError(t, err)
			assert.NotContains(t, view.Aggregate.Slots, slot)
		})
	}
}

func TestUseCase_SharedReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture("Alice", "Bob")
	uc := f.useCase(StrategyShared, nil)

	resp := toggle(t, uc, "Alice", "2025-06-02|19", true)
	toggle(t, uc, "bob", "2025-06-04|21", true)

	view, err := f.sharedReader.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"2025-06-02|19": {"Alice"},
		"2025-06-04|21": {"Bob"},
	}, view.Aggregate.Slots)
	assert.False(t, view.Aggregate.UpdatedAt.IsZero())
	assert.Equal(t, []string{"Alice"}, resp.Attendees)

	_, err = f.store.Get(ctx, availabilityRepo.UserBlobKey("Alice"))
	assert.Error(t, err)
}

func TestUseCase_ShardedReadAfterWrite(t *testing.T) {
	f := newFixture("Alice", "Bob")
	uc := f.useCase(StrategySharded, nil)

	toggle(t, uc, "Alice", "2025-06-02|19", true)
	toggle(t, uc, "bob", "2025-06-02|19", true)

	view, err := f.reader.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"2025-06-02|19": {"Alice", "Bob"}}, view.Aggregate.Slots)
}

func TestUseCase_Idempotent(t *testing.T) {
	for _, strategy := range []Strategy{StrategySharded, StrategyShared} {
		t.Run(string(strategy), func(t *testing.T) {
			f := newFixture("Alice")
			uc := f.useCase(strategy, nil)

			first := toggle(t, uc, "Alice", "2025-06-02|19", true)
			second := toggle(t, uc, "Alice", "2025-06-02|19", true)
			assert.Equal(t, first.Attendees, second.Attendees)

			toggle(t, uc, "Alice", "2025-06-02|19", false)
			again := toggle(t, uc, "Alice", "2025-06-02|19", false)
			assert.Empty(t, again.Attendees)
		})
	}
}

func TestUseCase_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture("Alice", "Bob")
	uc := f.useCase(StrategySharded, nil)

	toggle(t, uc, "Bob", "2025-06-03|20", true)
	before, err := f.store.Get(ctx, availabilityRepo.UserBlobKey("Bob"))
	require.NoError(t, err)

	toggle(t, uc, "Alice", "2025-06-03|20", true)
	toggle(t, uc, "Alice", "2025-06-04|21", true)
	toggle(t, uc, "Alice", "2025-06-03|20", false)

	after, err := f.store.Get(ctx, availabilityRepo.UserBlobKey("Bob"))
	require.NoError(t, err)
	assert.Equal(t, before.ETag, after.ETag)
	assert.Equal(t, before.Data, after.Data)
}

func TestUseCase_CollidingStorageKeysRefused(t *testing.T) {
	ctx := context.Background()
	f := newFixture("Zoé", "Zoë", "Alice")
	uc := f.useCase(StrategySharded, nil)

	yes := true
	_, err := uc.Execute(ctx, &Request{Identity: "Zoé", SlotKey: "2025-06-02|19", Available: &yes})
	assert.ErrorIs(t, err, ErrForbidden)

	keys, err := f.store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	resp := toggle(t, uc, "Alice", "2025-06-02|19", true)
	assert.Equal(t, []string{"Alice"}, resp.Attendees)
}

func TestUseCase_Validation(t *testing.T) {
	f := newFixture("Alice")
	uc := f.useCase(StrategySharded, nil)
	yes := true

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "unknown member", req: &Request{Identity: "mallory", SlotKey: "2025-06-02|19", Available: &yes}, wantErr: ErrForbidden},
		{name: "unknown member with bad slot", req: &Request{Identity: "mallory", SlotKey: "nope", Available: &yes}, wantErr: ErrForbidden},
		{name: "empty identity", req: &Request{Identity: "", SlotKey: "2025-06-02|19", Available: &yes}, wantErr: ErrForbidden},
		{name: "missing slot", req: &Request{Identity: "Alice", Available: &yes}, wantErr: ErrInvalidInput},
		{name: "hour out of range", req: &Request{Identity: "Alice", SlotKey: "2025-06-02|23", Available: &yes}, wantErr: ErrInvalidSlotKey},
		{name: "impossible date", req: &Request{Identity: "Alice", SlotKey: "2025-02-30|19", Available: &yes}, wantErr: ErrInvalidSlotKey},
		{name: "missing state", req: &Request{Identity: "Alice", SlotKey: "2025-06-02|19"}, wantErr: ErrInvalidInput},
		{name: "unknown legacy state", req: &Request{Identity: "Alice", SlotKey: "2025-06-02|19", State: "maybe"}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	keys, err := f.store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys, "rejected requests must not write")
}

func TestUseCase_LegacyState(t *testing.T) {
	f := newFixture("Alice")
	uc := f.useCase(StrategySharded, nil)

	resp, err := uc.Execute(context.Background(), &Request{Identity: "Alice", SlotKey: "2025-06-02|19", State: "available"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, resp.Attendees)

	resp, err = uc.Execute(context.Background(), &Request{Identity: "Alice", SlotKey: "2025-06-02|19", State: "clear"})
	require.NoError(t, err)
	assert.Empty(t, resp.Attendees)
}

func TestUseCase_SharedConcurrentWritersConverge(t *testing.T) {
	const writers = 8
	names := make([]string, 0, writers)
	for i := 0; i < writers; i++ {
		names = append(names, fmt.Sprintf("player%d", i))
	}
	f := newFixture(names...)
	recorder := &countingRecorder{}
	uc := f.useCase(StrategyShared, recorder)

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			yes := true
			_, errs[i] = uc.Execute(context.Background(), &Request{Identity: name, SlotKey: "2025-06-02|19", Available: &yes})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	doc, _, err := f.shared.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SortDisplayNames(names), doc.Slots["2025-06-02|19"])
	assert.Equal(t, writers, recorder.writes["shared/done"])
}

type alwaysConflicting struct {
	loads int
	saves int
}

func (a *alwaysConflicting) Load(context.Context) (*domain.SharedDocument, string, error) {
	a.loads++
	return domain.NewSharedDocument(), "stale", nil
}

func (a *alwaysConflicting) SaveIfMatch(context.Context, *domain.SharedDocument, string) (string, error) {
	a.saves++
	return "", sharedRepo.ErrVersionConflict
}

func TestUseCase_SharedGivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture("Alice")
	shared := &alwaysConflicting{}
	sleeper := &recordingSleeper{}
	recorder := &countingRecorder{}

	policy := retry.DefaultPolicy()
	policy.Sleeper = sleeper
	policy.Rand = zeroRand{}

	uc := NewUseCase(f.roster, f.records, f.reader, shared, Config{
		Strategy: StrategyShared,
		Retry:    policy,
	}, recorder, nopLogger{})

	yes := true
	_, err := uc.Execute(context.Background(), &Request{Identity: "Alice", SlotKey: "2025-06-02|19", Available: &yes})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, retry.DefaultMaxAttempts, shared.loads)
	assert.Equal(t, retry.DefaultMaxAttempts, shared.saves)
	assert.Equal(t, retry.DefaultMaxAttempts, recorder.conflicts)
	assert.Equal(t, 1, recorder.writes["shared/conflict"])

	require.Len(t, sleeper.delays, retry.DefaultMaxAttempts-1)
	for i, d := range sleeper.delays {
		attempt := i + 1
		assert.Equal(t, retry.DefaultBaseDelay+time.Duration(attempt)*retry.DefaultStep, d)
	}
}

// cancellingSleeper отменяет запрос во время ожидания перед повтором
type cancellingSleeper struct {
	cancel context.CancelFunc
}

func (c cancellingSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	c.cancel()
	return ctx.Err()
}

func TestUseCase_SharedCancelledDuringBackoff(t *testing.T) {
	f := newFixture("Alice")
	shared := &alwaysConflicting{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy := retry.DefaultPolicy()
	policy.Sleeper = cancellingSleeper{cancel: cancel}

	uc := NewUseCase(f.roster, f.records, f.reader, shared, Config{
		Strategy: StrategyShared,
		Retry:    policy,
	}, nil, nopLogger{})

	yes := true
	_, err := uc.Execute(ctx, &Request{Identity: "Alice", SlotKey: "2025-06-02|19", Available: &yes})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, shared.loads)
}

type failingShared struct{}

func (failingShared) Load(context.Context) (*domain.SharedDocument, string, error) {
	return nil, "", sharedRepo.ErrStorageUnavailable
}

func (failingShared) SaveIfMatch(context.Context, *domain.SharedDocument, string) (string, error) {
	return "", errors.New("unreachable")
}

func TestUseCase_SharedStorageUnavailable(t *testing.T) {
	f := newFixture("Alice")
	uc := NewUseCase(f.roster, f.records, f.reader, failingShared{}, Config{Strategy: StrategyShared}, nil, nopLogger{})

	yes := true
	_, err := uc.Execute(context.Background(), &Request{Identity: "Alice", SlotKey: "2025-06-02|19", Available: &yes})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategySharded, s)

	s, err = ParseStrategy("shared")
	require.NoError(t, err)
	assert.Equal(t, StrategyShared, s)

	_, err = ParseStrategy("lww")
	assert.Error(t, err)
}
