package get_availability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// UseCase use case агрегации доступности всех участников
type UseCase struct {
	roster       RosterResolver
	records      RecordRepository
	shared       SharedDocumentRepository
	options      Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// shared нужен только при options.Source == SourceShared.
func NewUseCase(
	roster RosterResolver,
	records RecordRepository,
	shared SharedDocumentRepository,
	options Options,
	logger Logger,
) *UseCase {
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultConcurrency
	}
	if options.Source == "" {
		options.Source = SourceRecords
	}

	return &UseCase{
		roster:       roster,
		records:      records,
		shared:       shared,
		options:      options,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute собирает доступность всех участников ростера.
// Ошибки чтения не прерывают запрос: ответ помечается как Degraded.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	var resp *Response
	if uc.options.Source == SourceShared {
		resp = uc.collectShared(ctx)
	} else {
		resp = uc.collectRecords(ctx)
	}

	roles, err := uc.roster.Roles(ctx)
	if err != nil {
		uc.logger.Warn("GetAvailability: roles incomplete: %v", err)
		resp.Degraded = true
	}
	resp.Roles = roles

	uc.logger.Info("GetAvailability: source=%s, slots=%d, degraded=%t",
		uc.options.Source, len(resp.Aggregate.Slots), resp.Degraded)

	return resp, nil
}

func newResponse() *Response {
	return &Response{
		Aggregate: domain.AggregatedView{
			Version: domain.AggregateVersion,
			Slots:   map[string][]string{},
		},
	}
}

// collectRecords сворачивает файлы участников ростера
func (uc *UseCase) collectRecords(ctx context.Context) *Response {
	resp := newResponse()

	// 1. Участники ростера
	members, err := uc.roster.ListMembers(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list members, serving empty aggregate: %v", err)
		resp.Degraded = true
		members = nil
	}

	// 2. Записи участников
	records, failed := uc.loadRecords(ctx, members)
	if failed > 0 {
		uc.logger.Warn("GetAvailability: %d of %d member records unavailable", failed, len(members))
		resp.Degraded = true
	}

	// 3-4. Свертка slot -> attendees
	var latest time.Time
	for i, rec := range records {
		if rec == nil {
			continue
		}
		if rec.UpdatedAt.After(latest) {
			latest = rec.UpdatedAt
		}
		for _, slot := range domain.FilterSlotKeys(rec.AvailableSlots) {
			resp.Aggregate.Slots[slot] = append(resp.Aggregate.Slots[slot], members[i])
		}
	}
	for slot, names := range resp.Aggregate.Slots {
		resp.Aggregate.Slots[slot] = domain.SortDisplayNames(names)
	}

	// 5. Время последнего изменения
	resp.Aggregate.UpdatedAt = uc.latestOrNow(latest)

	if uc.options.ReportOrphans && members != nil {
		uc.reportOrphans(ctx, members)
	}

	return resp
}

// collectShared отдает содержимое общего документа
func (uc *UseCase) collectShared(ctx context.Context) *Response {
	resp := newResponse()

	doc, err := uc.loadShared(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to load shared document, serving empty aggregate: %v", err)
		resp.Degraded = true
		resp.Aggregate.UpdatedAt = uc.latestOrNow(time.Time{})
		return resp
	}

	for slot, names := range doc.Slots {
		resp.Aggregate.Slots[slot] = domain.SortDisplayNames(names)
	}
	resp.Aggregate.UpdatedAt = uc.latestOrNow(doc.UpdatedAt)

	return resp
}

// BuildSlot возвращает участников, доступных в одном слоте.
// Если хотя бы одна запись не прочитана, возвращает ErrStorageUnavailable вместо неполного списка.
func (uc *UseCase) BuildSlot(ctx context.Context, slot domain.SlotKey) ([]string, error) {
	if uc.options.Source == SourceShared {
		doc, err := uc.loadShared(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: shared document: %v", ErrStorageUnavailable, err)
		}
		return domain.SortDisplayNames(doc.Attendees(slot)), nil
	}

	members, err := uc.roster.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}

	records, failed := uc.loadRecords(ctx, members)
	if failed > 0 {
		uc.logger.Warn("BuildSlot: %d member records unavailable for slot %s", failed, slot)
		return nil, fmt.Errorf("%w: %d of %d member records unreadable", ErrStorageUnavailable, failed, len(members))
	}

	attendees := make([]string, 0)
	for i, rec := range records {
		if rec != nil && rec.Has(slot) {
			attendees = append(attendees, members[i])
		}
	}

	return domain.SortDisplayNames(attendees), nil
}

func (uc *UseCase) loadShared(ctx context.Context) (*domain.SharedDocument, error) {
	if uc.shared == nil {
		return nil, errSharedNotConfigured
	}
	doc, _, err := uc.shared.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *UseCase) latestOrNow(latest time.Time) time.Time {
	if latest.IsZero() {
		latest = uc.timeProvider.Now()
	}
	return latest.UTC()
}

// loadRecords читает записи параллельно (не больше options.Concurrency одновременно).
// Результат выровнен по members; nil - запись не прочитана.
func (uc *UseCase) loadRecords(ctx context.Context, members []string) ([]*domain.AvailabilityRecord, int) {
	records := make([]*domain.AvailabilityRecord, len(members))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.options.Concurrency)

	for i, member := range members {
		g.Go(func() error {
			rec, err := uc.records.Load(gctx, member)
			if err != nil {
				uc.logger.Error("Failed to load record for %q: %v", member, err)
				failed.Add(1)
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	return records, int(failed.Load())
}

func (uc *UseCase) reportOrphans(ctx context.Context, members []string) {
	keys, err := uc.records.ListMemberKeys(ctx)
	if err != nil {
		uc.logger.Warn("GetAvailability: orphan scan skipped: %v", err)
		return
	}

	known := make(map[string]struct{}, len(members))
	for _, m := range members {
		known[domain.MemberKey(m)] = struct{}{}
	}

	for _, k := range keys {
		if _, ok := known[k]; !ok {
			uc.logger.Warn("GetAvailability: record %q has no roster member, ignored", k)
		}
	}
}
