package toggle_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	sharedRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/shareddoc"
	rosterService "github.com/m04kA/SMC-AvailabilityService/internal/service/roster"
)

// Состояния записи для метрик
const (
	writeStateDone     = "done"
	writeStateConflict = "conflict"
	writeStateFailed   = "failed"
)

// UseCase use case изменения доступности участника
type UseCase struct {
	roster       RosterResolver
	records      RecordRepository
	slots        SlotBuilder
	shared       SharedDocumentRepository
	config       Config
	recorder     WriteRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// shared может быть nil при стратегии sharded, recorder - nil без метрик.
func NewUseCase(
	roster RosterResolver,
	records RecordRepository,
	slots SlotBuilder,
	shared SharedDocumentRepository,
	config Config,
	recorder WriteRecorder,
	logger Logger,
) *UseCase {
	if config.Strategy == "" {
		config.Strategy = StrategySharded
	}
	config.Retry = config.Retry.WithDefaults()
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &UseCase{
		roster:       roster,
		records:      records,
		slots:        slots,
		shared:       shared,
		config:       config,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case: Idle -> ResolvingIdentity -> Loading -> Mutating -> Persisting -> Done
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ToggleAvailability: identity=%q, slot=%q, strategy=%s", req.Identity, req.SlotKey, uc.config.Strategy)

	// 1. Проверяем участника до любого обращения к хранилищу
	displayName, err := uc.roster.ResolveCanonicalName(ctx, req.Identity)
	if err != nil {
		switch {
		case errors.Is(err, rosterService.ErrMemberNotFound), errors.Is(err, rosterService.ErrInvalidInput):
			uc.logger.Warn("ToggleAvailability: identity %q is not on the roster", req.Identity)
			return nil, ErrForbidden
		case errors.Is(err, rosterService.ErrMemberKeyCollision):
			uc.logger.Error("ToggleAvailability: identity %q has an ambiguous storage key: %v", req.Identity, err)
			return nil, ErrForbidden
		case errors.Is(err, rosterService.ErrRosterUnavailable):
			uc.logger.Error("ToggleAvailability: roster unavailable: %v", err)
			return nil, fmt.Errorf("%w: roster: %v", ErrStorageUnavailable, err)
		default:
			uc.logger.Error("ToggleAvailability: failed to resolve identity: %v", err)
			return nil, fmt.Errorf("%w: resolve identity: %v", ErrInternal, err)
		}
	}

	// 2. Валидация входных данных
	slot, err := validateSlotKey(req.SlotKey)
	if err != nil {
		uc.logger.Warn("ToggleAvailability: validation failed: %v", err)
		return nil, err
	}
	available, err := desiredState(req)
	if err != nil {
		uc.logger.Warn("ToggleAvailability: validation failed: %v", err)
		return nil, err
	}

	// 3. Запись выбранной стратегией
	switch uc.config.Strategy {
	case StrategyShared:
		return uc.toggleShared(ctx, displayName, slot, available)
	case StrategySharded:
		return uc.toggleSharded(ctx, displayName, slot, available)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInternal, uc.config.Strategy)
	}
}

// toggleSharded меняет только собственный файл участника: гонок между участниками нет
func (uc *UseCase) toggleSharded(ctx context.Context, displayName string, slot domain.SlotKey, available bool) (*Response, error) {
	record, err := uc.records.Load(ctx, displayName)
	if err != nil {
		uc.logger.Error("ToggleAvailability: failed to load record of %q: %v", displayName, err)
		uc.recorder.ObserveWrite(string(StrategySharded), writeStateFailed, 1)
		return nil, uc.storageError("load record", err)
	}

	record.DisplayName = displayName
	changed := record.SetAvailable(slot, available)

	if err := uc.records.Save(ctx, record); err != nil {
		uc.logger.Error("ToggleAvailability: failed to save record of %q: %v", displayName, err)
		uc.recorder.ObserveWrite(string(StrategySharded), writeStateFailed, 1)
		return nil, uc.storageError("save record", err)
	}
	uc.recorder.ObserveWrite(string(StrategySharded), writeStateDone, 1)

	attendees, err := uc.slots.BuildSlot(ctx, slot)
	if err != nil {
		uc.logger.Error("ToggleAvailability: saved, but failed to rebuild slot %s: %v", slot, err)
		return nil, fmt.Errorf("%w: rebuild slot: %v", ErrStorageUnavailable, err)
	}

	uc.logger.Info("ToggleAvailability: %q slot=%s available=%t changed=%t", displayName, slot, available, changed)

	return &Response{
		SlotKey:   slot.String(),
		Attendees: attendees,
		UpdatedAt: record.UpdatedAt,
		Attempts:  1,
	}, nil
}

// toggleShared read-modify-write общего документа с условной записью по ETag.
// При конфликте документ перечитывается; число попыток ограничено политикой retry.
func (uc *UseCase) toggleShared(ctx context.Context, displayName string, slot domain.SlotKey, available bool) (*Response, error) {
	if uc.shared == nil {
		return nil, fmt.Errorf("%w: shared document repository is not configured", ErrInternal)
	}

	policy := uc.config.Retry
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if err := policy.Wait(ctx, attempt); err != nil {
			uc.recorder.ObserveWrite(string(StrategyShared), writeStateFailed, attempt)
			uc.logger.Warn("ToggleAvailability: request cancelled before attempt %d: %v", attempt+1, err)
			return nil, fmt.Errorf("%w: wait before attempt %d: %v", ErrStorageUnavailable, attempt+1, err)
		}

		doc, etag, err := uc.shared.Load(ctx)
		if err != nil {
			uc.logger.Error("ToggleAvailability: failed to load shared document: %v", err)
			uc.recorder.ObserveWrite(string(StrategyShared), writeStateFailed, attempt+1)
			return nil, fmt.Errorf("%w: load shared document: %v", ErrStorageUnavailable, err)
		}

		doc.Toggle(slot, displayName, available, uc.timeProvider.Now().UTC())

		_, err = uc.shared.SaveIfMatch(ctx, doc, etag)
		if errors.Is(err, sharedRepo.ErrVersionConflict) {
			uc.recorder.IncWriteConflict()
			uc.logger.Warn("ToggleAvailability: shared document changed concurrently, attempt %d/%d", attempt+1, policy.MaxAttempts)
			continue
		}
		if err != nil {
			uc.logger.Error("ToggleAvailability: failed to save shared document: %v", err)
			uc.recorder.ObserveWrite(string(StrategyShared), writeStateFailed, attempt+1)
			return nil, fmt.Errorf("%w: save shared document: %v", ErrStorageUnavailable, err)
		}

		uc.recorder.ObserveWrite(string(StrategyShared), writeStateDone, attempt+1)
		uc.logger.Info("ToggleAvailability: %q slot=%s available=%t after %d attempt(s)", displayName, slot, available, attempt+1)

		return &Response{
			SlotKey:   slot.String(),
			Attendees: doc.Attendees(slot),
			UpdatedAt: doc.UpdatedAt,
			Attempts:  attempt + 1,
		}, nil
	}

	uc.recorder.ObserveWrite(string(StrategyShared), writeStateConflict, policy.MaxAttempts)
	uc.logger.Warn("ToggleAvailability: giving up after %d conflicting attempts", policy.MaxAttempts)
	return nil, ErrConflict
}

func (uc *UseCase) storageError(op string, err error) error {
	if errors.Is(err, availabilityRepo.ErrStorageUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
