package generate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
)

// UseCase use case пакетной генерации слотов врача
type UseCase struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	location  *time.Location
	metrics   Metrics
	logger    Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс клиники, в котором интерпретируются дни и время суток.
func NewUseCase(
	slotRepo SlotRepository,
	txManager TransactionManager,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		slotRepo:  slotRepo,
		txManager: txManager,
		location:  location,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute генерирует слоты по сетке день x окно времени и сохраняет их одной пачкой.
// Пересечения с уже существующими слотами ищутся по снимку, загруженному один раз;
// параллельные вставки отсекает ограничение хранилища (ErrOverlapConflict).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: practitioner=%d, dayFrom=%s, window=%s-%s",
		req.PractitionerID, req.DayFrom.Format(domain.DateFormat), req.TimeStart, req.TimeEnd)

	// 1. Валидация и значения по умолчанию
	p, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	firstDay := p.days[0]
	lastDay := p.days[len(p.days)-1]

	var (
		created []*domain.Slot
		skipped int
	)

	// 2. Снимок, обход сетки и вставка в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Загружаем существующие слоты врача один раз на весь диапазон
		var index *domain.SlotIndex
		if p.avoidOverlap {
			existing, err := uc.slotRepo.ListByPractitionerInRange(txCtx, req.PractitionerID,
				req.TimeStart.On(firstDay, uc.location), req.TimeEnd.On(lastDay, uc.location))
			if err != nil {
				uc.logger.Error("GenerateSlots: failed to load existing slots: %v", err)
				return fmt.Errorf("%w: failed to load existing slots: %v", ErrInternal, err)
			}
			index = domain.NewSlotIndex(existing)
		}

		// 2.2. Обходим каждый день
		candidates := make([]*domain.Slot, 0)
		for _, day := range p.days {
			accepted, daySkipped := walkDay(
				req.TimeStart.On(day, uc.location),
				req.TimeEnd.On(day, uc.location),
				p.duration, p.gap, index,
			)
			skipped += daySkipped
			for _, c := range accepted {
				candidates = append(candidates, domain.NewFreeSlot(req.PractitionerID, c.start, c.end))
			}
		}

		// 2.3. Пустая пачка - ошибка, даже если ничего не сломалось
		if len(candidates) == 0 {
			return fmt.Errorf("%w: %d day(s), window %s-%s, %d candidate(s) skipped",
				ErrEmptyBatch, len(p.days), req.TimeStart, req.TimeEnd, skipped)
		}

		// 2.4. Одна пакетная вставка
		inserted, err := uc.slotRepo.BulkInsert(txCtx, candidates)
		if err != nil {
			if errors.Is(err, slotRepo.ErrOverlapConflict) {
				uc.metrics.OverlapConflict()
				uc.logger.Warn("GenerateSlots: batch rejected by overlap constraint: %v", err)
				return fmt.Errorf("%w: %v", ErrOverlapConflict, err)
			}
			uc.logger.Error("GenerateSlots: failed to insert slots: %v", err)
			return fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
		}

		created = inserted
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrEmptyBatch) {
			uc.logger.Warn("GenerateSlots: %v", err)
			return nil, err
		}
		if errors.Is(err, ErrOverlapConflict) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("GenerateSlots: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.SlotsGenerated(len(created), skipped)
	uc.logger.Info("GenerateSlots: practitioner=%d, created=%d, skipped=%d, days=%d",
		req.PractitionerID, len(created), skipped, len(p.days))

	return &Response{
		Slots:             created,
		Days:              len(p.days),
		SkippedCandidates: skipped,
	}, nil
}
