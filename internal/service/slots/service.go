package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
)

// Service сервис выборки слотов и операций жизненного цикла
type Service struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	location     *time.Location
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов.
// location - часовой пояс клиники, в котором определяются границы дня.
func NewService(
	slotRepo SlotRepository,
	txManager TransactionManager,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		location:     location,
		metrics:      metrics,
		logger:       logger,
	}
}

// List получает слоты в нормализованном окне с фильтрами и пагинацией.
// Слоты упорядочены по началу.
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error) {
	window := domain.NormalizeRange(req.From, req.To, s.timeProvider.Now())

	filter := domain.SlotsFilter{
		From:           window.From,
		To:             window.To,
		PractitionerID: req.PractitionerID,
		OnlyAvailable:  ptr.ValueOr(req.OnlyAvailable, true),
		Limit:          clampLimit(req.Limit),
		Offset:         clampOffset(req.Offset),
	}

	s.logger.Info("List: from=%s, to=%s, practitioner=%v, onlyAvailable=%t, limit=%d, offset=%d",
		filter.From.Format(time.RFC3339), filter.To.Format(time.RFC3339),
		formatOptional(filter.PractitionerID), filter.OnlyAvailable, filter.Limit, filter.Offset)

	// Страница и общее количество читаются из одного снимка
	var (
		found []*domain.Slot
		total int
	)
	err := s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		found, err = s.slotRepo.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("repository error: %w", err)
		}

		total, err = s.slotRepo.Count(ctx, filter)
		if err != nil {
			return fmt.Errorf("count error: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("List: %v", err)
		return nil, fmt.Errorf("%w: List - %v", ErrInternal, err)
	}

	s.logger.Info("List: returned %d of %d slots", len(found), total)

	return &models.ListResponse{
		Slots:  models.FromDomainSlots(found),
		From:   window.From,
		To:     window.To,
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Count:  len(found),
		Total:  total,
	}, nil
}

// GetByID получает слот по ID без учета окна и пагинации.
// При onlyAvailable зарезервированный слот считается ненайденным.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, onlyAvailable bool) (*models.SlotResponse, error) {
	s.logger.Info("GetByID: fetching slot id=%s, onlyAvailable=%t", id, onlyAvailable)

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetByID: slot id=%s not found", id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetByID: repository error for slot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if onlyAvailable && !slot.IsFree() {
		s.logger.Warn("GetByID: slot id=%s is reserved", id)
		return nil, ErrSlotNotFound
	}

	resp := models.FromDomainSlot(slot)
	return &resp, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return domain.DefaultListLimit
	case limit > domain.MaxListLimit:
		return domain.MaxListLimit
	default:
		return limit
	}
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func formatOptional(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
