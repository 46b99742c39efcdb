package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
)

// CreateSingle создает один свободный слот
func (s *Service) CreateSingle(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSingle: practitioner=%d, start=%s, end=%s", req.PractitionerID, req.Start, req.End)

	if req.PractitionerID <= 0 || req.Start.IsZero() || req.End.IsZero() {
		return nil, fmt.Errorf("%w: start, end and practitionerId are required", ErrMissingRequiredField)
	}
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidRange)
	}

	var created *domain.Slot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Ранний ответ без обращения к ограничению хранилища
		exists, err := s.slotRepo.ExistsOverlap(txCtx, req.PractitionerID, req.Start, req.End)
		if err != nil {
			s.logger.Error("CreateSingle: overlap check failed: %v", err)
			return fmt.Errorf("%w: CreateSingle - overlap check: %v", ErrInternal, err)
		}
		if exists {
			return ErrOverlapConflict
		}

		created, err = s.slotRepo.Create(txCtx, domain.NewFreeSlot(req.PractitionerID, req.Start, req.End))
		if err != nil {
			if errors.Is(err, slotRepo.ErrOverlapConflict) {
				return fmt.Errorf("%w: %v", ErrOverlapConflict, err)
			}
			s.logger.Error("CreateSingle: repository error: %v", err)
			return fmt.Errorf("%w: CreateSingle - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOverlapConflict) {
			s.metrics.OverlapConflict()
			s.logger.Warn("CreateSingle: practitioner=%d already has a slot in [%s, %s)", req.PractitionerID, req.Start, req.End)
			return nil, err
		}
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: CreateSingle - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSingle: created slot id=%s", created.ID)
	resp := models.FromDomainSlot(created)
	return &resp, nil
}

// DeleteByIDs удаляет ровно указанные слоты. Резервирование не проверяется:
// вызывающая сторона сама выбирает удаляемые слоты.
func (s *Service) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (*models.DeleteResponse, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids must not be empty", ErrMissingRequiredField)
	}

	s.logger.Info("DeleteByIDs: deleting %d slot(s)", len(ids))

	deleted, err := s.slotRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("DeleteByIDs: repository error: %v", err)
		return nil, fmt.Errorf("%w: DeleteByIDs - repository error: %v", ErrInternal, err)
	}

	s.metrics.SlotsDeleted(len(deleted))
	s.logger.Info("DeleteByIDs: deleted %d of %d slot(s)", len(deleted), len(ids))
	return models.NewDeleteResponse(deleted), nil
}

// DeleteByDay удаляет слоты врача, начинающиеся в указанный календарный день клиники.
// По умолчанию удаляются только свободные слоты.
func (s *Service) DeleteByDay(ctx context.Context, req *models.DeleteByDayRequest) (*models.DeleteResponse, error) {
	if req.Day.IsZero() || req.PractitionerID <= 0 {
		return nil, fmt.Errorf("%w: day and practitionerId are required", ErrMissingRequiredField)
	}

	onlyFree := ptr.ValueOr(req.OnlyFree, true)
	from, to := domain.DayBounds(req.Day, s.location)

	s.logger.Info("DeleteByDay: practitioner=%d, day=%s, onlyFree=%t",
		req.PractitionerID, from.Format(domain.DateFormat), onlyFree)

	deleted, err := s.slotRepo.DeleteByPractitionerInRange(ctx, req.PractitionerID, from, to, onlyFree)
	if err != nil {
		s.logger.Error("DeleteByDay: repository error: %v", err)
		return nil, fmt.Errorf("%w: DeleteByDay - repository error: %v", ErrInternal, err)
	}

	s.metrics.SlotsDeleted(len(deleted))
	s.logger.Info("DeleteByDay: deleted %d slot(s)", len(deleted))
	return models.NewDeleteResponse(deleted), nil
}

// Reassign переназначает свободные слоты из списка на другого врача.
// Зарезервированные и несуществующие слоты не меняются и возвращаются в SkippedIDs.
func (s *Service) Reassign(ctx context.Context, req *models.ReassignRequest) (*models.ReassignResponse, error) {
	if len(req.IDs) == 0 || req.TargetPractitionerID <= 0 {
		return nil, fmt.Errorf("%w: ids and targetPractitionerId are required", ErrMissingRequiredField)
	}

	ids := uniqueIDs(req.IDs)
	s.logger.Info("Reassign: %d slot(s) to practitioner=%d", len(ids), req.TargetPractitionerID)

	reassigned, err := s.slotRepo.ReassignFree(ctx, ids, req.TargetPractitionerID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrOverlapConflict) {
			s.metrics.OverlapConflict()
			s.logger.Warn("Reassign: practitioner=%d already has overlapping slots: %v", req.TargetPractitionerID, err)
			return nil, fmt.Errorf("%w: %v", ErrOverlapConflict, err)
		}
		s.logger.Error("Reassign: repository error: %v", err)
		return nil, fmt.Errorf("%w: Reassign - repository error: %v", ErrInternal, err)
	}

	changed := make(map[uuid.UUID]struct{}, len(reassigned))
	for _, id := range reassigned {
		changed[id] = struct{}{}
	}

	resp := &models.ReassignResponse{
		TargetPractitionerID: req.TargetPractitionerID,
		ReassignedIDs:        make([]uuid.UUID, 0, len(reassigned)),
		SkippedIDs:           make([]uuid.UUID, 0),
	}
	// Порядок ответа совпадает с порядком запроса
	for _, id := range ids {
		if _, ok := changed[id]; ok {
			resp.ReassignedIDs = append(resp.ReassignedIDs, id)
		} else {
			resp.SkippedIDs = append(resp.SkippedIDs, id)
		}
	}

	s.metrics.SlotsReassigned(len(resp.ReassignedIDs))
	s.logger.Info("Reassign: reassigned=%d, skipped=%d", len(resp.ReassignedIDs), len(resp.SkippedIDs))
	return resp, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
