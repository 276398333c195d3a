package service

import (
	"context"

	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/repository"

	"github.com/google/uuid"
)

type InventoryService interface {
	GetAvailability(ctx context.Context, ticketTypeID uuid.UUID) (*model.Availability, error)
	ListEventAvailability(ctx context.Context, eventID uuid.UUID) ([]*model.Availability, error)
}

type InventoryServiceImpl struct {
	eventRepository      repository.EventRepository
	ticketTypeRepository repository.TicketTypeRepository
}

func NewInventoryService(
	eventRepository repository.EventRepository,
	ticketTypeRepository repository.TicketTypeRepository,
) InventoryService {
	return &InventoryServiceImpl{
		eventRepository:      eventRepository,
		ticketTypeRepository: ticketTypeRepository,
	}
}

// GetAvailability 直接讀取帳本計數
func (s *InventoryServiceImpl) GetAvailability(ctx context.Context, ticketTypeID uuid.UUID) (*model.Availability, error) {
	return s.ticketTypeRepository.GetAvailability(ctx, ticketTypeID)
}

func (s *InventoryServiceImpl) ListEventAvailability(ctx context.Context, eventID uuid.UUID) ([]*model.Availability, error) {
	if _, err := s.eventRepository.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	ticketTypes, err := s.ticketTypeRepository.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]*model.Availability, 0, len(ticketTypes))
	for _, t := range ticketTypes {
		result = append(result, &model.Availability{
			TicketTypeID: t.ID,
			Capacity:     t.Capacity,
			Sold:         t.Sold,
			Held:         t.Held,
			Available:    t.Available(),
		})
	}
	return result, nil
}
