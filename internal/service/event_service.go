package service

import (
	"context"
	"errors"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/repository"
	"Seva_Community/internal/repository/mysql"
)

var ErrEventNotFound = errors.New("event not found")

type EventService struct {
	repo  *mysql.EventRepository
	regs  *mysql.EventRegistrationRepository
	comms *repository.CommunityRepository
}

func NewEventService(repo *mysql.EventRepository, regs *mysql.EventRegistrationRepository, comms *repository.CommunityRepository) *EventService {
	return &EventService{repo: repo, regs: regs, comms: comms}
}

func (s *EventService) CreateEvent(communityID, title, desc, location string, startsAt, endsAt time.Time, capacity int) (*model.Event, error) {
	if title == "" {
		return nil, errors.New("title required")
	}
	if !endsAt.IsZero() && endsAt.Before(startsAt) {
		return nil, errors.New("event ends before it starts")
	}
	if _, ok := s.comms.GetByID(communityID); !ok {
		return nil, ErrCommunityNotFound
	}
	if capacity < 0 {
		capacity = 0
	}

	e := &model.Event{
		CommunityID: communityID,
		Title:       title,
		Description: desc,
		Location:    location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Capacity:    capacity,
		Status:      model.EventScheduled,
	}
	if err := s.repo.Create(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) GetEvent(id uint64) (*model.Event, error) {
	e, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (s *EventService) ListByCommunity(communityID string, page, size int) ([]model.Event, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, offset, size)
}

func (s *EventService) CancelEvent(id uint64) error {
	return s.repo.UpdateStatus(id, model.EventCancelled)
}

// Register 幂等报名，满员返回 mysql.ErrEventFull
func (s *EventService) Register(ctx context.Context, eventID uint64, userID string) (bool, error) {
	if eventID == 0 || userID == "" {
		return false, errors.New("invalid id")
	}
	e, err := s.repo.FindByID(eventID)
	if err != nil {
		return false, ErrEventNotFound
	}
	if e.Status != model.EventScheduled {
		return false, errors.New("event not open for registration")
	}
	return s.regs.Register(ctx, eventID, userID)
}

// Unregister 幂等取消报名
func (s *EventService) Unregister(ctx context.Context, eventID uint64, userID string) (bool, error) {
	if eventID == 0 || userID == "" {
		return false, errors.New("invalid id")
	}
	return s.regs.Unregister(ctx, eventID, userID)
}

func (s *EventService) IsRegistered(ctx context.Context, eventID uint64, userID string) (bool, error) {
	if eventID == 0 || userID == "" {
		return false, errors.New("invalid id")
	}
	return s.regs.IsRegistered(ctx, eventID, userID)
}

// ListRegistrations 游标分页报名列表
func (s *EventService) ListRegistrations(ctx context.Context, eventID uint64, cursor uint64, limit int) ([]model.EventRegistration, uint64, error) {
	return s.regs.ListByEvent(ctx, eventID, cursor, limit)
}
