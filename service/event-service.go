package service

import (
	"battle/app_error"
	"battle/repository"
	"errors"

	"gorm.io/gorm"
)

type EventService struct {
	eventRepository *repository.EventRepository
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{eventRepository: repository.NewEventRepository(db)}
}

func (s *EventService) CreateEvent(event *repository.Event) (*repository.Event, error) {
	return s.eventRepository.Save(event)
}

func (s *EventService) GetEventById(eventId int, preloads ...string) (*repository.Event, error) {
	event, err := s.eventRepository.GetEventById(eventId, preloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("competition %d not found", eventId)
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetAllEvents() ([]*repository.Event, error) {
	return s.eventRepository.FindAll("Categories.Criteria")
}

// DeleteEvent removes the competition and everything hanging off it.
func (s *EventService) DeleteEvent(eventId int) error {
	if _, err := s.GetEventById(eventId); err != nil {
		return err
	}
	return s.eventRepository.Delete(eventId)
}
