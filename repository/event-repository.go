package repository

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	Id           int            `gorm:"primaryKey"`
	Title        string         `gorm:"not null"`
	Date         *time.Time     `gorm:"null"`
	Location     *string        `gorm:"null"`
	Categories   []*Category    `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE"`
	Rounds       []*Round       `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE"`
	Participants []*Participant `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE"`
}

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) GetEventById(eventId int, preloads ...string) (*Event, error) {
	var event Event
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&event, eventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &event, nil
}

func (r *EventRepository) Save(event *Event) (*Event, error) {
	result := r.DB.Save(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) FindAll(preloads ...string) ([]*Event, error) {
	events := make([]*Event, 0)
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.Order("date DESC NULLS LAST").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

func (r *EventRepository) Delete(eventId int) error {
	return r.DB.Delete(&Event{}, eventId).Error
}
