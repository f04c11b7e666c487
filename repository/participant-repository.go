package repository

import (
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Participant struct {
	Id         int     `gorm:"primaryKey"`
	EventId    int     `gorm:"not null"`
	CategoryId int     `gorm:"not null"`
	FirstName  string  `gorm:"not null"`
	LastName   string  `gorm:"not null"`
	Number     *int    `gorm:"null"`
	Role       *string `gorm:"null"`
	Gender     *Gender `gorm:"null"`
}

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

func (r *ParticipantRepository) GetParticipantById(participantId int) (*Participant, error) {
	var participant Participant
	result := r.DB.First(&participant, participantId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}

func (r *ParticipantRepository) GetParticipantInEvent(participantId int, eventId int) (*Participant, error) {
	var participant Participant
	result := r.DB.First(&participant, "id = ? AND event_id = ?", participantId, eventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}

func (r *ParticipantRepository) GetParticipantsByIds(participantIds []int) ([]*Participant, error) {
	participants := make([]*Participant, 0)
	result := r.DB.Order("id").Find(&participants, "id in ?", participantIds)
	if result.Error != nil {
		return nil, result.Error
	}
	return participants, nil
}

// GetEligibleForCategory returns a category's participants in the
// stable identity order the heat allocator chunks over.
func (r *ParticipantRepository) GetEligibleForCategory(categoryId int) ([]*Participant, error) {
	participants := make([]*Participant, 0)
	result := r.DB.Where("category_id = ?", categoryId).Order("id").Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}
	return participants, nil
}

// ListForCategory is the display ordering used by the admin panel.
func (r *ParticipantRepository) ListForCategory(categoryId int) ([]*Participant, error) {
	participants := make([]*Participant, 0)
	result := r.DB.Where("category_id = ?", categoryId).
		Order("number ASC NULLS FIRST, last_name ASC").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}
	return participants, nil
}

func (r *ParticipantRepository) Save(participant *Participant) (*Participant, error) {
	result := r.DB.Save(participant)
	if result.Error != nil {
		return nil, result.Error
	}
	return participant, nil
}
