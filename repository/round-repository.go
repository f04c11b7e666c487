package repository

import (
	"gorm.io/gorm"
)

type Round struct {
	Id          int       `gorm:"primaryKey"`
	EventId     int       `gorm:"not null"`
	CategoryId  int       `gorm:"not null"`
	RoundType   string    `gorm:"not null"`
	StageFormat *string   `gorm:"null"`
	Event       *Event    `gorm:"foreignKey:EventId"`
	Category    *Category `gorm:"foreignKey:CategoryId"`
	Heats       []*Heat   `gorm:"foreignKey:RoundId;constraint:OnDelete:CASCADE"`
}

type RoundRepository struct {
	DB *gorm.DB
}

func NewRoundRepository(db *gorm.DB) *RoundRepository {
	return &RoundRepository{DB: db}
}

func (r *RoundRepository) GetRoundById(roundId int, preloads ...string) (*Round, error) {
	var round Round
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&round, roundId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &round, nil
}

func (r *RoundRepository) Save(round *Round) (*Round, error) {
	result := r.DB.Save(round)
	if result.Error != nil {
		return nil, result.Error
	}
	return round, nil
}

func (r *RoundRepository) GetRoundsForEvent(eventId int) ([]*Round, error) {
	rounds := make([]*Round, 0)
	result := r.DB.Where("event_id = ?", eventId).
		Order("stage_format, round_type").
		Find(&rounds)
	if result.Error != nil {
		return nil, result.Error
	}
	return rounds, nil
}
