package repository

import (
	"gorm.io/gorm"
)

// FinalPlace is a reserved data slot: standings are entered by outside
// tooling, no aggregation happens here.
type FinalPlace struct {
	Id            int     `gorm:"primaryKey"`
	RoundId       int     `gorm:"not null;uniqueIndex:uq_round_participant_final"`
	ParticipantId int     `gorm:"not null;uniqueIndex:uq_round_participant_final"`
	Place         int     `gorm:"not null"`
	SumPlaces     float64 `gorm:"not null"`
}

type FinalPlaceRepository struct {
	DB *gorm.DB
}

func NewFinalPlaceRepository(db *gorm.DB) *FinalPlaceRepository {
	return &FinalPlaceRepository{DB: db}
}

func (r *FinalPlaceRepository) GetPlacementsForRound(roundId int) ([]*FinalPlace, error) {
	placements := make([]*FinalPlace, 0)
	result := r.DB.Where("round_id = ?", roundId).Order("place").Find(&placements)
	if result.Error != nil {
		return nil, result.Error
	}
	return placements, nil
}

func (r *FinalPlaceRepository) SaveAll(placements []*FinalPlace) error {
	return r.DB.Save(placements).Error
}
