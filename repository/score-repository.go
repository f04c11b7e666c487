package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Score struct {
	Id            int     `gorm:"primaryKey"`
	RoundId       int     `gorm:"not null"`
	ParticipantId int     `gorm:"not null"`
	JudgeId       int     `gorm:"not null"`
	CriterionId   *int    `gorm:"null"`
	HeatId        *int    `gorm:"null"`
	Value         float64 `gorm:"not null;check:value >= 0"`
	Judge         *User   `gorm:"foreignKey:JudgeId"`
}

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

// byKey resolves the unique ledger key. An absent criterion is its
// own key value, so the lookup branches on IS NULL instead of relying
// on zero-value matching.
func byKey(tx *gorm.DB, participantId int, judgeId int, roundId int, criterionId *int) *gorm.DB {
	query := tx.Where(
		"participant_id = ? AND judge_id = ? AND round_id = ?",
		participantId, judgeId, roundId,
	)
	if criterionId == nil {
		return query.Where("criterion_id IS NULL")
	}
	return query.Where("criterion_id = ?", *criterionId)
}

// UpsertByKey writes the candidate's value under its ledger key in one
// transaction: an existing row is locked FOR UPDATE and overwritten,
// value and heat pointer both, otherwise the candidate is inserted.
// Partial unique indexes on the key back this up against concurrent
// first submissions.
func (r *ScoreRepository) UpsertByKey(candidate *Score) (*Score, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing Score
		result := byKey(tx.Clauses(clause.Locking{Strength: "UPDATE"}),
			candidate.ParticipantId, candidate.JudgeId, candidate.RoundId, candidate.CriterionId).
			First(&existing)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}
			return tx.Create(candidate).Error
		}
		existing.Value = candidate.Value
		existing.HeatId = candidate.HeatId
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*candidate = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func (r *ScoreRepository) GetScoresByHeat(heatId int) ([]*Score, error) {
	scores := make([]*Score, 0)
	result := r.DB.Where("heat_id = ?", heatId).Order("participant_id").Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}

func (r *ScoreRepository) GetScoresForParticipant(participantId int) ([]*Score, error) {
	scores := make([]*Score, 0)
	result := r.DB.Preload("Judge").Where("participant_id = ?", participantId).Order("id").Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}

func (r *ScoreRepository) GetScoresForEvent(eventId int) ([]*Score, error) {
	scores := make([]*Score, 0)
	result := r.DB.Joins("JOIN battle.rounds ON rounds.id = scores.round_id").
		Where("rounds.event_id = ?", eventId).
		Order("scores.id").
		Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}
