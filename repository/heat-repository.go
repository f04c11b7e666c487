package repository

import (
	"battle/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HeatStatus string

const (
	HeatStatusWaiting    HeatStatus = "waiting"
	HeatStatusInProgress HeatStatus = "in_progress"
	HeatStatusFinished   HeatStatus = "finished"
)

type Heat struct {
	Id           int                `gorm:"primaryKey"`
	RoundId      int                `gorm:"not null;uniqueIndex:uq_round_heat_number"`
	HeatNumber   int                `gorm:"not null;uniqueIndex:uq_round_heat_number"`
	Status       HeatStatus         `gorm:"type:battle.heat_status;not null;default:'waiting'"`
	Round        *Round             `gorm:"foreignKey:RoundId"`
	Participants []*HeatParticipant `gorm:"foreignKey:HeatId;constraint:OnDelete:CASCADE"`
}

type HeatParticipant struct {
	HeatId        int          `gorm:"primaryKey"`
	ParticipantId int          `gorm:"primaryKey"`
	Participant   *Participant `gorm:"foreignKey:ParticipantId"`
}

type HeatRepository struct {
	DB *gorm.DB
}

func NewHeatRepository(db *gorm.DB) *HeatRepository {
	return &HeatRepository{DB: db}
}

func (r *HeatRepository) GetHeatById(heatId int, preloads ...string) (*Heat, error) {
	var heat Heat
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&heat, heatId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &heat, nil
}

func (r *HeatRepository) GetHeatInRound(roundId int, heatId int, preloads ...string) (*Heat, error) {
	var heat Heat
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&heat, "id = ? AND round_id = ?", heatId, roundId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &heat, nil
}

func (r *HeatRepository) GetHeatsForRound(roundId int) ([]*Heat, error) {
	heats := make([]*Heat, 0)
	result := r.DB.Preload("Participants.Participant").
		Where("round_id = ?", roundId).
		Order("heat_number").
		Find(&heats)
	if result.Error != nil {
		return nil, result.Error
	}
	return heats, nil
}

func (r *HeatRepository) GetHeatsForParticipant(participantId int) ([]*Heat, error) {
	heats := make([]*Heat, 0)
	result := r.DB.Preload("Round.Category").Preload("Round.Event").
		Joins("JOIN battle.heat_participants ON heat_participants.heat_id = heats.id").
		Where("heat_participants.participant_id = ?", participantId).
		Order("heats.id").
		Find(&heats)
	if result.Error != nil {
		return nil, result.Error
	}
	return heats, nil
}

// RebuildForRound replaces every heat of the round in one transaction.
// Deletions and insertions are explicit steps so a failure anywhere
// leaves the previous allocation intact. heats[i].Participants carries
// the membership rows to create for heat i.
func (r *HeatRepository) RebuildForRound(roundId int, heats []*Heat) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		heatIds := tx.Model(&Heat{}).Select("id").Where("round_id = ?", roundId)
		if err := tx.Where("heat_id IN (?)", heatIds).Delete(&HeatParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("round_id = ?", roundId).Delete(&Heat{}).Error; err != nil {
			return err
		}
		for _, heat := range heats {
			members := heat.Participants
			heat.Participants = nil
			if err := tx.Omit(clause.Associations).Create(heat).Error; err != nil {
				return err
			}
			for _, member := range members {
				member.HeatId = heat.Id
			}
			if len(members) > 0 {
				if err := tx.Omit(clause.Associations).Create(members).Error; err != nil {
					return err
				}
			}
			heat.Participants = members
		}
		return nil
	})
}

// CreateManualHeat inserts a heat numbered max(heat_number)+1 for the
// round. The round row is locked FOR UPDATE so concurrent creates
// cannot hand out the same number.
func (r *HeatRepository) CreateManualHeat(roundId int, participantIds []int) (*Heat, error) {
	heat := &Heat{RoundId: roundId, Status: HeatStatusWaiting}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var round Round
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&round, roundId).Error; err != nil {
			return err
		}
		var maxNumber int
		err := tx.Model(&Heat{}).
			Where("round_id = ?", roundId).
			Select("COALESCE(MAX(heat_number), 0)").
			Scan(&maxNumber).Error
		if err != nil {
			return err
		}
		heat.HeatNumber = maxNumber + 1
		if err := tx.Omit(clause.Associations).Create(heat).Error; err != nil {
			return err
		}
		members := utils.Map(participantIds, func(participantId int) *HeatParticipant {
			return &HeatParticipant{HeatId: heat.Id, ParticipantId: participantId}
		})
		return tx.Omit(clause.Associations).Create(members).Error
	})
	if err != nil {
		return nil, err
	}
	return heat, nil
}

// ReplaceMembers swaps the full membership set of a heat.
func (r *HeatRepository) ReplaceMembers(heatId int, participantIds []int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("heat_id = ?", heatId).Delete(&HeatParticipant{}).Error; err != nil {
			return err
		}
		members := utils.Map(participantIds, func(participantId int) *HeatParticipant {
			return &HeatParticipant{HeatId: heatId, ParticipantId: participantId}
		})
		return tx.Omit(clause.Associations).Create(members).Error
	})
}

// Delete removes the heat and its memberships.
func (r *HeatRepository) Delete(heatId int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("heat_id = ?", heatId).Delete(&HeatParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Heat{}, heatId).Error
	})
}

func (r *HeatRepository) SetStatus(heatId int, status HeatStatus) error {
	return r.DB.Model(&Heat{Id: heatId}).Update("status", status).Error
}
