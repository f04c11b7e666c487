package service

import (
	"battle/app_error"
	"battle/config"
	"battle/metrics"
	"battle/repository"
	"battle/utils"
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

type HeatService struct {
	heatRepository        *repository.HeatRepository
	roundRepository       *repository.RoundRepository
	participantRepository *repository.ParticipantRepository
	notificationService   *NotificationService
}

func NewHeatService(db *gorm.DB) *HeatService {
	return &HeatService{
		heatRepository:        repository.NewHeatRepository(db),
		roundRepository:       repository.NewRoundRepository(db),
		participantRepository: repository.NewParticipantRepository(db),
		notificationService:   NewNotificationService(db),
	}
}

// DistributeHeats rebuilds every heat of the round: eligible
// participants are chunked into heats of at most maxInHeat, the first
// heat starts in_progress so judging can begin immediately. The
// rebuild is destructive and atomic; a rebuild over an empty eligible
// set still clears previously created heats.
func (s *HeatService) DistributeHeats(roundId int, maxInHeat int) (int, error) {
	if maxInHeat <= 0 {
		return 0, app_error.Validation("max_in_heat must be positive")
	}
	round, err := s.roundRepository.GetRoundById(roundId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, app_error.NotFound("round %d not found", roundId)
		}
		return 0, err
	}
	participants, err := s.participantRepository.GetEligibleForCategory(round.CategoryId)
	if err != nil {
		return 0, err
	}
	if maxInHeat == 2 {
		participants = interleavePairs(participants)
	}

	chunks := utils.Chunks(participants, maxInHeat)
	heats := make([]*repository.Heat, 0, len(chunks))
	for i, chunk := range chunks {
		status := repository.HeatStatusWaiting
		if i == 0 {
			status = repository.HeatStatusInProgress
		}
		heats = append(heats, &repository.Heat{
			RoundId:    roundId,
			HeatNumber: i + 1,
			Status:     status,
			Participants: utils.Map(chunk, func(participant *repository.Participant) *repository.HeatParticipant {
				return &repository.HeatParticipant{ParticipantId: participant.Id}
			}),
		})
	}

	if err := s.heatRepository.RebuildForRound(roundId, heats); err != nil {
		return 0, err
	}
	metrics.HeatsRebuiltCounter.Add(float64(len(heats)))
	return len(heats), nil
}

// interleavePairs orders a duo round (capacity 2) so each full heat
// pairs a male with a female participant, keeping every sub-group's
// relative order. Leftovers of the larger group follow, then
// participants without a designated gender.
func interleavePairs(participants []*repository.Participant) []*repository.Participant {
	male := utils.Filter(participants, hasGender(repository.GenderMale))
	female := utils.Filter(participants, hasGender(repository.GenderFemale))
	unspecified := utils.Filter(participants, func(participant *repository.Participant) bool {
		return participant.Gender == nil ||
			(*participant.Gender != repository.GenderMale && *participant.Gender != repository.GenderFemale)
	})

	ordered := make([]*repository.Participant, 0, len(participants))
	for i := 0; i < len(male) && i < len(female); i++ {
		ordered = append(ordered, male[i], female[i])
	}
	if len(male) > len(female) {
		ordered = append(ordered, male[len(female):]...)
	} else {
		ordered = append(ordered, female[len(male):]...)
	}
	return append(ordered, unspecified...)
}

func hasGender(gender repository.Gender) func(*repository.Participant) bool {
	return func(participant *repository.Participant) bool {
		return participant.Gender != nil && *participant.Gender == gender
	}
}

// resolveManualSet validates a manual membership set against the round
// and returns the deduplicated participant ids in request order.
func (s *HeatService) resolveManualSet(roundId int, participantIds []int) ([]int, error) {
	if len(participantIds) == 0 {
		return nil, app_error.Validation("at least one participant is required")
	}
	round, err := s.roundRepository.GetRoundById(roundId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("round %d not found", roundId)
		}
		return nil, err
	}
	ids := utils.Uniques(participantIds)
	participants, err := s.participantRepository.GetParticipantsByIds(ids)
	if err != nil {
		return nil, err
	}
	if len(participants) != len(ids) {
		return nil, app_error.NotFound("some participants do not exist")
	}
	for _, participant := range participants {
		if participant.CategoryId != round.CategoryId {
			return nil, app_error.Validation("participant %d does not belong to the round's category", participant.Id)
		}
	}
	return ids, nil
}

func (s *HeatService) CreateManualHeat(roundId int, participantIds []int) (*repository.Heat, error) {
	ids, err := s.resolveManualSet(roundId, participantIds)
	if err != nil {
		return nil, err
	}
	heat, err := s.heatRepository.CreateManualHeat(roundId, ids)
	if err != nil {
		return nil, err
	}
	return s.heatRepository.GetHeatById(heat.Id, "Participants.Participant")
}

func (s *HeatService) ReplaceManualHeat(roundId int, heatId int, participantIds []int) (*repository.Heat, error) {
	ids, err := s.resolveManualSet(roundId, participantIds)
	if err != nil {
		return nil, err
	}
	heat, err := s.heatRepository.GetHeatInRound(roundId, heatId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("heat %d not found in round %d", heatId, roundId)
		}
		return nil, err
	}
	if err := s.heatRepository.ReplaceMembers(heat.Id, ids); err != nil {
		return nil, err
	}
	return s.heatRepository.GetHeatById(heat.Id, "Participants.Participant")
}

func (s *HeatService) DeleteHeat(roundId int, heatId int) error {
	heat, err := s.heatRepository.GetHeatInRound(roundId, heatId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app_error.NotFound("heat %d not found in round %d", heatId, roundId)
		}
		return err
	}
	return s.heatRepository.Delete(heat.Id)
}

// UpdateHeatStatus persists the new status unconditionally; there is
// no transition table, re-entering finished is allowed and re-fires
// notifications. Dispatch happens after the status is committed and a
// delivery failure never rolls it back.
func (s *HeatService) UpdateHeatStatus(heatId int, status repository.HeatStatus) (*repository.Heat, error) {
	switch status {
	case repository.HeatStatusWaiting, repository.HeatStatusInProgress, repository.HeatStatusFinished:
	default:
		return nil, app_error.Validation("unknown heat status %q", status)
	}
	heat, err := s.heatRepository.GetHeatById(heatId, "Round.Event", "Round.Category")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("heat %d not found", heatId)
		}
		return nil, err
	}
	if err := s.heatRepository.SetStatus(heatId, status); err != nil {
		return nil, err
	}
	heat.Status = status
	metrics.HeatStatusTransitions.WithLabelValues(string(status)).Inc()
	s.publishHeatUpdate(heat)

	if status == repository.HeatStatusFinished {
		err := s.notificationService.NotifyHeatFinished(heat, heat.Round, heat.Round.Category, heat.Round.Event)
		if err != nil {
			log.Printf("heat %d finished notification: %v", heatId, err)
		}
	}
	return heat, nil
}

func (s *HeatService) GetHeatsForRound(roundId int) ([]*repository.Heat, error) {
	return s.heatRepository.GetHeatsForRound(roundId)
}

func (s *HeatService) GetHeatDetail(heatId int) (*repository.Heat, error) {
	heat, err := s.heatRepository.GetHeatById(heatId,
		"Participants.Participant", "Round.Event", "Round.Category.Criteria")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("heat %d not found", heatId)
		}
		return nil, err
	}
	return heat, nil
}

type heatUpdateMessage struct {
	HeatId     int    `json:"heat_id"`
	RoundId    int    `json:"round_id"`
	HeatNumber int    `json:"heat_number"`
	Status     string `json:"status"`
}

func (s *HeatService) publishHeatUpdate(heat *repository.Heat) {
	if config.Env().KafkaBroker == "" {
		return
	}
	writer, err := config.GetWriter(heat.Round.EventId)
	if err != nil {
		log.Printf("heat update stream unavailable: %v", err)
		return
	}
	defer utils.Closer(writer)()
	payload, err := json.Marshal(heatUpdateMessage{
		HeatId:     heat.Id,
		RoundId:    heat.RoundId,
		HeatNumber: heat.HeatNumber,
		Status:     string(heat.Status),
	})
	if err != nil {
		log.Printf("failed to serialize heat update: %v", err)
		return
	}
	if err := writer.WriteMessages(context.Background(), kafka.Message{Value: payload}); err != nil {
		log.Printf("failed to publish heat update: %v", err)
	}
}
