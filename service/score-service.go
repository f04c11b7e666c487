package service

import (
	"battle/app_error"
	"battle/config"
	"battle/metrics"
	"battle/repository"
	"battle/utils"
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

type ScoreUpsert struct {
	ParticipantId int
	JudgeId       int
	RoundId       int
	HeatId        *int
	CriterionId   *int
	Value         float64
}

// ScoreKey identifies one ledger entry for the live scoreboard. A
// CriterionId of 0 stands for the overall (criterion-less) score.
type ScoreKey struct {
	ParticipantId int
	JudgeId       int
	RoundId       int
	CriterionId   int
}

type ScoreMap map[ScoreKey]float64

type ScoreService struct {
	scoreRepository *repository.ScoreRepository
	roundRepository *repository.RoundRepository
	publishUpdate   func(score *repository.Score)

	mu           sync.Mutex
	latestScores map[int]ScoreMap
}

func NewScoreService(db *gorm.DB) *ScoreService {
	service := &ScoreService{
		scoreRepository: repository.NewScoreRepository(db),
		roundRepository: repository.NewRoundRepository(db),
		latestScores:    make(map[int]ScoreMap),
	}
	service.publishUpdate = service.publishScoreUpdate
	return service
}

// UpsertScore writes one judge's value for a participant. A record
// already holding the (participant, judge, round, criterion) key is
// updated in place, value and heat pointer both; otherwise a new
// record is created. Last write wins.
func (s *ScoreService) UpsertScore(input ScoreUpsert) (*repository.Score, error) {
	if input.Value < 0 {
		return nil, app_error.Validation("score value must be non-negative")
	}
	score, err := s.scoreRepository.UpsertByKey(&repository.Score{
		RoundId:       input.RoundId,
		ParticipantId: input.ParticipantId,
		JudgeId:       input.JudgeId,
		CriterionId:   input.CriterionId,
		HeatId:        input.HeatId,
		Value:         input.Value,
	})
	if err != nil {
		return nil, err
	}
	metrics.ScoresUpsertedCounter.Inc()
	s.publishUpdate(score)
	return score, nil
}

func (s *ScoreService) GetScoresByHeat(heatId int) ([]*repository.Score, error) {
	return s.scoreRepository.GetScoresByHeat(heatId)
}

// Snapshot returns the current scoreboard of an event, loading it on
// first access.
func (s *ScoreService) Snapshot(eventId int) (ScoreMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.latestScores[eventId]
	if !ok {
		loaded, err := s.loadScoreMap(eventId)
		if err != nil {
			return nil, err
		}
		s.latestScores[eventId] = loaded
		current = loaded
	}
	snapshot := make(ScoreMap, len(current))
	for key, value := range current {
		snapshot[key] = value
	}
	return snapshot, nil
}

// GetNewDiff reloads an event's scoreboard and returns the entries
// that changed since the previous poll.
func (s *ScoreService) GetNewDiff(eventId int) (ScoreMap, error) {
	current, err := s.loadScoreMap(eventId)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.latestScores[eventId]
	diff := make(ScoreMap)
	for key, value := range current {
		if old, ok := previous[key]; !ok || old != value {
			diff[key] = value
		}
	}
	s.latestScores[eventId] = current
	return diff, nil
}

func (s *ScoreService) loadScoreMap(eventId int) (ScoreMap, error) {
	scores, err := s.scoreRepository.GetScoresForEvent(eventId)
	if err != nil {
		return nil, err
	}
	scoreMap := make(ScoreMap, len(scores))
	for _, score := range scores {
		key := ScoreKey{
			ParticipantId: score.ParticipantId,
			JudgeId:       score.JudgeId,
			RoundId:       score.RoundId,
		}
		if score.CriterionId != nil {
			key.CriterionId = *score.CriterionId
		}
		scoreMap[key] = score.Value
	}
	return scoreMap, nil
}

type scoreUpdateMessage struct {
	ScoreId       int     `json:"score_id"`
	RoundId       int     `json:"round_id"`
	ParticipantId int     `json:"participant_id"`
	JudgeId       int     `json:"judge_id"`
	CriterionId   *int    `json:"criterion_id"`
	HeatId        *int    `json:"heat_id"`
	Value         float64 `json:"score"`
}

// publishScoreUpdate pushes the accepted value onto the event's
// heat-update stream alongside the status transitions, so spectator
// frontends see scores without polling. Delivery is best effort.
func (s *ScoreService) publishScoreUpdate(score *repository.Score) {
	if config.Env().KafkaBroker == "" {
		return
	}
	round, err := s.roundRepository.GetRoundById(score.RoundId)
	if err != nil {
		log.Printf("score update stream unavailable: %v", err)
		return
	}
	writer, err := config.GetWriter(round.EventId)
	if err != nil {
		log.Printf("score update stream unavailable: %v", err)
		return
	}
	defer utils.Closer(writer)()
	payload, err := json.Marshal(scoreUpdateMessage{
		ScoreId:       score.Id,
		RoundId:       score.RoundId,
		ParticipantId: score.ParticipantId,
		JudgeId:       score.JudgeId,
		CriterionId:   score.CriterionId,
		HeatId:        score.HeatId,
		Value:         score.Value,
	})
	if err != nil {
		log.Printf("failed to serialize score update: %v", err)
		return
	}
	if err := writer.WriteMessages(context.Background(), kafka.Message{Value: payload}); err != nil {
		log.Printf("failed to publish score update: %v", err)
	}
}
