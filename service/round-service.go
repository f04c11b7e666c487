package service

import (
	"battle/app_error"
	"battle/repository"
	"errors"

	"gorm.io/gorm"
)

type RoundService struct {
	roundRepository      *repository.RoundRepository
	eventRepository      *repository.EventRepository
	categoryRepository   *repository.CategoryRepository
	finalPlaceRepository *repository.FinalPlaceRepository
}

func NewRoundService(db *gorm.DB) *RoundService {
	return &RoundService{
		roundRepository:      repository.NewRoundRepository(db),
		eventRepository:      repository.NewEventRepository(db),
		categoryRepository:   repository.NewCategoryRepository(db),
		finalPlaceRepository: repository.NewFinalPlaceRepository(db),
	}
}

func (s *RoundService) CreateRound(round *repository.Round) (*repository.Round, error) {
	if _, err := s.eventRepository.GetEventById(round.EventId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("competition %d not found", round.EventId)
		}
		return nil, err
	}
	category, err := s.categoryRepository.GetCategoryById(round.CategoryId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("category %d not found", round.CategoryId)
		}
		return nil, err
	}
	if category.EventId != round.EventId {
		return nil, app_error.Validation("category %d does not belong to competition %d", round.CategoryId, round.EventId)
	}
	return s.roundRepository.Save(round)
}

func (s *RoundService) GetRoundById(roundId int) (*repository.Round, error) {
	round, err := s.roundRepository.GetRoundById(roundId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("round %d not found", roundId)
		}
		return nil, err
	}
	return round, nil
}

func (s *RoundService) GetRoundsForEvent(eventId int) ([]*repository.Round, error) {
	return s.roundRepository.GetRoundsForEvent(eventId)
}

// GetPlacementsForRound reads the stored final standings. Placements
// are entered externally, nothing is computed here.
func (s *RoundService) GetPlacementsForRound(roundId int) ([]*repository.FinalPlace, error) {
	if _, err := s.GetRoundById(roundId); err != nil {
		return nil, err
	}
	return s.finalPlaceRepository.GetPlacementsForRound(roundId)
}

// PlacementEntry is one externally computed standing.
type PlacementEntry struct {
	ParticipantId int
	Place         int
	SumPlaces     float64
}

func (s *RoundService) SavePlacements(roundId int, entries []PlacementEntry) ([]*repository.FinalPlace, error) {
	if len(entries) == 0 {
		return nil, app_error.Validation("at least one placement is required")
	}
	if _, err := s.GetRoundById(roundId); err != nil {
		return nil, err
	}
	existing, err := s.finalPlaceRepository.GetPlacementsForRound(roundId)
	if err != nil {
		return nil, err
	}
	byParticipant := make(map[int]*repository.FinalPlace, len(existing))
	for _, place := range existing {
		byParticipant[place.ParticipantId] = place
	}
	placements := make([]*repository.FinalPlace, 0, len(entries))
	for _, entry := range entries {
		place := byParticipant[entry.ParticipantId]
		if place == nil {
			place = &repository.FinalPlace{RoundId: roundId, ParticipantId: entry.ParticipantId}
		}
		place.Place = entry.Place
		place.SumPlaces = entry.SumPlaces
		placements = append(placements, place)
	}
	if err := s.finalPlaceRepository.SaveAll(placements); err != nil {
		return nil, err
	}
	return s.finalPlaceRepository.GetPlacementsForRound(roundId)
}
