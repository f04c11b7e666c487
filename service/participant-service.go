package service

import (
	"battle/app_error"
	"battle/repository"
	"errors"

	"gorm.io/gorm"
)

type ParticipantService struct {
	participantRepository *repository.ParticipantRepository
	categoryRepository    *repository.CategoryRepository
	eventRepository       *repository.EventRepository
	scoreRepository       *repository.ScoreRepository
	heatRepository        *repository.HeatRepository
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{
		participantRepository: repository.NewParticipantRepository(db),
		categoryRepository:    repository.NewCategoryRepository(db),
		eventRepository:       repository.NewEventRepository(db),
		scoreRepository:       repository.NewScoreRepository(db),
		heatRepository:        repository.NewHeatRepository(db),
	}
}

func (s *ParticipantService) CreateParticipant(participant *repository.Participant) (*repository.Participant, error) {
	if err := s.checkCategory(participant.CategoryId, participant.EventId); err != nil {
		return nil, err
	}
	return s.participantRepository.Save(participant)
}

func (s *ParticipantService) ListForCategory(categoryId int) ([]*repository.Participant, error) {
	return s.participantRepository.ListForCategory(categoryId)
}

// ParticipantUpdate carries a partial update; nil fields are left
// untouched.
type ParticipantUpdate struct {
	FirstName  *string
	LastName   *string
	Number     *int
	Role       *string
	Gender     *repository.Gender
	CategoryId *int
}

func (s *ParticipantService) UpdateParticipant(eventId int, participantId int, update ParticipantUpdate) (*repository.Participant, error) {
	participant, err := s.participantRepository.GetParticipantInEvent(participantId, eventId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("participant %d not found", participantId)
		}
		return nil, err
	}
	if update.FirstName != nil {
		participant.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		participant.LastName = *update.LastName
	}
	if update.Number != nil {
		participant.Number = update.Number
	}
	if update.Role != nil {
		participant.Role = update.Role
	}
	if update.Gender != nil {
		participant.Gender = update.Gender
	}
	if update.CategoryId != nil {
		if err := s.checkCategory(*update.CategoryId, eventId); err != nil {
			return nil, err
		}
		participant.CategoryId = *update.CategoryId
	}
	return s.participantRepository.Save(participant)
}

func (s *ParticipantService) checkCategory(categoryId int, eventId int) error {
	category, err := s.categoryRepository.GetCategoryById(categoryId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app_error.NotFound("category %d not found", categoryId)
		}
		return err
	}
	if category.EventId != eventId {
		return app_error.Validation("category %d does not belong to competition %d", categoryId, eventId)
	}
	return nil
}

type ScoreDetail struct {
	Id            int     `json:"id"`
	Value         float64 `json:"score"`
	JudgeName     string  `json:"judge_name"`
	CriterionName *string `json:"criterion_name"`
	RoundId       int     `json:"round_id"`
	HeatId        *int    `json:"heat_id"`
}

type HeatDetail struct {
	Id           int     `json:"id"`
	HeatNumber   int     `json:"heat_number"`
	Status       string  `json:"status"`
	RoundId      int     `json:"round_id"`
	RoundType    string  `json:"round_type"`
	StageFormat  *string `json:"stage_format"`
	CategoryName string  `json:"category_name"`
	EventTitle   string  `json:"event_title"`
}

type ParticipantStats struct {
	Id            int           `json:"id"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Number        *int          `json:"number"`
	Role          *string       `json:"role"`
	Gender        *string       `json:"gender"`
	CategoryId    int           `json:"category_id"`
	CategoryName  string        `json:"category_name"`
	EventId       int           `json:"event_id"`
	EventTitle    string        `json:"event_title"`
	EventDate     *string       `json:"event_date"`
	EventLocation *string       `json:"event_location"`
	Scores        []ScoreDetail `json:"scores"`
	Heats         []HeatDetail  `json:"heats"`
}

// GetParticipantStats assembles the cross-entity view used by the
// participant profile page: every score with judge and criterion
// context, every heat with round/category/event context.
func (s *ParticipantService) GetParticipantStats(participantId int) (*ParticipantStats, error) {
	participant, err := s.participantRepository.GetParticipantById(participantId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("participant %d not found", participantId)
		}
		return nil, err
	}
	category, err := s.categoryRepository.GetCategoryById(participant.CategoryId)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepository.GetEventById(participant.EventId)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepository.GetScoresForParticipant(participantId)
	if err != nil {
		return nil, err
	}
	heats, err := s.heatRepository.GetHeatsForParticipant(participantId)
	if err != nil {
		return nil, err
	}

	criterionIds := make([]int, 0)
	for _, score := range scores {
		if score.CriterionId != nil {
			criterionIds = append(criterionIds, *score.CriterionId)
		}
	}
	criterionNames := make(map[int]string)
	if len(criterionIds) > 0 {
		criteria, err := s.categoryRepository.GetCriteriaByIds(criterionIds)
		if err != nil {
			return nil, err
		}
		for _, criterion := range criteria {
			criterionNames[criterion.Id] = criterion.Name
		}
	}

	stats := &ParticipantStats{
		Id:            participant.Id,
		FirstName:     participant.FirstName,
		LastName:      participant.LastName,
		Number:        participant.Number,
		Role:          participant.Role,
		CategoryId:    category.Id,
		CategoryName:  category.Name,
		EventId:       event.Id,
		EventTitle:    event.Title,
		EventLocation: event.Location,
		Scores:        make([]ScoreDetail, 0, len(scores)),
		Heats:         make([]HeatDetail, 0, len(heats)),
	}
	if participant.Gender != nil {
		gender := string(*participant.Gender)
		stats.Gender = &gender
	}
	if event.Date != nil {
		date := event.Date.Format("2006-01-02")
		stats.EventDate = &date
	}

	for _, score := range scores {
		detail := ScoreDetail{
			Id:      score.Id,
			Value:   score.Value,
			RoundId: score.RoundId,
			HeatId:  score.HeatId,
		}
		if score.Judge != nil {
			detail.JudgeName = score.Judge.FirstName + " " + score.Judge.LastName
		}
		if score.CriterionId != nil {
			if name, ok := criterionNames[*score.CriterionId]; ok {
				detail.CriterionName = &name
			}
		}
		stats.Scores = append(stats.Scores, detail)
	}
	for _, heat := range heats {
		detail := HeatDetail{
			Id:         heat.Id,
			HeatNumber: heat.HeatNumber,
			Status:     string(heat.Status),
			RoundId:    heat.RoundId,
		}
		if heat.Round != nil {
			detail.RoundType = heat.Round.RoundType
			detail.StageFormat = heat.Round.StageFormat
			if heat.Round.Category != nil {
				detail.CategoryName = heat.Round.Category.Name
			}
			if heat.Round.Event != nil {
				detail.EventTitle = heat.Round.Event.Title
			}
		}
		stats.Heats = append(stats.Heats, detail)
	}
	return stats, nil
}
