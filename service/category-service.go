package service

import (
	"battle/app_error"
	"battle/repository"
	"battle/utils"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepository *repository.CategoryRepository
	eventRepository    *repository.EventRepository
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		categoryRepository: repository.NewCategoryRepository(db),
		eventRepository:    repository.NewEventRepository(db),
	}
}

// CreateCategory creates a category with its scoring criteria. A
// category must carry at least one criterion from the start.
func (s *CategoryService) CreateCategory(eventId int, name string, categoryType string, criteriaNames []string) (*repository.Category, error) {
	criteria := utils.Filter(utils.Map(criteriaNames, strings.TrimSpace), func(name string) bool {
		return name != ""
	})
	if len(criteria) == 0 {
		return nil, app_error.Validation("at least one criterion is required")
	}
	if _, err := s.eventRepository.GetEventById(eventId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("competition %d not found", eventId)
		}
		return nil, err
	}
	category := &repository.Category{EventId: eventId, Name: name, Type: categoryType}
	return s.categoryRepository.SaveWithCriteria(category, criteria)
}

func (s *CategoryService) GetCategoriesForEvent(eventId int) ([]*repository.Category, error) {
	return s.categoryRepository.GetCategoriesForEvent(eventId)
}
