package repository

import (
	"gorm.io/gorm"
)

type Category struct {
	Id       int          `gorm:"primaryKey"`
	EventId  int          `gorm:"not null"`
	Name     string       `gorm:"not null"`
	Type     string       `gorm:"not null"`
	Criteria []*Criterion `gorm:"foreignKey:CategoryId;constraint:OnDelete:CASCADE"`
}

type Criterion struct {
	Id         int    `gorm:"primaryKey"`
	CategoryId int    `gorm:"not null"`
	Name       string `gorm:"not null"`
	ScaleMin   int    `gorm:"not null;default:0"`
	ScaleMax   int    `gorm:"not null;default:10"`
}

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) GetCategoryById(categoryId int, preloads ...string) (*Category, error) {
	var category Category
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&category, categoryId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &category, nil
}

// SaveWithCriteria creates the category and its criteria rows in one
// transaction.
func (r *CategoryRepository) SaveWithCriteria(category *Category, criteriaNames []string) (*Category, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(category).Error; err != nil {
			return err
		}
		criteria := make([]*Criterion, 0, len(criteriaNames))
		for _, name := range criteriaNames {
			criteria = append(criteria, &Criterion{CategoryId: category.Id, Name: name})
		}
		if err := tx.Create(criteria).Error; err != nil {
			return err
		}
		category.Criteria = criteria
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) GetCategoriesForEvent(eventId int) ([]*Category, error) {
	categories := make([]*Category, 0)
	result := r.DB.Preload("Criteria").Where("event_id = ?", eventId).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

func (r *CategoryRepository) GetCriteriaByIds(criterionIds []int) ([]*Criterion, error) {
	criteria := make([]*Criterion, 0)
	result := r.DB.Find(&criteria, "id in ?", criterionIds)
	if result.Error != nil {
		return nil, result.Error
	}
	return criteria, nil
}
