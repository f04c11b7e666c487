package controller

import (
	"battle/app_error"
	"battle/repository"
	"battle/service"
	"battle/utils"
	"strconv"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventController struct {
	eventService    *service.EventService
	categoryService *service.CategoryService
}

func setupEventController(db *gorm.DB, cacheStore persistence.CacheStore) []RouteInfo {
	e := EventController{
		eventService:    service.NewEventService(db),
		categoryService: service.NewCategoryService(db),
	}
	basePath := "competitions"
	routes := []RouteInfo{
		{Method: "POST", Path: "", HandlerFunc: e.createEventHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "GET", Path: "", HandlerFunc: cache.CachePage(cacheStore, time.Minute, e.getEventsHandler())},
		{Method: "GET", Path: "/:competition_id", HandlerFunc: e.getEventHandler()},
		{Method: "DELETE", Path: "/:competition_id", HandlerFunc: e.deleteEventHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "POST", Path: "/:competition_id/categories", HandlerFunc: e.createCategoryHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "GET", Path: "/:competition_id/categories", HandlerFunc: e.getCategoriesHandler()},
	}
	for i := range routes {
		routes[i].Path = basePath + routes[i].Path
	}
	return routes
}

type EventCreate struct {
	Title    string  `json:"title" binding:"required"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
}

type EventResponse struct {
	Id         int                `json:"id"`
	Title      string             `json:"title"`
	Date       *string            `json:"date"`
	Location   *string            `json:"location"`
	Categories []CategoryResponse `json:"categories,omitempty"`
}

type CategoryResponse struct {
	Id       int                 `json:"id"`
	Name     string              `json:"name"`
	Type     string              `json:"type"`
	Criteria []CriterionResponse `json:"criteria"`
}

type CriterionResponse struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	ScaleMin int    `json:"scale_min"`
	ScaleMax int    `json:"scale_max"`
}

func toEventResponse(event *repository.Event) EventResponse {
	response := EventResponse{
		Id:       event.Id,
		Title:    event.Title,
		Location: event.Location,
		Categories: utils.Map(event.Categories, func(category *repository.Category) CategoryResponse {
			return toCategoryResponse(category)
		}),
	}
	if event.Date != nil {
		date := event.Date.Format("2006-01-02")
		response.Date = &date
	}
	return response
}

func toCategoryResponse(category *repository.Category) CategoryResponse {
	return CategoryResponse{
		Id:   category.Id,
		Name: category.Name,
		Type: category.Type,
		Criteria: utils.Map(category.Criteria, func(criterion *repository.Criterion) CriterionResponse {
			return CriterionResponse{
				Id:       criterion.Id,
				Name:     criterion.Name,
				ScaleMin: criterion.ScaleMin,
				ScaleMax: criterion.ScaleMax,
			}
		}),
	}
}

// @Summary Create a competition
// @Tags competition
// @Accept json
// @Produce json
// @Param body body EventCreate true "Competition to create"
// @Success 201 {object} EventResponse
// @Router /competitions [post]
func (e *EventController) createEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body EventCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		event := &repository.Event{Title: body.Title, Location: body.Location}
		if body.Date != nil {
			date, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				c.JSON(400, gin.H{"error": "date must be formatted YYYY-MM-DD"})
				return
			}
			event.Date = &date
		}
		event, err := e.eventService.CreateEvent(event)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toEventResponse(event))
	}
}

// @Summary Get all competitions
// @Tags competition
// @Produce json
// @Success 200 {array} EventResponse
// @Router /competitions [get]
func (e *EventController) getEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := e.eventService.GetAllEvents()
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(events, func(event *repository.Event) EventResponse {
			return toEventResponse(event)
		}))
	}
}

// @Summary Get a competition with its categories
// @Tags competition
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Success 200 {object} EventResponse
// @Router /competitions/{competition_id} [get]
func (e *EventController) getEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		event, err := e.eventService.GetEventById(eventId, "Categories.Criteria")
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toEventResponse(event))
	}
}

// @Summary Delete a competition with everything attached to it
// @Tags competition
// @Param competition_id path int true "Competition Id"
// @Success 204
// @Router /competitions/{competition_id} [delete]
func (e *EventController) deleteEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		if err := e.eventService.DeleteEvent(eventId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.Status(204)
	}
}

type CategoryCreate struct {
	Name     string   `json:"name" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Criteria []string `json:"criteria" binding:"required"`
}

// @Summary Create a category with its scoring criteria
// @Tags competition
// @Accept json
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Param body body CategoryCreate true "Category to create"
// @Success 201 {object} CategoryResponse
// @Router /competitions/{competition_id}/categories [post]
func (e *EventController) createCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		var body CategoryCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		category, err := e.categoryService.CreateCategory(eventId, body.Name, body.Type, body.Criteria)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toCategoryResponse(category))
	}
}

// @Summary Get the categories of a competition
// @Tags competition
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Success 200 {array} CategoryResponse
// @Router /competitions/{competition_id}/categories [get]
func (e *EventController) getCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		categories, err := e.categoryService.GetCategoriesForEvent(eventId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(categories, func(category *repository.Category) CategoryResponse {
			return toCategoryResponse(category)
		}))
	}
}
