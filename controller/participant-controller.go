package controller

import (
	"battle/app_error"
	"battle/repository"
	"battle/service"
	"battle/utils"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ParticipantController struct {
	participantService *service.ParticipantService
}

func setupParticipantController(db *gorm.DB) []RouteInfo {
	e := ParticipantController{participantService: service.NewParticipantService(db)}
	return []RouteInfo{
		{Method: "POST", Path: "competitions/:competition_id/participants", HandlerFunc: e.createParticipantHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "GET", Path: "competitions/:competition_id/participants", HandlerFunc: e.getParticipantsHandler()},
		{Method: "PATCH", Path: "competitions/:competition_id/participants/:participant_id", HandlerFunc: e.updateParticipantHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "GET", Path: "participants/:participant_id/stats", HandlerFunc: e.getParticipantStatsHandler()},
	}
}

type ParticipantCreate struct {
	FullName   string  `json:"full_name" binding:"required"`
	CategoryId int     `json:"category_id" binding:"required"`
	Number     *int    `json:"number"`
	Role       *string `json:"role"`
	Gender     *string `json:"gender"`
}

type ParticipantUpdate struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Number     *int    `json:"number"`
	Role       *string `json:"role"`
	Gender     *string `json:"gender"`
	CategoryId *int    `json:"category_id"`
}

type ParticipantResponse struct {
	Id         int     `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Number     *int    `json:"number"`
	Role       *string `json:"role"`
	Gender     *string `json:"gender"`
	CategoryId int     `json:"category_id"`
	EventId    int     `json:"competition_id"`
}

func toParticipantResponse(participant *repository.Participant) ParticipantResponse {
	response := ParticipantResponse{
		Id:         participant.Id,
		FirstName:  participant.FirstName,
		LastName:   participant.LastName,
		Number:     participant.Number,
		Role:       participant.Role,
		CategoryId: participant.CategoryId,
		EventId:    participant.EventId,
	}
	if participant.Gender != nil {
		gender := string(*participant.Gender)
		response.Gender = &gender
	}
	return response
}

func parseGender(raw string) (*repository.Gender, bool) {
	gender := repository.Gender(raw)
	if gender != repository.GenderMale && gender != repository.GenderFemale {
		return nil, false
	}
	return &gender, true
}

// @Summary Register a participant for a competition
// @Tags participant
// @Accept json
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Param body body ParticipantCreate true "Participant to register"
// @Success 201 {object} ParticipantResponse
// @Router /competitions/{competition_id}/participants [post]
func (e *ParticipantController) createParticipantHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		var body ParticipantCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		names := strings.Fields(body.FullName)
		if len(names) < 2 {
			c.JSON(400, gin.H{"error": "full_name must contain a first and a last name"})
			return
		}
		participant := &repository.Participant{
			EventId:    eventId,
			CategoryId: body.CategoryId,
			FirstName:  strings.Join(names[:len(names)-1], " "),
			LastName:   names[len(names)-1],
			Number:     body.Number,
			Role:       body.Role,
		}
		if body.Gender != nil {
			gender, ok := parseGender(*body.Gender)
			if !ok {
				c.JSON(400, gin.H{"error": "gender must be male or female"})
				return
			}
			participant.Gender = gender
		}
		participant, err = e.participantService.CreateParticipant(participant)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toParticipantResponse(participant))
	}
}

// @Summary Get the participants of a category
// @Tags participant
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Param category_id query int true "Category Id"
// @Success 200 {array} ParticipantResponse
// @Router /competitions/{competition_id}/participants [get]
func (e *ParticipantController) getParticipantsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryId, err := strconv.Atoi(c.Query("category_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "category_id must be a number"})
			return
		}
		participants, err := e.participantService.ListForCategory(categoryId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(participants, func(participant *repository.Participant) ParticipantResponse {
			return toParticipantResponse(participant)
		}))
	}
}

// @Summary Update a participant
// @Tags participant
// @Accept json
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Param participant_id path int true "Participant Id"
// @Param body body ParticipantUpdate true "Fields to update"
// @Success 200 {object} ParticipantResponse
// @Router /competitions/{competition_id}/participants/{participant_id} [patch]
func (e *ParticipantController) updateParticipantHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		participantId, err := strconv.Atoi(c.Param("participant_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "participant_id must be a number"})
			return
		}
		var body ParticipantUpdate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		update := service.ParticipantUpdate{
			FirstName:  body.FirstName,
			LastName:   body.LastName,
			Number:     body.Number,
			Role:       body.Role,
			CategoryId: body.CategoryId,
		}
		if body.Gender != nil {
			gender, ok := parseGender(*body.Gender)
			if !ok {
				c.JSON(400, gin.H{"error": "gender must be male or female"})
				return
			}
			update.Gender = gender
		}
		participant, err := e.participantService.UpdateParticipant(eventId, participantId, update)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toParticipantResponse(participant))
	}
}

// @Summary Get a participant's scores and heats across the competition
// @Tags participant
// @Produce json
// @Param participant_id path int true "Participant Id"
// @Success 200 {object} service.ParticipantStats
// @Router /participants/{participant_id}/stats [get]
func (e *ParticipantController) getParticipantStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		participantId, err := strconv.Atoi(c.Param("participant_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "participant_id must be a number"})
			return
		}
		stats, err := e.participantService.GetParticipantStats(participantId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, stats)
	}
}
