package controller

import (
	"battle/app_error"
	"battle/repository"
	"battle/service"
	"battle/utils"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoundController struct {
	roundService *service.RoundService
	heatService  *service.HeatService
}

func setupRoundController(db *gorm.DB) []RouteInfo {
	e := RoundController{
		roundService: service.NewRoundService(db),
		heatService:  service.NewHeatService(db),
	}
	basePath := "rounds"
	adminOnly := []string{string(repository.PermissionAdmin)}
	routes := []RouteInfo{
		{Method: "POST", Path: "", HandlerFunc: e.createRoundHandler(), Authenticated: true, RoleRequired: adminOnly},
		{Method: "GET", Path: "", HandlerFunc: e.getRoundsHandler()},
		{Method: "GET", Path: "/:round_id", HandlerFunc: e.getRoundHandler()},
		{Method: "POST", Path: "/:round_id/distribute", HandlerFunc: e.distributeHeatsHandler(), Authenticated: true, RoleRequired: adminOnly},
		{Method: "GET", Path: "/:round_id/heats", HandlerFunc: e.getHeatsHandler()},
		{Method: "POST", Path: "/:round_id/heats", HandlerFunc: e.createHeatHandler(), Authenticated: true, RoleRequired: adminOnly},
		{Method: "PUT", Path: "/:round_id/heats/:heat_id", HandlerFunc: e.replaceHeatHandler(), Authenticated: true, RoleRequired: adminOnly},
		{Method: "DELETE", Path: "/:round_id/heats/:heat_id", HandlerFunc: e.deleteHeatHandler(), Authenticated: true, RoleRequired: adminOnly},
		{Method: "GET", Path: "/:round_id/placements", HandlerFunc: e.getPlacementsHandler()},
		{Method: "PUT", Path: "/:round_id/placements", HandlerFunc: e.savePlacementsHandler(), Authenticated: true, RoleRequired: adminOnly},
	}
	for i := range routes {
		routes[i].Path = basePath + routes[i].Path
	}
	return routes
}

type RoundCreate struct {
	EventId     int     `json:"competition_id" binding:"required"`
	CategoryId  int     `json:"category_id" binding:"required"`
	RoundType   string  `json:"round_type" binding:"required"`
	StageFormat *string `json:"stage_format"`
}

type RoundResponse struct {
	Id          int     `json:"id"`
	EventId     int     `json:"competition_id"`
	CategoryId  int     `json:"category_id"`
	RoundType   string  `json:"round_type"`
	StageFormat *string `json:"stage_format"`
}

func toRoundResponse(round *repository.Round) RoundResponse {
	return RoundResponse{
		Id:          round.Id,
		EventId:     round.EventId,
		CategoryId:  round.CategoryId,
		RoundType:   round.RoundType,
		StageFormat: round.StageFormat,
	}
}

type HeatMember struct {
	ParticipantId   int    `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
}

type HeatResponse struct {
	Id           int          `json:"id"`
	RoundId      int          `json:"round_id"`
	HeatNumber   int          `json:"heat_number"`
	Status       string       `json:"status"`
	Participants []HeatMember `json:"participants"`
}

func toHeatResponse(heat *repository.Heat) HeatResponse {
	members := utils.Map(heat.Participants, func(member *repository.HeatParticipant) HeatMember {
		result := HeatMember{ParticipantId: member.ParticipantId}
		if member.Participant != nil {
			result.ParticipantName = member.Participant.FirstName + " " + member.Participant.LastName
		}
		return result
	})
	sort.Slice(members, func(i, j int) bool {
		return members[i].ParticipantId < members[j].ParticipantId
	})
	return HeatResponse{
		Id:           heat.Id,
		RoundId:      heat.RoundId,
		HeatNumber:   heat.HeatNumber,
		Status:       string(heat.Status),
		Participants: members,
	}
}

// @Summary Create a round
// @Tags round
// @Accept json
// @Produce json
// @Param body body RoundCreate true "Round to create"
// @Success 201 {object} RoundResponse
// @Router /rounds [post]
func (e *RoundController) createRoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RoundCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		round, err := e.roundService.CreateRound(&repository.Round{
			EventId:     body.EventId,
			CategoryId:  body.CategoryId,
			RoundType:   body.RoundType,
			StageFormat: body.StageFormat,
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toRoundResponse(round))
	}
}

// @Summary Get the rounds of a competition
// @Tags round
// @Produce json
// @Param competition_id query int true "Competition Id"
// @Success 200 {array} RoundResponse
// @Router /rounds [get]
func (e *RoundController) getRoundsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Query("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		rounds, err := e.roundService.GetRoundsForEvent(eventId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(rounds, func(round *repository.Round) RoundResponse {
			return toRoundResponse(round)
		}))
	}
}

// @Summary Get a round
// @Tags round
// @Produce json
// @Param round_id path int true "Round Id"
// @Success 200 {object} RoundResponse
// @Router /rounds/{round_id} [get]
func (e *RoundController) getRoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		round, err := e.roundService.GetRoundById(roundId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toRoundResponse(round))
	}
}

type DistributeRequest struct {
	MaxInHeat int `json:"max_in_heat" binding:"required"`
}

type DistributeResponse struct {
	RoundId      int `json:"round_id"`
	HeatsCreated int `json:"heats_created"`
}

// @Summary Rebuild the heats of a round from its eligible participants
// @Tags round
// @Accept json
// @Produce json
// @Param round_id path int true "Round Id"
// @Param body body DistributeRequest true "Heat capacity"
// @Success 200 {object} DistributeResponse
// @Router /rounds/{round_id}/distribute [post]
func (e *RoundController) distributeHeatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		var body DistributeRequest
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		created, err := e.heatService.DistributeHeats(roundId, body.MaxInHeat)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, DistributeResponse{RoundId: roundId, HeatsCreated: created})
	}
}

// @Summary Get the heats of a round
// @Tags round
// @Produce json
// @Param round_id path int true "Round Id"
// @Success 200 {array} HeatResponse
// @Router /rounds/{round_id}/heats [get]
func (e *RoundController) getHeatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		if _, err := e.roundService.GetRoundById(roundId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		heats, err := e.heatService.GetHeatsForRound(roundId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(heats, func(heat *repository.Heat) HeatResponse {
			return toHeatResponse(heat)
		}))
	}
}

type ManualHeatRequest struct {
	ParticipantIds []int `json:"participant_ids" binding:"required"`
}

// @Summary Append a manually assembled heat to a round
// @Tags round
// @Accept json
// @Produce json
// @Param round_id path int true "Round Id"
// @Param body body ManualHeatRequest true "Participants of the heat"
// @Success 201 {object} HeatResponse
// @Router /rounds/{round_id}/heats [post]
func (e *RoundController) createHeatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		var body ManualHeatRequest
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		heat, err := e.heatService.CreateManualHeat(roundId, body.ParticipantIds)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toHeatResponse(heat))
	}
}

// @Summary Replace the membership of a heat
// @Tags round
// @Accept json
// @Produce json
// @Param round_id path int true "Round Id"
// @Param heat_id path int true "Heat Id"
// @Param body body ManualHeatRequest true "New participants of the heat"
// @Success 200 {object} HeatResponse
// @Router /rounds/{round_id}/heats/{heat_id} [put]
func (e *RoundController) replaceHeatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		heatId, err := strconv.Atoi(c.Param("heat_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "heat_id must be a number"})
			return
		}
		var body ManualHeatRequest
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		heat, err := e.heatService.ReplaceManualHeat(roundId, heatId, body.ParticipantIds)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toHeatResponse(heat))
	}
}

// @Summary Delete a heat and its memberships
// @Tags round
// @Param round_id path int true "Round Id"
// @Param heat_id path int true "Heat Id"
// @Success 204
// @Router /rounds/{round_id}/heats/{heat_id} [delete]
func (e *RoundController) deleteHeatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		heatId, err := strconv.Atoi(c.Param("heat_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "heat_id must be a number"})
			return
		}
		if err := e.heatService.DeleteHeat(roundId, heatId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.Status(204)
	}
}

type PlacementResponse struct {
	ParticipantId int     `json:"participant_id"`
	Place         int     `json:"place"`
	SumPlaces     float64 `json:"sum_places"`
}

type PlacementWrite struct {
	ParticipantId int     `json:"participant_id" binding:"required"`
	Place         int     `json:"place" binding:"required"`
	SumPlaces     float64 `json:"sum_places"`
}

type PlacementsWrite struct {
	Placements []PlacementWrite `json:"placements" binding:"required"`
}

// @Summary Enter the final standings of a round
// @Tags round
// @Accept json
// @Produce json
// @Param round_id path int true "Round Id"
// @Param body body PlacementsWrite true "Standings to store"
// @Success 200 {array} PlacementResponse
// @Router /rounds/{round_id}/placements [put]
func (e *RoundController) savePlacementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		var body PlacementsWrite
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		entries := utils.Map(body.Placements, func(placement PlacementWrite) service.PlacementEntry {
			return service.PlacementEntry{
				ParticipantId: placement.ParticipantId,
				Place:         placement.Place,
				SumPlaces:     placement.SumPlaces,
			}
		})
		placements, err := e.roundService.SavePlacements(roundId, entries)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(placements, func(place *repository.FinalPlace) PlacementResponse {
			return PlacementResponse{
				ParticipantId: place.ParticipantId,
				Place:         place.Place,
				SumPlaces:     place.SumPlaces,
			}
		}))
	}
}

// @Summary Get the final standings of a round
// @Tags round
// @Produce json
// @Param round_id path int true "Round Id"
// @Success 200 {array} PlacementResponse
// @Router /rounds/{round_id}/placements [get]
func (e *RoundController) getPlacementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roundId, err := strconv.Atoi(c.Param("round_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "round_id must be a number"})
			return
		}
		placements, err := e.roundService.GetPlacementsForRound(roundId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(placements, func(place *repository.FinalPlace) PlacementResponse {
			return PlacementResponse{
				ParticipantId: place.ParticipantId,
				Place:         place.Place,
				SumPlaces:     place.SumPlaces,
			}
		}))
	}
}
