package controller

import (
	"battle/app_error"
	"battle/repository"
	"battle/service"
	"battle/utils"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HeatController struct {
	heatService *service.HeatService
}

func setupHeatController(db *gorm.DB) []RouteInfo {
	e := HeatController{heatService: service.NewHeatService(db)}
	basePath := "heats"
	routes := []RouteInfo{
		{Method: "GET", Path: "/:heat_id", HandlerFunc: e.getHeatHandler()},
		{Method: "PATCH", Path: "/:heat_id/status", HandlerFunc: e.updateHeatStatusHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin), string(repository.PermissionJudge)}},
	}
	for i := range routes {
		routes[i].Path = basePath + routes[i].Path
	}
	return routes
}

type HeatDetailResponse struct {
	Id           int                 `json:"id"`
	HeatNumber   int                 `json:"heat_number"`
	Status       string              `json:"status"`
	Participants []HeatMember        `json:"participants"`
	RoundId      int                 `json:"round_id"`
	RoundType    string              `json:"round_type"`
	EventId      int                 `json:"competition_id"`
	EventTitle   string              `json:"competition_title"`
	CategoryId   int                 `json:"category_id"`
	CategoryName string              `json:"category_name"`
	Criteria     []CriterionResponse `json:"criteria"`
}

// @Summary Get a heat with its judging context
// @Tags heat
// @Produce json
// @Param heat_id path int true "Heat Id"
// @Success 200 {object} HeatDetailResponse
// @Router /heats/{heat_id} [get]
func (e *HeatController) getHeatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		heatId, err := strconv.Atoi(c.Param("heat_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "heat_id must be a number"})
			return
		}
		heat, err := e.heatService.GetHeatDetail(heatId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		base := toHeatResponse(heat)
		response := HeatDetailResponse{
			Id:           base.Id,
			HeatNumber:   base.HeatNumber,
			Status:       base.Status,
			Participants: base.Participants,
			RoundId:      heat.RoundId,
		}
		if heat.Round != nil {
			response.RoundType = heat.Round.RoundType
			if heat.Round.Event != nil {
				response.EventId = heat.Round.Event.Id
				response.EventTitle = heat.Round.Event.Title
			}
			if heat.Round.Category != nil {
				response.CategoryId = heat.Round.Category.Id
				response.CategoryName = heat.Round.Category.Name
				response.Criteria = utils.Map(heat.Round.Category.Criteria, func(criterion *repository.Criterion) CriterionResponse {
					return CriterionResponse{
						Id:       criterion.Id,
						Name:     criterion.Name,
						ScaleMin: criterion.ScaleMin,
						ScaleMax: criterion.ScaleMax,
					}
				})
			}
		}
		c.JSON(200, response)
	}
}

type HeatStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update the lifecycle status of a heat
// @Tags heat
// @Accept json
// @Produce json
// @Param heat_id path int true "Heat Id"
// @Param body body HeatStatusUpdate true "New status"
// @Success 200 {object} HeatResponse
// @Router /heats/{heat_id}/status [patch]
func (e *HeatController) updateHeatStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		heatId, err := strconv.Atoi(c.Param("heat_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "heat_id must be a number"})
			return
		}
		var body HeatStatusUpdate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		heat, err := e.heatService.UpdateHeatStatus(heatId, repository.HeatStatus(body.Status))
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, gin.H{"id": heat.Id, "status": heat.Status})
	}
}
