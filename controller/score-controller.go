package controller

import (
	"battle/app_error"
	"battle/repository"
	"battle/service"
	"battle/utils"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type ScoreController struct {
	scoreService *service.ScoreService

	mu          sync.Mutex
	connections map[int]map[*websocket.Conn]bool
}

func setupScoreController(db *gorm.DB, redisClient *redis.Client) []RouteInfo {
	e := ScoreController{
		scoreService: service.NewScoreService(db),
		connections:  make(map[int]map[*websocket.Conn]bool),
	}
	go e.runScoreUpdater()
	return []RouteInfo{
		{
			Method: "POST", Path: "scores", HandlerFunc: e.upsertScoreHandler(),
			Middleware:    []gin.HandlerFunc{RateLimit(redisClient, 10, time.Second)},
			Authenticated: true, RoleRequired: []string{string(repository.PermissionJudge)},
		},
		{Method: "GET", Path: "scores/heats/:heat_id", HandlerFunc: e.getHeatScoresHandler()},
		{Method: "GET", Path: "competitions/:competition_id/scores/ws", HandlerFunc: e.scoreStreamHandler()},
	}
}

type ScoreCreate struct {
	ParticipantId int      `json:"participant_id" binding:"required"`
	JudgeId       int      `json:"judge_id" binding:"required"`
	RoundId       int      `json:"round_id" binding:"required"`
	HeatId        *int     `json:"heat_id"`
	CriterionId   *int     `json:"criterion_id"`
	Value         *float64 `json:"score" binding:"required"`
}

type ScoreResponse struct {
	Id            int     `json:"id"`
	ParticipantId int     `json:"participant_id"`
	JudgeId       int     `json:"judge_id"`
	RoundId       int     `json:"round_id"`
	HeatId        *int    `json:"heat_id"`
	CriterionId   *int    `json:"criterion_id"`
	Value         float64 `json:"score"`
}

func toScoreResponse(score *repository.Score) ScoreResponse {
	return ScoreResponse{
		Id:            score.Id,
		ParticipantId: score.ParticipantId,
		JudgeId:       score.JudgeId,
		RoundId:       score.RoundId,
		HeatId:        score.HeatId,
		CriterionId:   score.CriterionId,
		Value:         score.Value,
	}
}

// @Summary Submit or overwrite a judge's score
// @Tags score
// @Accept json
// @Produce json
// @Param body body ScoreCreate true "Score to record"
// @Success 200 {object} ScoreResponse
// @Router /scores [post]
func (e *ScoreController) upsertScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ScoreCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		score, err := e.scoreService.UpsertScore(service.ScoreUpsert{
			ParticipantId: body.ParticipantId,
			JudgeId:       body.JudgeId,
			RoundId:       body.RoundId,
			HeatId:        body.HeatId,
			CriterionId:   body.CriterionId,
			Value:         *body.Value,
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toScoreResponse(score))
	}
}

// @Summary Get the scores recorded against a heat
// @Tags score
// @Produce json
// @Param heat_id path int true "Heat Id"
// @Success 200 {array} ScoreResponse
// @Router /scores/heats/{heat_id} [get]
func (e *ScoreController) getHeatScoresHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		heatId, err := strconv.Atoi(c.Param("heat_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "heat_id must be a number"})
			return
		}
		scores, err := e.scoreService.GetScoresByHeat(heatId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(scores, func(score *repository.Score) ScoreResponse {
			return toScoreResponse(score)
		}))
	}
}

type ScoreStreamEntry struct {
	ParticipantId int     `json:"participant_id"`
	JudgeId       int     `json:"judge_id"`
	RoundId       int     `json:"round_id"`
	CriterionId   int     `json:"criterion_id,omitempty"`
	Value         float64 `json:"score"`
}

func toStreamEntries(scores service.ScoreMap) []ScoreStreamEntry {
	entries := make([]ScoreStreamEntry, 0, len(scores))
	for key, value := range scores {
		entries = append(entries, ScoreStreamEntry{
			ParticipantId: key.ParticipantId,
			JudgeId:       key.JudgeId,
			RoundId:       key.RoundId,
			CriterionId:   key.CriterionId,
			Value:         value,
		})
	}
	return entries
}

// @Summary Stream live score updates for a competition
// @Tags score
// @Param competition_id path int true "Competition Id"
// @Router /competitions/{competition_id}/scores/ws [get]
func (e *ScoreController) scoreStreamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("competition_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "competition_id must be a number"})
			return
		}
		connection, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to upgrade websocket connection: %v", err)
			return
		}

		snapshot, err := e.scoreService.Snapshot(eventId)
		if err != nil {
			log.Printf("failed to load scoreboard for competition %d: %v", eventId, err)
			connection.Close()
			return
		}
		if err := connection.WriteJSON(toStreamEntries(snapshot)); err != nil {
			connection.Close()
			return
		}

		e.mu.Lock()
		if e.connections[eventId] == nil {
			e.connections[eventId] = make(map[*websocket.Conn]bool)
		}
		e.connections[eventId][connection] = true
		e.mu.Unlock()
	}
}

// runScoreUpdater polls for changed scores and pushes diffs to every
// open scoreboard connection. Dead connections are dropped on write
// failure.
func (e *ScoreController) runScoreUpdater() {
	for range time.Tick(5 * time.Second) {
		e.mu.Lock()
		eventIds := make([]int, 0, len(e.connections))
		for eventId, connections := range e.connections {
			if len(connections) > 0 {
				eventIds = append(eventIds, eventId)
			}
		}
		e.mu.Unlock()

		for _, eventId := range eventIds {
			diff, err := e.scoreService.GetNewDiff(eventId)
			if err != nil {
				log.Printf("failed to refresh scoreboard for competition %d: %v", eventId, err)
				continue
			}
			if len(diff) == 0 {
				continue
			}
			entries := toStreamEntries(diff)
			e.mu.Lock()
			for connection := range e.connections[eventId] {
				if err := connection.WriteJSON(entries); err != nil {
					connection.Close()
					delete(e.connections[eventId], connection)
				}
			}
			e.mu.Unlock()
		}
	}
}
