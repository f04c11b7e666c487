package service

import (
	"battle/app_error"
	"battle/client"
	"battle/repository"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func genderPtr(gender repository.Gender) *repository.Gender {
	return &gender
}

func TestDistributeHeatsChunksParticipants(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 7)

	heatService := NewHeatService(db)
	created, err := heatService.DistributeHeats(round.Id, 3)
	assert.Nil(t, err)
	assert.Equal(t, 3, created)

	heats, err := heatService.GetHeatsForRound(round.Id)
	assert.Nil(t, err)
	assert.Len(t, heats, 3)

	assert.Equal(t, 1, heats[0].HeatNumber)
	assert.Equal(t, repository.HeatStatusInProgress, heats[0].Status)
	assert.Equal(t, repository.HeatStatusWaiting, heats[1].Status)
	assert.Equal(t, repository.HeatStatusWaiting, heats[2].Status)

	sizes := []int{len(heats[0].Participants), len(heats[1].Participants), len(heats[2].Participants)}
	assert.Equal(t, []int{3, 3, 1}, sizes)

	// eligible participants fill heats in id order
	assert.Equal(t, participants[6].Id, heats[2].Participants[0].ParticipantId)
}

func TestDistributeHeatsPairsByGender(t *testing.T) {
	round := SetUp()
	defer TearDown()

	males := make([]*repository.Participant, 0)
	females := make([]*repository.Participant, 0)
	for i := 0; i < 3; i++ {
		male := &repository.Participant{
			EventId: round.EventId, CategoryId: round.CategoryId,
			FirstName: "M", LastName: "Test", Gender: genderPtr(repository.GenderMale),
		}
		assert.Nil(t, db.Create(male).Error)
		males = append(males, male)
		if i < 2 {
			female := &repository.Participant{
				EventId: round.EventId, CategoryId: round.CategoryId,
				FirstName: "F", LastName: "Test", Gender: genderPtr(repository.GenderFemale),
			}
			assert.Nil(t, db.Create(female).Error)
			females = append(females, female)
		}
	}

	heatService := NewHeatService(db)
	created, err := heatService.DistributeHeats(round.Id, 2)
	assert.Nil(t, err)
	assert.Equal(t, 3, created)

	heats, err := heatService.GetHeatsForRound(round.Id)
	assert.Nil(t, err)
	memberIds := func(heat *repository.Heat) []int {
		ids := make([]int, 0, len(heat.Participants))
		for _, member := range heat.Participants {
			ids = append(ids, member.ParticipantId)
		}
		return ids
	}
	// full heats mix one male with one female, the unmatched male trails
	assert.ElementsMatch(t, []int{males[0].Id, females[0].Id}, memberIds(heats[0]))
	assert.ElementsMatch(t, []int{males[1].Id, females[1].Id}, memberIds(heats[1]))
	assert.ElementsMatch(t, []int{males[2].Id}, memberIds(heats[2]))
}

func TestDistributeHeatsReplacesPreviousAllocation(t *testing.T) {
	round := SetUp()
	defer TearDown()
	createParticipants(round, 4)

	heatService := NewHeatService(db)
	_, err := heatService.DistributeHeats(round.Id, 4)
	assert.Nil(t, err)
	previous, err := heatService.GetHeatsForRound(round.Id)
	assert.Nil(t, err)
	assert.Len(t, previous, 1)

	created, err := heatService.DistributeHeats(round.Id, 2)
	assert.Nil(t, err)
	assert.Equal(t, 2, created)

	heats, err := heatService.GetHeatsForRound(round.Id)
	assert.Nil(t, err)
	assert.Len(t, heats, 2)
	for _, heat := range heats {
		assert.NotEqual(t, previous[0].Id, heat.Id)
	}
}

func TestDistributeHeatsEmptyCategoryClearsHeats(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 2)

	heatService := NewHeatService(db)
	_, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id, participants[1].Id})
	assert.Nil(t, err)

	assert.Nil(t, db.Exec("DELETE FROM battle.heat_participants").Error)
	assert.Nil(t, db.Exec("DELETE FROM battle.participants").Error)

	created, err := heatService.DistributeHeats(round.Id, 2)
	assert.Nil(t, err)
	assert.Equal(t, 0, created)

	heats, err := heatService.GetHeatsForRound(round.Id)
	assert.Nil(t, err)
	assert.Len(t, heats, 0)
}

func TestDistributeHeatsValidation(t *testing.T) {
	round := SetUp()
	defer TearDown()

	heatService := NewHeatService(db)
	_, err := heatService.DistributeHeats(round.Id, 0)
	assert.NotNil(t, err)
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	_, err = heatService.DistributeHeats(round.Id+1000, 2)
	assert.NotNil(t, err)
	assert.True(t, app_error.IsNotFound(err))
}

func TestCreateManualHeatNumbering(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 5)

	heatService := NewHeatService(db)
	_, err := heatService.DistributeHeats(round.Id, 2)
	assert.Nil(t, err)

	// duplicate ids collapse to one membership
	heat, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id, participants[0].Id, participants[1].Id})
	assert.Nil(t, err)
	assert.Equal(t, 4, heat.HeatNumber)
	assert.Equal(t, repository.HeatStatusWaiting, heat.Status)
	assert.Len(t, heat.Participants, 2)
}

func TestCreateManualHeatValidation(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)

	otherCategory := &repository.Category{
		EventId: round.EventId,
		Name:    "Breaking Solo",
		Type:    "solo",
		Criteria: []*repository.Criterion{
			{Name: "musicality", ScaleMin: 0, ScaleMax: 10},
		},
	}
	assert.Nil(t, db.Create(otherCategory).Error)
	outsider := &repository.Participant{
		EventId: round.EventId, CategoryId: otherCategory.Id,
		FirstName: "Out", LastName: "Sider",
	}
	assert.Nil(t, db.Create(outsider).Error)

	heatService := NewHeatService(db)
	_, err := heatService.CreateManualHeat(round.Id, []int{})
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	_, err = heatService.CreateManualHeat(round.Id, []int{participants[0].Id + 1000})
	assert.True(t, app_error.IsNotFound(err))

	_, err = heatService.CreateManualHeat(round.Id, []int{outsider.Id})
	assert.Equal(t, 400, app_error.HTTPStatus(err))
}

func TestReplaceManualHeatKeepsNumberAndStatus(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 3)

	heatService := NewHeatService(db)
	heat, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id})
	assert.Nil(t, err)
	_, err = heatService.UpdateHeatStatus(heat.Id, repository.HeatStatusInProgress)
	assert.Nil(t, err)

	replaced, err := heatService.ReplaceManualHeat(round.Id, heat.Id, []int{participants[1].Id, participants[2].Id})
	assert.Nil(t, err)
	assert.Equal(t, heat.Id, replaced.Id)
	assert.Equal(t, heat.HeatNumber, replaced.HeatNumber)
	assert.Equal(t, repository.HeatStatusInProgress, replaced.Status)
	assert.Len(t, replaced.Participants, 2)
}

func TestDeleteHeatRemovesMemberships(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 2)

	heatService := NewHeatService(db)
	heat, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id, participants[1].Id})
	assert.Nil(t, err)

	assert.Nil(t, heatService.DeleteHeat(round.Id, heat.Id))

	var memberCount int64
	db.Model(&repository.HeatParticipant{}).Where("heat_id = ?", heat.Id).Count(&memberCount)
	assert.Equal(t, int64(0), memberCount)

	err = heatService.DeleteHeat(round.Id, heat.Id)
	assert.True(t, app_error.IsNotFound(err))
}

func TestUpdateHeatStatusValidation(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)

	heatService := NewHeatService(db)
	heat, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id})
	assert.Nil(t, err)

	_, err = heatService.UpdateHeatStatus(heat.Id, repository.HeatStatus("cancelled"))
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	_, err = heatService.UpdateHeatStatus(heat.Id+1000, repository.HeatStatusFinished)
	assert.True(t, app_error.IsNotFound(err))
}

func TestUpdateHeatStatusFinishedNotifiesRecipients(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)

	telegramId1 := int64(1001)
	telegramId2 := int64(1002)
	assert.Nil(t, db.Create(&repository.User{FirstName: "Judge", LastName: "One", Role: "judge", TelegramId: &telegramId1}).Error)
	assert.Nil(t, db.Create(&repository.User{FirstName: "Judge", LastName: "Two", Role: "judge", TelegramId: &telegramId2}).Error)
	assert.Nil(t, db.Create(&repository.User{FirstName: "No", LastName: "Telegram", Role: "judge"}).Error)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(200)
	}))
	defer server.Close()

	heatService := NewHeatService(db)
	telegramClient := client.NewTelegramClient("test-token")
	telegramClient.BaseURL = server.URL
	telegramClient.Client = server.Client()
	heatService.notificationService.telegramClient = telegramClient

	heat, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id})
	assert.Nil(t, err)

	updated, err := heatService.UpdateHeatStatus(heat.Id, repository.HeatStatusFinished)
	assert.Nil(t, err)
	assert.Equal(t, repository.HeatStatusFinished, updated.Status)
	// one message per recipient with a bound telegram id
	assert.Equal(t, 2, requests)

	// finishing again re-fires the notifications
	_, err = heatService.UpdateHeatStatus(heat.Id, repository.HeatStatusFinished)
	assert.Nil(t, err)
	assert.Equal(t, 4, requests)
}

func TestUpdateHeatStatusDeliveryFailureKeepsStatus(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)

	telegramId1 := int64(2001)
	telegramId2 := int64(2002)
	assert.Nil(t, db.Create(&repository.User{FirstName: "Judge", LastName: "One", Role: "judge", TelegramId: &telegramId1}).Error)
	assert.Nil(t, db.Create(&repository.User{FirstName: "Judge", LastName: "Two", Role: "judge", TelegramId: &telegramId2}).Error)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(500)
	}))
	defer server.Close()

	heatService := NewHeatService(db)
	telegramClient := client.NewTelegramClient("test-token")
	telegramClient.BaseURL = server.URL
	telegramClient.Client = server.Client()
	heatService.notificationService.telegramClient = telegramClient

	heat, err := heatService.CreateManualHeat(round.Id, []int{participants[0].Id})
	assert.Nil(t, err)

	updated, err := heatService.UpdateHeatStatus(heat.Id, repository.HeatStatusFinished)
	assert.Nil(t, err)
	assert.Equal(t, repository.HeatStatusFinished, updated.Status)
	// the first failed delivery aborts the rest of the batch
	assert.Equal(t, 1, requests)

	reloaded, err := heatService.GetHeatDetail(heat.Id)
	assert.Nil(t, err)
	assert.Equal(t, repository.HeatStatusFinished, reloaded.Status)
}
