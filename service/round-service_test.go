package service

import (
	"battle/app_error"
	"battle/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRoundValidatesCategory(t *testing.T) {
	round := SetUp()
	defer TearDown()

	roundService := NewRoundService(db)
	otherEvent := &repository.Event{Title: "Autumn Battle"}
	assert.Nil(t, db.Create(otherEvent).Error)

	_, err := roundService.CreateRound(&repository.Round{
		EventId:    otherEvent.Id,
		CategoryId: round.CategoryId,
		RoundType:  "final",
	})
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	_, err = roundService.CreateRound(&repository.Round{
		EventId:    round.EventId + 1000,
		CategoryId: round.CategoryId,
		RoundType:  "final",
	})
	assert.True(t, app_error.IsNotFound(err))

	created, err := roundService.CreateRound(&repository.Round{
		EventId:    round.EventId,
		CategoryId: round.CategoryId,
		RoundType:  "final",
	})
	assert.Nil(t, err)
	assert.NotZero(t, created.Id)
}

func TestSavePlacementsUpserts(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 2)

	roundService := NewRoundService(db)
	placements, err := roundService.SavePlacements(round.Id, []PlacementEntry{
		{ParticipantId: participants[0].Id, Place: 1, SumPlaces: 3},
		{ParticipantId: participants[1].Id, Place: 2, SumPlaces: 5},
	})
	assert.Nil(t, err)
	assert.Len(t, placements, 2)
	assert.Equal(t, participants[0].Id, placements[0].ParticipantId)

	// re-entering standings overwrites instead of duplicating
	placements, err = roundService.SavePlacements(round.Id, []PlacementEntry{
		{ParticipantId: participants[1].Id, Place: 1, SumPlaces: 2.5},
	})
	assert.Nil(t, err)
	assert.Len(t, placements, 2)
	assert.Equal(t, participants[1].Id, placements[0].ParticipantId)
	assert.Equal(t, 2.5, placements[0].SumPlaces)

	_, err = roundService.SavePlacements(round.Id, nil)
	assert.Equal(t, 400, app_error.HTTPStatus(err))
}
