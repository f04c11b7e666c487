package service

import (
	"battle/app_error"
	"battle/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createJudge(t *testing.T, lastName string) *repository.User {
	judge := &repository.User{FirstName: "Judge", LastName: lastName, Role: "judge"}
	assert.Nil(t, db.Create(judge).Error)
	return judge
}

func TestUpsertScoreCreatesAndUpdates(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)
	judge := createJudge(t, "One")

	var criterion repository.Criterion
	assert.Nil(t, db.Where("category_id = ?", round.CategoryId).First(&criterion).Error)

	scoreService := NewScoreService(db)
	created, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		CriterionId:   &criterion.Id,
		Value:         7.5,
	})
	assert.Nil(t, err)
	assert.Equal(t, 7.5, created.Value)

	heat := &repository.Heat{RoundId: round.Id, HeatNumber: 1}
	assert.Nil(t, db.Create(heat).Error)

	// same key overwrites value and heat pointer instead of adding a row
	updated, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		CriterionId:   &criterion.Id,
		HeatId:        &heat.Id,
		Value:         9,
	})
	assert.Nil(t, err)
	assert.Equal(t, created.Id, updated.Id)
	assert.Equal(t, 9.0, updated.Value)
	assert.Equal(t, heat.Id, *updated.HeatId)

	var count int64
	db.Model(&repository.Score{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertScoreCriterionlessKeyIsSeparate(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)
	judge := createJudge(t, "One")

	var criterion repository.Criterion
	assert.Nil(t, db.Where("category_id = ?", round.CategoryId).First(&criterion).Error)

	scoreService := NewScoreService(db)
	overall, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         6,
	})
	assert.Nil(t, err)

	perCriterion, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		CriterionId:   &criterion.Id,
		Value:         8,
	})
	assert.Nil(t, err)
	assert.NotEqual(t, overall.Id, perCriterion.Id)

	// a second criterion-less write still lands on the criterion-less row
	overwritten, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         6.5,
	})
	assert.Nil(t, err)
	assert.Equal(t, overall.Id, overwritten.Id)

	var count int64
	db.Model(&repository.Score{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestUpsertScoreRejectsNegativeValue(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)
	judge := createJudge(t, "One")

	scoreService := NewScoreService(db)
	_, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         -1,
	})
	assert.Equal(t, 400, app_error.HTTPStatus(err))

	var count int64
	db.Model(&repository.Score{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetScoresByHeat(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 2)
	judge := createJudge(t, "One")

	heat := &repository.Heat{RoundId: round.Id, HeatNumber: 1}
	assert.Nil(t, db.Create(heat).Error)

	scoreService := NewScoreService(db)
	for _, participant := range []*repository.Participant{participants[1], participants[0]} {
		_, err := scoreService.UpsertScore(ScoreUpsert{
			ParticipantId: participant.Id,
			JudgeId:       judge.Id,
			RoundId:       round.Id,
			HeatId:        &heat.Id,
			Value:         5,
		})
		assert.Nil(t, err)
	}

	scores, err := scoreService.GetScoresByHeat(heat.Id)
	assert.Nil(t, err)
	assert.Len(t, scores, 2)
	assert.Equal(t, participants[0].Id, scores[0].ParticipantId)
	assert.Equal(t, participants[1].Id, scores[1].ParticipantId)
}

func TestUpsertScorePublishesUpdate(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)
	judge := createJudge(t, "One")

	scoreService := NewScoreService(db)
	published := make([]*repository.Score, 0)
	scoreService.publishUpdate = func(score *repository.Score) {
		published = append(published, score)
	}

	created, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         7,
	})
	assert.Nil(t, err)
	assert.Len(t, published, 1)
	assert.Equal(t, created.Id, published[0].Id)
	assert.Equal(t, 7.0, published[0].Value)

	// every accepted write goes onto the stream, overwrites included
	_, err = scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         8,
	})
	assert.Nil(t, err)
	assert.Len(t, published, 2)
	assert.Equal(t, created.Id, published[1].Id)
	assert.Equal(t, 8.0, published[1].Value)

	// rejected writes never publish
	_, err = scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         -1,
	})
	assert.NotNil(t, err)
	assert.Len(t, published, 2)
}

func TestScoreKeyUniqueIndexes(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 1)
	judge := createJudge(t, "One")

	var criterion repository.Criterion
	assert.Nil(t, db.Where("category_id = ?", round.CategoryId).First(&criterion).Error)

	// the partial unique indexes reject duplicates even when the
	// application-level upsert is bypassed
	assert.Nil(t, db.Create(&repository.Score{
		RoundId: round.Id, ParticipantId: participants[0].Id, JudgeId: judge.Id, Value: 5,
	}).Error)
	assert.NotNil(t, db.Create(&repository.Score{
		RoundId: round.Id, ParticipantId: participants[0].Id, JudgeId: judge.Id, Value: 6,
	}).Error)

	assert.Nil(t, db.Create(&repository.Score{
		RoundId: round.Id, ParticipantId: participants[0].Id, JudgeId: judge.Id,
		CriterionId: &criterion.Id, Value: 5,
	}).Error)
	assert.NotNil(t, db.Create(&repository.Score{
		RoundId: round.Id, ParticipantId: participants[0].Id, JudgeId: judge.Id,
		CriterionId: &criterion.Id, Value: 6,
	}).Error)

	var count int64
	db.Model(&repository.Score{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGetNewDiffTracksChanges(t *testing.T) {
	round := SetUp()
	defer TearDown()
	participants := createParticipants(round, 2)
	judge := createJudge(t, "One")

	scoreService := NewScoreService(db)
	_, err := scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[0].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         5,
	})
	assert.Nil(t, err)

	snapshot, err := scoreService.Snapshot(round.EventId)
	assert.Nil(t, err)
	assert.Len(t, snapshot, 1)

	diff, err := scoreService.GetNewDiff(round.EventId)
	assert.Nil(t, err)
	assert.Len(t, diff, 0)

	_, err = scoreService.UpsertScore(ScoreUpsert{
		ParticipantId: participants[1].Id,
		JudgeId:       judge.Id,
		RoundId:       round.Id,
		Value:         8,
	})
	assert.Nil(t, err)

	diff, err = scoreService.GetNewDiff(round.EventId)
	assert.Nil(t, err)
	assert.Len(t, diff, 1)
	key := ScoreKey{ParticipantId: participants[1].Id, JudgeId: judge.Id, RoundId: round.Id}
	assert.Equal(t, 8.0, diff[key])
}
