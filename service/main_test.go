package service

import (
	"battle/repository"
	"fmt"
	"log"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/ory/dockertest/v3"
)

var db *gorm.DB
var enumQueries = []string{
	`CREATE TYPE battle.heat_status AS ENUM ('waiting', 'in_progress', 'finished')`,
}

var indexQueries = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_score_key_criterion ON battle.scores (participant_id, judge_id, round_id, criterion_id) WHERE criterion_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_score_key_overall ON battle.scores (participant_id, judge_id, round_id) WHERE criterion_id IS NULL`,
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "DATABASE_NAME=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	sqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable search_path=battle",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(sqlInfo), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				TablePrefix:   "battle.",
				SingularTable: false,
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})

		if err != nil {
			return err
		}
		db.Exec(`CREATE SCHEMA IF NOT EXISTS battle`)
		for _, query := range enumQueries {
			x := db.Exec(query)
			if x.Error != nil {
				if strings.Contains(x.Error.Error(), "already exists") {
					continue
				}
			}
		}
		if err := db.AutoMigrate(
			&repository.User{},
			&repository.Event{},
			&repository.Category{},
			&repository.Criterion{},
			&repository.Participant{},
			&repository.Round{},
			&repository.Heat{},
			&repository.HeatParticipant{},
			&repository.Score{},
			&repository.FinalPlace{},
		); err != nil {
			return err
		}
		for _, query := range indexQueries {
			if x := db.Exec(query); x.Error != nil {
				return x.Error
			}
		}
		return nil

	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	// as of go1.15 testing.M returns the exit code of m.Run(), so it is safe to use defer here
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}

	}()
	m.Run()
}

func TearDown() {
	db.Exec("DELETE FROM battle.scores")
	db.Exec("DELETE FROM battle.final_places")
	db.Exec("DELETE FROM battle.heat_participants")
	db.Exec("DELETE FROM battle.heats")
	db.Exec("DELETE FROM battle.rounds")
	db.Exec("DELETE FROM battle.participants")
	db.Exec("DELETE FROM battle.criteria")
	db.Exec("DELETE FROM battle.categories")
	db.Exec("DELETE FROM battle.events")
	db.Exec("DELETE FROM battle.users")
}

func SetUp() *repository.Round {
	event := &repository.Event{Title: "Spring Battle"}
	if err := db.Create(event).Error; err != nil {
		log.Fatalf("Error creating event: %v", err)
	}
	category := &repository.Category{
		EventId: event.Id,
		Name:    "Hip-Hop Solo",
		Type:    "solo",
		Criteria: []*repository.Criterion{
			{Name: "technique", ScaleMin: 0, ScaleMax: 10},
		},
	}
	if err := db.Create(category).Error; err != nil {
		log.Fatalf("Error creating category: %v", err)
	}
	round := &repository.Round{
		EventId:    event.Id,
		CategoryId: category.Id,
		RoundType:  "qualifier",
	}
	if err := db.Create(round).Error; err != nil {
		log.Fatalf("Error creating round: %v", err)
	}
	return round
}

func createParticipants(round *repository.Round, count int) []*repository.Participant {
	participants := make([]*repository.Participant, 0, count)
	for i := 1; i <= count; i++ {
		participant := &repository.Participant{
			EventId:    round.EventId,
			CategoryId: round.CategoryId,
			FirstName:  fmt.Sprintf("Dancer%d", i),
			LastName:   "Test",
		}
		if err := db.Create(participant).Error; err != nil {
			log.Fatalf("Error creating participant: %v", err)
		}
		participants = append(participants, participant)
	}
	return participants
}
