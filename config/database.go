package config

import (
	model "battle/repository"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var enumQueries = []string{
	`CREATE TYPE battle.heat_status AS ENUM ('waiting', 'in_progress', 'finished')`,
}

// The score ledger key treats an absent criterion as its own value, so
// uniqueness needs one partial index per NULL branch.
var indexQueries = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_score_key_criterion ON battle.scores (participant_id, judge_id, round_id, criterion_id) WHERE criterion_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_score_key_overall ON battle.scores (participant_id, judge_id, round_id) WHERE criterion_id IS NULL`,
}

func InitDB(host string, port string, user string, password string, dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "battle.",
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	x := db.Exec(`CREATE SCHEMA IF NOT EXISTS battle`)
	if x.Error != nil {
		return nil, x.Error
	}
	for _, query := range enumQueries {
		x := db.Exec(query)
		if x.Error != nil {
			if strings.Contains(x.Error.Error(), "already exists") {
				continue
			}
			return nil, x.Error
		}
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Category{},
		&model.Criterion{},
		&model.Participant{},
		&model.Round{},
		&model.Heat{},
		&model.HeatParticipant{},
		&model.Score{},
		&model.FinalPlace{},
	)
	if err != nil {
		return nil, err
	}
	for _, query := range indexQueries {
		x := db.Exec(query)
		if x.Error != nil {
			return nil, x.Error
		}
	}
	return db, nil
}
