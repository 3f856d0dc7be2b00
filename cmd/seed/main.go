package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/fitlife-api/config"
	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
)

type seedWorkout struct {
	activity entity.ActivityType
	duration float64
	distance *float64
	calories float64
	daysAgo  int
	notes    string
}

func km(v float64) *float64 { return &v }

var demoWorkouts = []seedWorkout{
	{entity.ActivityRunning, 32, km(5.2), 340, 1, "Easy run along the river"},
	{entity.ActivityGymWorkout, 55, nil, 410, 2, "Upper body and core"},
	{entity.ActivityCycling, 75, km(28.4), 620, 4, "Hill repeats"},
	{entity.ActivityWalking, 40, km(3.1), 160, 5, ""},
	{entity.ActivityRunning, 48, km(8), 520, 7, "Tempo intervals"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@fitlife.local"
	password := "password123"
	name := "Demo Runner"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name, updated_at = now()
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", id, email, name, password)

	if _, err := db.Exec(`DELETE FROM workouts WHERE user_id = $1`, id); err != nil {
		log.Fatalf("failed to reset workouts: %v", err)
	}
	today := entity.CalendarDate(time.Now())
	for _, w := range demoWorkouts {
		var notes *string
		if w.notes != "" {
			notes = &w.notes
		}
		if _, err := db.Exec(`
			INSERT INTO workouts (user_id, activity_type, duration, distance, calories, workout_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, string(w.activity), w.duration, w.distance, w.calories, today.AddDate(0, 0, -w.daysAgo), notes); err != nil {
			log.Fatalf("failed to seed workout: %v", err)
		}
	}
	fmt.Printf("seeded %d workouts\n", len(demoWorkouts))
}
