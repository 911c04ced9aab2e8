package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/render"
)

// Renders a sample week agenda to week.png for eyeballing the layout.
func main() {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	patients := []*model.Patient{
		{FirstName: "Maria", LastName: "Lopez"},
		{FirstName: "Juan", LastName: "Hernandez"},
		{FirstName: "Ana", LastName: "Ramirez"},
	}

	consultations := []*model.Consultation{
		// Monday
		{
			ID:          1,
			ScheduledAt: start.Add(9 * time.Hour),
			Status:      model.StatusScheduled,
			Patient:     patients[0],
		},
		{
			ID:          2,
			ScheduledAt: start.Add(14 * time.Hour),
			Status:      model.StatusInProgress,
			Patient:     patients[1],
		},
		// Tuesday
		{
			ID:          3,
			ScheduledAt: start.AddDate(0, 0, 1).Add(10 * time.Hour),
			Status:      model.StatusCompleted,
			Patient:     patients[2],
		},
		{
			ID:          4,
			ScheduledAt: start.AddDate(0, 0, 1).Add(16*time.Hour + 30*time.Minute),
			Status:      model.StatusScheduled,
			Patient:     patients[0],
		},
		// Wednesday
		{
			ID:          5,
			ScheduledAt: start.AddDate(0, 0, 2).Add(9 * time.Hour),
			Status:      model.StatusScheduled,
			Patient:     patients[1],
		},
		// Friday
		{
			ID:          6,
			ScheduledAt: start.AddDate(0, 0, 4).Add(11 * time.Hour),
			Status:      model.StatusScheduled,
			Patient:     patients[2],
		},
		{
			ID:          7,
			ScheduledAt: start.AddDate(0, 0, 4).Add(13 * time.Hour),
			Status:      model.StatusCompleted,
			Patient:     patients[0],
		},
	}

	filename := "week.png"
	f, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Failed to create file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := render.WeekImage(f, start, consultations); err != nil {
		fmt.Printf("Failed to render agenda image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Agenda image saved to %s\n", filename)
	fmt.Printf("📅 Week: %s - %s\n", start.Format("02.01.2006"), start.AddDate(0, 0, 6).Format("02.01.2006"))
	fmt.Printf("📊 Consultations: %d\n", len(consultations))
}
