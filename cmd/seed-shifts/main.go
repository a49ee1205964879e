package main

import (
	"context"
	"flag"
	"os"
	"time"

	"bkhost/internal/scheduling"
	shiftrepo "bkhost/internal/shifts/repository"
	shiftservice "bkhost/internal/shifts/service"
	"bkhost/pkg/config"
	"bkhost/pkg/events"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
)

const JobName = "seed-shifts"

// noProfiles satisfies the profile lookup; seeding never renders hosts.
type noProfiles struct{}

func (noProfiles) FindByEmails(context.Context, []string) ([]model.UserProfile, error) {
	return nil, nil
}

func main() {
	from := flag.String("from", "", "first date to seed, YYYY-MM-DD (default: today)")
	to := flag.String("to", "", "last date to seed, YYYY-MM-DD (default: end of next year)")
	flag.Parse()

	cfg := config.Load(JobName)
	calendar, err := scheduling.NewCalendar(cfg.Calendar)
	if err != nil {
		cfg.Log.Fatal("Invalid calendar settings", "error", err)
	}

	now := time.Now().In(calendar.Location)
	start := calendar.StartOfDay(now)
	end := time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, calendar.Location)
	if *from != "" {
		if start, err = calendar.ParseDate(*from); err != nil {
			cfg.Log.Fatal("Invalid -from date", "value", *from, "error", err)
		}
	}
	if *to != "" {
		if end, err = calendar.ParseDate(*to); err != nil {
			cfg.Log.Fatal("Invalid -to date", "value", *to, "error", err)
		}
	}

	cfg.SetMongo()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	service := shiftservice.NewShiftService(shiftrepo.NewMongoShiftRepository(cfg), noProfiles{}, calendar, events.NopPublisher{}, cfg.Log)
	err = seed(ctx, service, start, end, cfg.Log)
	cancel()
	cfg.GracefulShutdown()
	if err != nil {
		os.Exit(1)
	}
}

func seed(ctx context.Context, service shiftservice.ShiftService, start, end time.Time, log *logger.Logger) error {
	result, err := service.Seed(ctx, start, end)
	if err != nil {
		log.Error("Seeding failed", "error", err)
		return err
	}
	log.Info("Seeding completed",
		"collection", shiftrepo.CollectionName,
		"created", result.Created,
		"existing", result.Existing,
	)
	return nil
}
