package main

import (
	appointmenthandler "bkhost/internal/appointments/handler"
	appointmentrepo "bkhost/internal/appointments/repository"
	appointmentservice "bkhost/internal/appointments/service"
	availabilityhandler "bkhost/internal/availability/handler"
	slotrepo "bkhost/internal/availability/repository"
	availabilityservice "bkhost/internal/availability/service"
	availabilityvalidator "bkhost/internal/availability/validator"
	exporthandler "bkhost/internal/export/handler"
	exportservice "bkhost/internal/export/service"
	mailrepo "bkhost/internal/outbox/repository"
	outboxservice "bkhost/internal/outbox/service"
	"bkhost/internal/scheduling"
	shifthandler "bkhost/internal/shifts/handler"
	shiftrepo "bkhost/internal/shifts/repository"
	shiftservice "bkhost/internal/shifts/service"
	shiftvalidator "bkhost/internal/shifts/validator"
	userhandler "bkhost/internal/users/handler"
	userrepo "bkhost/internal/users/repository"
	userservice "bkhost/internal/users/service"
	uservalidator "bkhost/internal/users/validator"
	walkinhandler "bkhost/internal/walkins/handler"
	walkinrepo "bkhost/internal/walkins/repository"
	walkinservice "bkhost/internal/walkins/service"
	walkinvalidator "bkhost/internal/walkins/validator"
	"bkhost/pkg/app"
	"bkhost/pkg/auth"
	"bkhost/pkg/config"
	"bkhost/pkg/events"
	"bkhost/pkg/middleware"
)

const ServiceName = "bkhost-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	cfg.SetProducer()

	calendar, err := scheduling.NewCalendar(cfg.Calendar)
	if err != nil {
		cfg.Log.Fatal("Invalid calendar settings", "error", err)
	}

	publisher := newPublisher(cfg)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, ServiceName)
	var denylist auth.Denylist = auth.NewMemoryDenylist()
	if cfg.Client.Redis != nil {
		denylist = auth.NewRedisDenylist(cfg.Client.Redis)
	}

	users := userservice.NewUserService(
		userrepo.NewMongoUserRepository(cfg),
		uservalidator.NewUserValidator(cfg.Log),
		tokens,
		denylist,
		cfg.BcryptCost,
		cfg.Log,
	)
	authenticator := middleware.NewAuthenticator(tokens, denylist, users, cfg.Log)

	mailer, err := outboxservice.NewMailer(mailrepo.NewMongoMailRepository(cfg), cfg.ShopName, calendar.Location, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to load email templates", "error", err)
	}

	slots := slotrepo.NewMongoSlotRepository(cfg)
	appointments := appointmentrepo.NewMongoAppointmentRepository(cfg)
	walkIns := walkinrepo.NewMongoWalkInRepository(cfg)

	availability := availabilityservice.NewAvailabilityService(slots, appointments, calendar, publisher, cfg.Log)
	appointmentService := appointmentservice.NewAppointmentService(appointments, slots, walkIns, mailer, calendar, publisher, cfg.Log)
	walkInService := walkinservice.NewWalkInService(walkIns, walkinvalidator.NewWalkInValidator(cfg.Log), publisher, cfg.Log)
	shifts := shiftservice.NewShiftService(shiftrepo.NewMongoShiftRepository(cfg), users, calendar, publisher, cfg.Log)
	export := exportservice.NewExportService(appointments, walkIns, cfg.Log)
	cfg.Log.Info("Services initialized")

	application := app.NewApplication(cfg)
	application.SetApp(
		userhandler.NewUserHandler(users, authenticator, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availability, availabilityvalidator.NewAvailabilityValidator(cfg.Log), calendar, authenticator, cfg.Log),
		appointmenthandler.NewAppointmentHandler(appointmentService, calendar, authenticator, cfg.Log),
		walkinhandler.NewWalkInHandler(walkInService, calendar, authenticator, cfg.Log),
		shifthandler.NewShiftHandler(shifts, shiftvalidator.NewShiftValidator(cfg.Log), calendar, authenticator, cfg.Log),
		exporthandler.NewExportHandler(export, authenticator, cfg.Log),
	)
	application.Run()
}

func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.Client.Producer == nil {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.Client.Producer, ServiceName, middleware.RequestIDFrom, cfg.Log)
}
