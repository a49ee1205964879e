package service

import (
	"context"
	"time"

	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
)

type AppointmentSource interface {
	FindAll(ctx context.Context) ([]model.Appointment, error)
}

type WalkInSource interface {
	FindAll(ctx context.Context) ([]model.WalkIn, error)
}

type Snapshot struct {
	ExportedAt   time.Time           `json:"exported_at"`
	Appointments []model.Appointment `json:"appointments"`
	WalkIns      []model.WalkIn      `json:"walk_ins"`
}

type ExportService interface {
	Export(ctx context.Context, identity model.Identity) (*Snapshot, error)
}

type exportService struct {
	appointments AppointmentSource
	walkIns      WalkInSource
	log          *logger.Logger
	now          func() time.Time
}

func NewExportService(appointments AppointmentSource, walkIns WalkInSource, log *logger.Logger) ExportService {
	return &exportService{
		appointments: appointments,
		walkIns:      walkIns,
		log:          log,
		now:          time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, identity model.Identity) (*Snapshot, error) {
	appointments, err := s.appointments.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to export appointments", "uid", identity.UID, "error", err)
		return nil, apperrors.Internal("Failed to export data", err)
	}

	walkIns, err := s.walkIns.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to export walk-ins", "uid", identity.UID, "error", err)
		return nil, apperrors.Internal("Failed to export data", err)
	}

	if appointments == nil {
		appointments = []model.Appointment{}
	}
	if walkIns == nil {
		walkIns = []model.WalkIn{}
	}

	s.log.Info("Data exported", "uid", identity.UID, "appointments", len(appointments), "walk_ins", len(walkIns))
	return &Snapshot{
		ExportedAt:   s.now().UTC(),
		Appointments: appointments,
		WalkIns:      walkIns,
	}, nil
}
