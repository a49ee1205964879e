package main

import (
	"context"
	"errors"
	"testing"
	"time"

	shiftservice "bkhost/internal/shifts/service"
	"bkhost/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type stubShiftService struct {
	shiftservice.ShiftService
	result *shiftservice.SeedResult
	err    error
}

func (s *stubShiftService) Seed(context.Context, time.Time, time.Time) (*shiftservice.SeedResult, error) {
	return s.result, s.err
}

func TestSeed(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	err := seed(context.Background(), &stubShiftService{result: &shiftservice.SeedResult{Created: 12, Existing: 1}}, start, end, logger.Discard())
	assert.NoError(t, err)

	boom := errors.New("mongo unreachable")
	err = seed(context.Background(), &stubShiftService{err: boom}, start, end, logger.Discard())
	assert.ErrorIs(t, err, boom, "a failed seed must surface so the job exits non-zero")
}
