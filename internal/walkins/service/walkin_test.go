package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	walkinerrors "bkhost/internal/walkins/errors"
	"bkhost/internal/walkins/validator"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/events"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWalkInRepository struct {
	walkIns   map[string]model.WalkIn
	createErr error
	nextID    int
}

func newFakeRepo() *fakeWalkInRepository {
	return &fakeWalkInRepository{walkIns: map[string]model.WalkIn{}}
}

func (f *fakeWalkInRepository) Create(_ context.Context, w *model.WalkIn) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	w.ID = fmt.Sprintf("w%d", f.nextID)
	f.walkIns[w.ID] = *w
	return nil
}

func (f *fakeWalkInRepository) FindByID(_ context.Context, id string) (*model.WalkIn, error) {
	w, ok := f.walkIns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", walkinerrors.ErrNotFound, id)
	}
	return &w, nil
}

func (f *fakeWalkInRepository) ListBetween(_ context.Context, from, to time.Time) ([]model.WalkIn, error) {
	out := []model.WalkIn{}
	for _, w := range f.walkIns {
		if !w.Timestamp.Before(from) && w.Timestamp.Before(to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWalkInRepository) FindAll(ctx context.Context) ([]model.WalkIn, error) {
	return f.ListBetween(ctx, time.Time{}, time.Now().AddDate(100, 0, 0))
}

func (f *fakeWalkInRepository) Update(_ context.Context, id string, w *model.WalkIn) error {
	if _, ok := f.walkIns[id]; !ok {
		return fmt.Errorf("%w: %s", walkinerrors.ErrNotFound, id)
	}
	f.walkIns[id] = *w
	return nil
}

func (f *fakeWalkInRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.walkIns[id]; !ok {
		return fmt.Errorf("%w: %s", walkinerrors.ErrNotFound, id)
	}
	delete(f.walkIns, id)
	return nil
}

var staff = model.Identity{UID: "u1", Email: "sam@shop.nl", Role: model.RoleHost, Status: model.StatusApproved}

var fixedNow = time.Date(2025, 6, 2, 14, 37, 12, 0, time.UTC)

func newTestService(repo *fakeWalkInRepository, rec *events.Recorder) *walkInService {
	log := logger.Discard()
	return &walkInService{
		repo:      repo,
		validator: validator.NewWalkInValidator(log),
		events:    rec,
		log:       log,
		now:       func() time.Time { return fixedNow },
	}
}

func amount(v float64) *float64 { return &v }
func str(v string) *string      { return &v }
func boolPtr(v bool) *bool      { return &v }

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		req        model.WalkInRequest
		wantAmount float64
		wantCode   string
	}{
		{
			name:       "preset amount",
			req:        model.WalkInRequest{BikeType: "City bike", ServiceType: "Flat tyre", AmountPaid: amount(5)},
			wantAmount: 5,
		},
		{
			name:       "other amount",
			req:        model.WalkInRequest{BikeType: "Cargo", ServiceType: "Brakes", AmountPaid: amount(12.5)},
			wantAmount: 12.5,
		},
		{
			name:       "community member pays nothing",
			req:        model.WalkInRequest{BikeType: "Racer", ServiceType: "Chain", AmountPaid: amount(8), CommunityMember: true},
			wantAmount: 0,
		},
		{
			name:       "community member without amount",
			req:        model.WalkInRequest{BikeType: "Racer", ServiceType: "Chain", CommunityMember: true},
			wantAmount: 0,
		},
		{
			name:     "missing amount",
			req:      model.WalkInRequest{BikeType: "City bike", ServiceType: "Flat tyre"},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "negative amount",
			req:      model.WalkInRequest{BikeType: "City bike", ServiceType: "Flat tyre", AmountPaid: amount(-1)},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "blank bike type",
			req:      model.WalkInRequest{BikeType: "   ", ServiceType: "Flat tyre", AmountPaid: amount(5)},
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			rec := &events.Recorder{}
			svc := newTestService(repo, rec)

			got, err := svc.Create(context.Background(), staff, &tt.req)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
				assert.Empty(t, repo.walkIns)
				assert.Empty(t, rec.Events)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantAmount, got.AmountPaid)
			assert.Equal(t, fixedNow, got.Timestamp)
			assert.Equal(t, []string{events.WalkInRecorded}, rec.Types())
			assert.Equal(t, staff.Email, rec.Events[0].Actor)
		})
	}
}

func TestCreate_RepositoryFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("connection reset")
	svc := newTestService(repo, &events.Recorder{})

	_, err := svc.Create(context.Background(), staff, &model.WalkInRequest{BikeType: "City", ServiceType: "Tyre", AmountPaid: amount(5)})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepo()
	repo.walkIns["w1"] = model.WalkIn{ID: "w1", BikeType: "City", ServiceType: "Tyre", AmountPaid: 5, Timestamp: fixedNow}
	svc := newTestService(repo, &events.Recorder{})

	got, err := svc.Update(context.Background(), staff, "w1", &model.WalkInUpdate{ServiceType: str("  Tyre and brakes "), AmountPaid: amount(8)})
	require.NoError(t, err)
	assert.Equal(t, "City", got.BikeType)
	assert.Equal(t, "Tyre and brakes", got.ServiceType)
	assert.Equal(t, 8.0, got.AmountPaid)
	assert.Equal(t, fixedNow, got.Timestamp)

	got, err = svc.Update(context.Background(), staff, "w1", &model.WalkInUpdate{CommunityMember: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.CommunityMember)
	assert.Zero(t, got.AmountPaid)
	assert.Zero(t, repo.walkIns["w1"].AmountPaid)
}

func TestUpdate_Errors(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &events.Recorder{})

	_, err := svc.Update(context.Background(), staff, "", &model.WalkInUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Update(context.Background(), staff, "missing", &model.WalkInUpdate{Notes: str("x")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.Update(context.Background(), staff, "missing", &model.WalkInUpdate{AmountPaid: amount(-3)})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.walkIns["w1"] = model.WalkIn{ID: "w1"}
	svc := newTestService(repo, &events.Recorder{})

	require.NoError(t, svc.Delete(context.Background(), staff, "w1"))
	assert.Empty(t, repo.walkIns)

	err := svc.Delete(context.Background(), staff, "w1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestListBetween(t *testing.T) {
	repo := newFakeRepo()
	repo.walkIns["in"] = model.WalkIn{ID: "in", Timestamp: fixedNow}
	repo.walkIns["out"] = model.WalkIn{ID: "out", Timestamp: fixedNow.AddDate(0, 0, 1)}
	svc := newTestService(repo, &events.Recorder{})

	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got, err := svc.ListBetween(context.Background(), from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}
