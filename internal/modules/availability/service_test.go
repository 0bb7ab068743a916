package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
	"studiobooking/internal/schedule"
)

// MockAvailabilityRepository runs the plan builder exactly like the real
// MergeDay does: against the rows stubbed as the first Return value, failing
// without side effects when the builder errors. Applied plans are recorded
// in plans for inspection.
type MockAvailabilityRepository struct {
	mock.Mock
	plans []*schedule.MergePlan
}

func (m *MockAvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Availability, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) ListByUserAndDay(ctx context.Context, userID int64, day domain.Day) ([]domain.Availability, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) MergeDay(ctx context.Context, userID int64, day domain.Day, build func([]domain.Availability) (*schedule.MergePlan, error)) ([]domain.Availability, error) {
	args := m.Called(ctx, userID, day)
	existing, _ := args.Get(0).([]domain.Availability)
	plan, err := build(existing)
	if err != nil {
		return nil, err
	}
	m.plans = append(m.plans, plan)
	created, _ := args.Get(1).([]domain.Availability)
	return created, args.Error(2)
}

func (m *MockAvailabilityRepository) Update(ctx context.Context, a *domain.Availability) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(repo repository.AvailabilityRepository) *Service {
	cfg := schedule.SearchConfig{OffsetHours: 2}
	return NewService(repo, cfg, nil) // nil cache: redis is optional
}

func TestCreate_MergesTouchingWindows(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo)

	existing := []domain.Availability{
		{ID: 1, UserID: 2, Day: domain.DayMon, Start: "09:00", End: "12:00"},
	}
	repo.On("MergeDay", mock.Anything, int64(2), domain.DayMon).
		Return(existing, []domain.Availability{{ID: 3, UserID: 2, Day: domain.DayMon, Start: "09:00", End: "14:00"}}, nil)

	rows, err := svc.Create(context.Background(), 2, domain.RoleEngineer, CreateRequest{
		Day:   domain.DayMon,
		Start: "11:00",
		End:   "14:00",
	})

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "09:00", rows[0].Start)
	assert.Equal(t, "14:00", rows[0].End)

	require.Len(t, repo.plans, 1)
	plan := repo.plans[0]
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "09:00", plan.Creates[0].Start)
	assert.Equal(t, "14:00", plan.Creates[0].End)
	assert.Equal(t, []int64{1}, plan.DeleteIDs)
	repo.AssertExpectations(t)
}

func TestCreate_RejectsMalformedWindow(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo)

	repo.On("MergeDay", mock.Anything, int64(2), domain.DayMon).Return(nil, nil, nil)

	_, err := svc.Create(context.Background(), 2, domain.RoleEngineer, CreateRequest{
		Day:   domain.DayMon,
		Start: "25:00",
		End:   "26:00",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, repo.plans)
}

func TestCreate_ForbidsEditingOthers(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo)

	_, err := svc.Create(context.Background(), 2, domain.RoleEngineer, CreateRequest{
		UserID: 5,
		Day:    domain.DayMon,
		Start:  "09:00",
		End:    "12:00",
	})
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "MergeDay", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_ReplacesRowWithinOnePlan(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo)

	repo.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.Availability{ID: 9, UserID: 2, Day: domain.DayMon, Start: "10:00", End: "14:00"}, nil)
	existing := []domain.Availability{
		{ID: 9, UserID: 2, Day: domain.DayMon, Start: "10:00", End: "14:00"},
		{ID: 12, UserID: 2, Day: domain.DayMon, Start: "15:00", End: "16:00"},
	}
	repo.On("MergeDay", mock.Anything, int64(2), domain.DayMon).
		Return(existing, []domain.Availability{{ID: 20, UserID: 2, Day: domain.DayMon, Start: "14:00", End: "16:00"}}, nil)

	newStart, newEnd := "14:00", "15:00"
	rows, err := svc.Update(context.Background(), 9, 2, domain.RoleEngineer, UpdateRequest{
		Start: &newStart,
		End:   &newEnd,
	})

	assert.NoError(t, err)
	assert.Len(t, rows, 1)

	// the replacement merges with row 12 and the old row 9 is superseded
	require.Len(t, repo.plans, 1)
	plan := repo.plans[0]
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "14:00", plan.Creates[0].Start)
	assert.Equal(t, "16:00", plan.Creates[0].End)
	assert.ElementsMatch(t, []int64{9, 12}, plan.DeleteIDs)
}

func TestUpdate_InvalidReplacementKeepsRow(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo)

	repo.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.Availability{ID: 9, UserID: 2, Day: domain.DayMon, Start: "10:00", End: "14:00"}, nil)
	repo.On("MergeDay", mock.Anything, int64(2), domain.DayMon).Return(nil, nil, nil)

	bad := "banana"
	_, err := svc.Update(context.Background(), 9, 2, domain.RoleEngineer, UpdateRequest{End: &bad})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, repo.plans, "a failed plan must not rewrite the day")
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDay_AppliesUTCOffset(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo) // local = UTC+2

	rows := []domain.Availability{
		{ID: 1, UserID: 2, Day: domain.DayTue, Start: "10:00", End: "13:00"},
	}
	repo.On("ListByUser", mock.Anything, int64(2)).Return(rows, nil)

	// 2026-03-03 is a Tuesday
	out, err := svc.Day(context.Background(), 2, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, out.Ranges, 1)
	assert.Equal(t, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), out.Ranges[0].Start)
	assert.Equal(t, time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC), out.Ranges[0].End)
}

func TestDay_IncludesPreviousDayTail(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := NewService(repo, schedule.SearchConfig{OffsetHours: 0}, nil)

	// monday window running past midnight spills into tuesday
	rows := []domain.Availability{
		{ID: 1, UserID: 2, Day: domain.DayMon, Start: "23:00", End: "03:00"},
	}
	repo.On("ListByUser", mock.Anything, int64(2)).Return(rows, nil)

	out, err := svc.Day(context.Background(), 2, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, out.Ranges, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), out.Ranges[0].Start)
	assert.Equal(t, time.Date(2026, 3, 3, 3, 0, 0, 0, time.UTC), out.Ranges[0].End)
}

func TestDelete_OwnerOnly(t *testing.T) {
	repo := new(MockAvailabilityRepository)
	svc := newService(repo)

	repo.On("GetByID", mock.Anything, int64(9)).Return(&domain.Availability{ID: 9, UserID: 5}, nil)

	err := svc.Delete(context.Background(), 9, 2, domain.RoleEngineer)
	assert.ErrorIs(t, err, ErrForbidden)

	repo.On("Delete", mock.Anything, int64(9)).Return(nil)
	err = svc.Delete(context.Background(), 9, 7, domain.RoleSecretary)
	assert.NoError(t, err)
}
