package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
	"studiobooking/internal/schedule"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) ReplaceServices(ctx context.Context, b *domain.Booking, services []domain.ServiceOffering) error {
	args := m.Called(ctx, b, services)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) FonicoBusy(ctx context.Context, fonicoID int64, from, to time.Time, excludeID int64) ([]schedule.Range, error) {
	args := m.Called(ctx, fonicoID, from, to, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.Range), args.Error(1)
}

func (m *MockBookingRepository) StudioBusy(ctx context.Context, studioIDs []int64, from, to time.Time, excludeID int64) (map[int64][]schedule.Range, error) {
	args := m.Called(ctx, studioIDs, from, to, excludeID)
	if args.Get(0) == nil {
		return map[int64][]schedule.Range{}, args.Error(1)
	}
	return args.Get(0).(map[int64][]schedule.Range), args.Error(1)
}

func (m *MockBookingRepository) Stats(ctx context.Context, from, to time.Time) (*repository.BookingStats, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BookingStats), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStudioRepository struct {
	mock.Mock
}

func (m *MockStudioRepository) Create(ctx context.Context, s *domain.Studio) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudioRepository) GetByID(ctx context.Context, id int64) (*domain.Studio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Studio), args.Error(1)
}

func (m *MockStudioRepository) List(ctx context.Context) ([]domain.Studio, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Studio), args.Error(1)
}

func (m *MockStudioRepository) Update(ctx context.Context, s *domain.Studio) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudioRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOfferingRepository struct {
	mock.Mock
}

func (m *MockOfferingRepository) Create(ctx context.Context, o *domain.ServiceOffering) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferingRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceOffering), args.Error(1)
}

func (m *MockOfferingRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.ServiceOffering, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.ServiceOffering), args.Error(1)
}

func (m *MockOfferingRepository) List(ctx context.Context) ([]domain.ServiceOffering, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ServiceOffering), args.Error(1)
}

func (m *MockOfferingRepository) Update(ctx context.Context, o *domain.ServiceOffering) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAvailabilityRepository struct {
	mock.Mock
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
	return args.Get(0).([]domain.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) MergeDay(ctx context.Context, userID int64, day domain.Day, build func([]domain.Availability) (*schedule.MergePlan, error)) ([]domain.Availability, error) {
	args := m.Called(ctx, userID, day, build)
	return args.Get(0).([]domain.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) Update(ctx context.Context, a *domain.Availability) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHolidayRepository struct {
	mock.Mock
}

func (m *MockHolidayRepository) Create(ctx context.Context, h *domain.Holiday) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHolidayRepository) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) List(ctx context.Context) ([]domain.Holiday, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Holiday, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) Update(ctx context.Context, h *domain.Holiday) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHolidayRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHolidayRepository) ConfirmedRanges(ctx context.Context, userID int64, from, to time.Time) ([]schedule.Range, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.Range), args.Error(1)
}

type MockChangeLogRepository struct {
	mock.Mock
}

func (m *MockChangeLogRepository) Create(ctx context.Context, l *domain.ChangeLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockChangeLogRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.ChangeLog, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.ChangeLog), args.Error(1)
}

type mocks struct {
	bookings *MockBookingRepository
	users    *MockUserRepository
	studios  *MockStudioRepository
	services *MockOfferingRepository
	windows  *MockAvailabilityRepository
	holidays *MockHolidayRepository
	logs     *MockChangeLogRepository
}

func newService() (*Service, *mocks) {
	m := &mocks{
		bookings: new(MockBookingRepository),
		users:    new(MockUserRepository),
		studios:  new(MockStudioRepository),
		services: new(MockOfferingRepository),
		windows:  new(MockAvailabilityRepository),
		holidays: new(MockHolidayRepository),
		logs:     new(MockChangeLogRepository),
	}
	cfg := schedule.SearchConfig{
		OffsetHours:   0,
		OperatingOpen: 0,
		// close at 23:30 so the whole test day is inside operating hours
		OperatingClose: 23*60 + 30,
		StepMinutes:    30,
		HorizonDays:    14,
		MaxResults:     2,
	}
	svc := NewService(m.bookings, m.users, m.studios, m.services, m.windows, m.holidays, m.logs, cfg)
	return svc, m
}

// a Monday far in the future so "start must not be in the past" holds
var testMonday = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func engineer() *domain.User {
	return &domain.User{ID: 2, Username: "fonico", Role: domain.RoleEngineer}
}

func mondayWindow() []domain.Availability {
	return []domain.Availability{
		{ID: 1, UserID: 2, Day: domain.DayMon, Start: "10:00", End: "18:00"},
	}
}

func TestCreateBooking_Success(t *testing.T) {
	svc, m := newService()

	m.users.On("GetByID", mock.Anything, int64(2)).Return(engineer(), nil)
	m.studios.On("GetByID", mock.Anything, int64(5)).Return(&domain.Studio{ID: 5, Name: "A"}, nil)
	m.windows.On("ListByUser", mock.Anything, int64(2)).Return(mondayWindow(), nil)
	m.bookings.On("FonicoBusy", mock.Anything, int64(2), mock.Anything, mock.Anything, int64(0)).
		Return([]schedule.Range{}, nil)
	m.holidays.On("ConfirmedRanges", mock.Anything, int64(2), mock.Anything, mock.Anything).
		Return([]schedule.Range{}, nil)
	m.bookings.On("StudioBusy", mock.Anything, []int64{5}, mock.Anything, mock.Anything, int64(0)).
		Return(map[int64][]schedule.Range{}, nil)
	m.services.On("GetByIDs", mock.Anything, []int64(nil)).Return([]domain.ServiceOffering{}, nil)
	m.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	b, alts, err := svc.Create(context.Background(), 1, domain.RoleUser, CreateRequest{
		FonicoID: 2,
		StudioID: 5,
		Start:    testMonday.Add(12 * time.Hour),
		End:      testMonday.Add(13 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Nil(t, alts)
	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, int64(1), b.UserID)
	assert.Equal(t, domain.BookingPending, b.State)
}

func TestCreateBooking_StaffBookingIsConfirmed(t *testing.T) {
	svc, m := newService()

	m.users.On("GetByID", mock.Anything, int64(2)).Return(engineer(), nil)
	m.studios.On("GetByID", mock.Anything, int64(5)).Return(&domain.Studio{ID: 5}, nil)
	m.windows.On("ListByUser", mock.Anything, int64(2)).Return(mondayWindow(), nil)
	m.bookings.On("FonicoBusy", mock.Anything, int64(2), mock.Anything, mock.Anything, int64(0)).
		Return([]schedule.Range{}, nil)
	m.holidays.On("ConfirmedRanges", mock.Anything, int64(2), mock.Anything, mock.Anything).
		Return([]schedule.Range{}, nil)
	m.bookings.On("StudioBusy", mock.Anything, []int64{5}, mock.Anything, mock.Anything, int64(0)).
		Return(map[int64][]schedule.Range{}, nil)
	m.services.On("GetByIDs", mock.Anything, []int64(nil)).Return([]domain.ServiceOffering{}, nil)
	m.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	b, _, err := svc.Create(context.Background(), 7, domain.RoleSecretary, CreateRequest{
		UserID:   3,
		FonicoID: 2,
		StudioID: 5,
		Start:    testMonday.Add(14 * time.Hour),
		End:      testMonday.Add(15 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.State)
	assert.Equal(t, int64(3), b.UserID)
	assert.Equal(t, int64(7), b.BookedByID)
}

func TestCreateBooking_ConflictReturnsAlternatives(t *testing.T) {
	svc, m := newService()

	busy := []schedule.Range{{
		Start: testMonday.Add(12 * time.Hour),
		End:   testMonday.Add(13 * time.Hour),
	}}

	m.users.On("GetByID", mock.Anything, int64(2)).Return(engineer(), nil)
	m.studios.On("GetByID", mock.Anything, int64(5)).Return(&domain.Studio{ID: 5}, nil)
	m.studios.On("List", mock.Anything).Return([]domain.Studio{{ID: 5}}, nil)
	m.windows.On("ListByUser", mock.Anything, int64(2)).Return(mondayWindow(), nil)
	m.bookings.On("FonicoBusy", mock.Anything, int64(2), mock.Anything, mock.Anything, int64(0)).
		Return(busy, nil)
	m.holidays.On("ConfirmedRanges", mock.Anything, int64(2), mock.Anything, mock.Anything).
		Return([]schedule.Range{}, nil)
	m.bookings.On("StudioBusy", mock.Anything, []int64{5}, mock.Anything, mock.Anything, int64(0)).
		Return(map[int64][]schedule.Range{}, nil)

	b, alts, err := svc.Create(context.Background(), 1, domain.RoleUser, CreateRequest{
		FonicoID: 2,
		StudioID: 5,
		Start:    testMonday.Add(12 * time.Hour),
		End:      testMonday.Add(13 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Nil(t, b)
	assert.Len(t, alts, 2)
	// first alternative starts right after the clash
	assert.Equal(t, testMonday.Add(13*time.Hour), alts[0].Start)
	m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_RejectsNonEngineer(t *testing.T) {
	svc, m := newService()

	m.users.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.User{ID: 9, Role: domain.RoleUser}, nil)

	_, _, err := svc.Create(context.Background(), 1, domain.RoleUser, CreateRequest{
		FonicoID: 9,
		StudioID: 5,
		Start:    testMonday.Add(12 * time.Hour),
		End:      testMonday.Add(13 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrEngineer)
}

func TestCreateBooking_RejectsBadRange(t *testing.T) {
	svc, _ := newService()

	_, _, err := svc.Create(context.Background(), 1, domain.RoleUser, CreateRequest{
		FonicoID: 2,
		StudioID: 5,
		Start:    testMonday.Add(13 * time.Hour),
		End:      testMonday.Add(12 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrValidation)

	// in the past
	_, _, err = svc.Create(context.Background(), 1, domain.RoleUser, CreateRequest{
		FonicoID: 2,
		StudioID: 5,
		Start:    time.Date(2020, 1, 6, 12, 0, 0, 0, time.UTC),
		End:      time.Date(2020, 1, 6, 13, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBooking_ForbidsBookingForOthers(t *testing.T) {
	svc, _ := newService()

	_, _, err := svc.Create(context.Background(), 1, domain.RoleUser, CreateRequest{
		UserID:   3,
		FonicoID: 2,
		StudioID: 5,
		Start:    testMonday.Add(12 * time.Hour),
		End:      testMonday.Add(13 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateBooking_ForbiddenForStranger(t *testing.T) {
	svc, m := newService()

	m.bookings.On("GetByID", mock.Anything, int64(1)).Return(&domain.Booking{
		ID:     1,
		UserID: 42,
		State:  domain.BookingPending,
	}, nil)

	notes := "changed"
	_, _, err := svc.Update(context.Background(), 1, 1, domain.RoleUser, UpdateRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteBooking_WritesChangeLog(t *testing.T) {
	svc, m := newService()

	b := &domain.Booking{
		ID:     4,
		UserID: 1,
		State:  domain.BookingPending,
		Start:  testMonday.Add(12 * time.Hour),
		End:    testMonday.Add(13 * time.Hour),
	}
	m.bookings.On("GetByID", mock.Anything, int64(4)).Return(b, nil)
	m.logs.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.ChangeLog) bool {
		return l.Action == domain.LogDelete && l.BookingID == 4 && len(l.OldBooking) > 0
	})).Return(nil)
	m.bookings.On("Delete", mock.Anything, int64(4)).Return(nil)

	err := svc.Delete(context.Background(), 4, 1, domain.RoleUser)

	assert.NoError(t, err)
	m.logs.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
}

func TestDeleteBooking_ClientCannotDeleteConfirmed(t *testing.T) {
	svc, m := newService()

	m.bookings.On("GetByID", mock.Anything, int64(4)).Return(&domain.Booking{
		ID:     4,
		UserID: 1,
		State:  domain.BookingConfirmed,
	}, nil)

	err := svc.Delete(context.Background(), 4, 1, domain.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListBookings_ScopedByRole(t *testing.T) {
	svc, m := newService()

	m.bookings.On("List", mock.Anything, mock.MatchedBy(func(f repository.BookingFilter) bool {
		return f.UserID == 1
	})).Return([]domain.Booking{}, nil).Once()
	_, err := svc.List(context.Background(), 1, domain.RoleUser, ListQuery{})
	assert.NoError(t, err)

	m.bookings.On("List", mock.Anything, mock.MatchedBy(func(f repository.BookingFilter) bool {
		return f.FonicoID == 2 && f.UserID == 0
	})).Return([]domain.Booking{}, nil).Once()
	_, err = svc.List(context.Background(), 2, domain.RoleEngineer, ListQuery{})
	assert.NoError(t, err)

	m.bookings.AssertExpectations(t)
}
