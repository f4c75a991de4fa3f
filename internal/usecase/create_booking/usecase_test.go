package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	roomRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/room"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fakeStore имитирует хранилище бронирований: проверка доступности и
// вставка видят одно и то же состояние под общим мьютексом
type fakeStore struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

type fakeBookingRepo struct {
	store *fakeStore
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	created := *b
	created.ID = f.store.nextID
	f.store.nextID++
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.store.bookings = append(f.store.bookings, &created)
	return &created, nil
}

type fakeRoomRepo struct {
	rooms map[int64]*domain.Room
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	return room, nil
}

type fakeEquipmentRepo struct {
	items map[int64]*domain.EquipmentItem
}

func (f *fakeEquipmentRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.EquipmentItem, error) {
	result := make(map[int64]*domain.EquipmentItem)
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

type fakeRoomChecker struct {
	store *fakeStore
}

func (f *fakeRoomChecker) IsRoomFree(ctx context.Context, roomID int64, window domain.Interval, statuses []domain.BookingStatus, excludeBookingID *int64) (bool, error) {
	for _, b := range f.store.bookings {
		if b.RoomID == roomID && window.Overlaps(b.Window()) {
			return false, nil
		}
	}
	return true, nil
}

type fakeEquipmentChecker struct {
	conflicts map[int64]availability.EquipmentConflict
}

func (f *fakeEquipmentChecker) CheckLines(ctx context.Context, lines []domain.EquipmentLine, window domain.Interval) (map[int64]availability.EquipmentConflict, error) {
	return f.conflicts, nil
}

// fakeTxManager сериализует транзакции общим мьютексом хранилища -
// конкурентные Execute видят согласованное состояние, как при
// serializable изоляции
type fakeTxManager struct {
	store *fakeStore
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	queues []string
	events []events.ReservationEvent
}

func (f *fakePublisher) Publish(ctx context.Context, queue string, event events.ReservationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues = append(f.queues, queue)
	f.events = append(f.events, event)
	return nil
}

func ts(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

type fixture struct {
	uc        *UseCase
	store     *fakeStore
	publisher *fakePublisher
}

func newFixture(equipmentConflicts map[int64]availability.EquipmentConflict) *fixture {
	store := newFakeStore()
	publisher := &fakePublisher{}

	uc := NewUseCase(
		&fakeBookingRepo{store: store},
		&fakeRoomRepo{rooms: map[int64]*domain.Room{
			1: {ID: 1, Name: "Lab 101", Capacity: 20, Category: domain.RoomCategoryLaboratory},
		}},
		&fakeEquipmentRepo{items: map[int64]*domain.EquipmentItem{
			10: {ID: 10, Name: "projector", StockQuantity: 5},
		}},
		&fakeRoomChecker{store: store},
		&fakeEquipmentChecker{conflicts: equipmentConflicts},
		&fakeTxManager{store: store},
		publisher,
		nopLogger{},
	)

	return &fixture{uc: uc, store: store, publisher: publisher}
}

func validRequest() *Request {
	return &Request{
		RequesterID: 100,
		RoomID:      1,
		StartTime:   ts(9, 0),
		EndTime:     ts(10, 0),
		Purpose:     "lecture",
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture(nil)

	result, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Decision.Accepted())
	require.NotNil(t, result.Booking)
	assert.Equal(t, string(domain.StatusPending), result.Booking.Status)
	assert.Equal(t, int64(100), result.Booking.RequesterID)

	require.Len(t, f.store.bookings, 1)
	assert.Equal(t, domain.StatusPending, f.store.bookings[0].Status)

	// Событие submitted опубликовано после коммита
	require.Len(t, f.publisher.queues, 1)
	assert.Equal(t, events.QueueReservationSubmitted, f.publisher.queues[0])
}

func TestExecute_InvalidWindowDecision(t *testing.T) {
	f := newFixture(nil)

	req := validRequest()
	req.StartTime = ts(10, 0)
	req.EndTime = ts(9, 0)

	result, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Decision.InvalidWindow)
	assert.False(t, result.Decision.Accepted())
	assert.Nil(t, result.Booking)
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.publisher.queues, "no event for rejected request")
}

func TestExecute_RoomConflictDoesNotShortCircuitEquipment(t *testing.T) {
	// И конфликт комнаты, и конфликты оборудования в одном решении
	equipmentConflicts := map[int64]availability.EquipmentConflict{
		10: {EquipmentID: 10, Requested: 9, Available: 2, TotalStock: 5, Reserved: 3},
	}
	f := newFixture(equipmentConflicts)

	// Занимаем комнату существующим бронированием
	f.store.bookings = append(f.store.bookings, &domain.Booking{
		ID: 99, RoomID: 1, StartTime: ts(9, 0), EndTime: ts(11, 0), Status: domain.StatusApproved,
	})

	req := validRequest()
	req.Equipment = []EquipmentLineRequest{{EquipmentID: 10, Quantity: 9}}

	result, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Decision.RoomConflict)
	require.Len(t, result.Decision.EquipmentConflicts, 1)
	assert.Equal(t, 9, result.Decision.EquipmentConflicts[10].Requested)
	assert.Nil(t, result.Booking)
}

func TestExecute_TouchingBoundaryAccepted(t *testing.T) {
	f := newFixture(nil)

	f.store.bookings = append(f.store.bookings, &domain.Booking{
		ID: 99, RoomID: 1, StartTime: ts(8, 0), EndTime: ts(9, 0), Status: domain.StatusApproved,
	})

	result, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, result.Decision.Accepted())
	require.NotNil(t, result.Booking)
}

func TestExecute_RoomNotFound(t *testing.T) {
	f := newFixture(nil)

	req := validRequest()
	req.RoomID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestExecute_EquipmentNotFound(t *testing.T) {
	f := newFixture(nil)

	req := validRequest()
	req.Equipment = []EquipmentLineRequest{{EquipmentID: 404, Quantity: 1}}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(nil)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"non-positive requester", func(r *Request) { r.RequesterID = 0 }},
		{"non-positive room", func(r *Request) { r.RoomID = -1 }},
		{"zero start time", func(r *Request) { r.StartTime = time.Time{} }},
		{"zero equipment quantity", func(r *Request) {
			r.Equipment = []EquipmentLineRequest{{EquipmentID: 10, Quantity: 0}}
		}},
		{"duplicate equipment line", func(r *Request) {
			r.Equipment = []EquipmentLineRequest{
				{EquipmentID: 10, Quantity: 1},
				{EquipmentID: 10, Quantity: 2},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidate_DryRunHasNoSideEffects(t *testing.T) {
	f := newFixture(nil)

	decision, err := f.uc.Validate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, decision.Accepted())

	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.publisher.queues)
}

func TestExecute_ConcurrentRequestsOneWinner(t *testing.T) {
	// N конкурентных запросов на одно окно одной комнаты: проходит
	// ровно один, остальные получают конфликт комнаты
	f := newFixture(nil)

	const workers = 16
	results := make([]*Result, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.RequesterID = int64(100 + i)
			results[i], errs[i] = f.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if results[i].Decision.Accepted() {
			accepted++
		} else {
			assert.True(t, results[i].Decision.RoomConflict)
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Len(t, f.store.bookings, 1)
}
