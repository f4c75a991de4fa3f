package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	equipmentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/equipment"
)

type fakeEquipmentRepo struct {
	items map[int64]*domain.EquipmentItem
}

func (f *fakeEquipmentRepo) GetByID(ctx context.Context, id int64) (*domain.EquipmentItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, equipmentRepo.ErrEquipmentNotFound
	}
	return item, nil
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

func equipmentBooking(id int64, start, end time.Time, equipmentID int64, qty int) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusApproved,
		EquipmentLines: []domain.EquipmentLine{
			{BookingID: id, EquipmentID: equipmentID, Quantity: qty},
		},
	}
}

func projectors(stock int) *fakeEquipmentRepo {
	return &fakeEquipmentRepo{
		items: map[int64]*domain.EquipmentItem{
			10: {ID: 10, Name: "projector", StockQuantity: stock},
		},
	}
}

func TestEquipmentCalculator_AvailableQuantity_NoHolds(t *testing.T) {
	calc := NewEquipmentCalculator(&fakeBookingRepo{}, projectors(5), nopLogger{})

	available, err := calc.AvailableQuantity(context.Background(), 10, domain.NewInterval(ts(9, 0), ts(10, 0)))
	require.NoError(t, err)
	assert.Equal(t, 5, available)
}

func TestEquipmentCalculator_AvailableQuantity_SubtractsOverlappingHolds(t *testing.T) {
	repo := &fakeBookingRepo{
		equipmentBookings: []*domain.Booking{
			equipmentBooking(1, ts(9, 0), ts(11, 0), 10, 2),
			equipmentBooking(2, ts(9, 30), ts(10, 30), 10, 1),
			// Соприкасается границей с запрошенным окном - не считается
			equipmentBooking(3, ts(8, 0), ts(9, 0), 10, 4),
		},
	}
	calc := NewEquipmentCalculator(repo, projectors(5), nopLogger{})

	available, err := calc.AvailableQuantity(context.Background(), 10, domain.NewInterval(ts(9, 0), ts(10, 0)))
	require.NoError(t, err)
	assert.Equal(t, 2, available)
}

func TestEquipmentCalculator_AvailableQuantity_FloorsAtZero(t *testing.T) {
	repo := &fakeBookingRepo{
		equipmentBookings: []*domain.Booking{
			equipmentBooking(1, ts(9, 0), ts(11, 0), 10, 4),
			equipmentBooking(2, ts(9, 0), ts(11, 0), 10, 4),
		},
	}
	calc := NewEquipmentCalculator(repo, projectors(5), nopLogger{})

	available, err := calc.AvailableQuantity(context.Background(), 10, domain.NewInterval(ts(9, 0), ts(10, 0)))
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestEquipmentCalculator_AvailableQuantity_UnknownEquipment(t *testing.T) {
	calc := NewEquipmentCalculator(&fakeBookingRepo{}, projectors(5), nopLogger{})

	_, err := calc.AvailableQuantity(context.Background(), 999, domain.NewInterval(ts(9, 0), ts(10, 0)))
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestEquipmentCalculator_AvailableQuantity_Idempotent(t *testing.T) {
	// Чтение не мутирует запас: повторные вызовы дают тот же результат
	repo := &fakeBookingRepo{
		equipmentBookings: []*domain.Booking{
			equipmentBooking(1, ts(9, 0), ts(11, 0), 10, 2),
		},
	}
	calc := NewEquipmentCalculator(repo, projectors(5), nopLogger{})
	window := domain.NewInterval(ts(9, 0), ts(10, 0))

	for i := 0; i < 3; i++ {
		available, err := calc.AvailableQuantity(context.Background(), 10, window)
		require.NoError(t, err)
		assert.Equal(t, 3, available)
	}
}

func TestEquipmentCalculator_CanSatisfy(t *testing.T) {
	repo := &fakeBookingRepo{
		equipmentBookings: []*domain.Booking{
			equipmentBooking(1, ts(9, 0), ts(11, 0), 10, 3),
		},
	}
	calc := NewEquipmentCalculator(repo, projectors(5), nopLogger{})
	window := domain.NewInterval(ts(9, 0), ts(10, 0))

	ok, err := calc.CanSatisfy(context.Background(), 10, 2, window)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = calc.CanSatisfy(context.Background(), 10, 3, window)
	require.NoError(t, err)
	assert.False(t, ok)

	// Неположительное количество никогда не удовлетворимо
	ok, err = calc.CanSatisfy(context.Background(), 10, 0, window)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEquipmentCalculator_CheckLines_ReportsAllConflicts(t *testing.T) {
	repo := &fakeBookingRepo{
		equipmentBookings: []*domain.Booking{
			equipmentBooking(1, ts(9, 0), ts(11, 0), 10, 4),
			equipmentBooking(2, ts(9, 0), ts(11, 0), 20, 1),
		},
	}
	equipment := &fakeEquipmentRepo{
		items: map[int64]*domain.EquipmentItem{
			10: {ID: 10, StockQuantity: 5},
			20: {ID: 20, StockQuantity: 2},
			30: {ID: 30, StockQuantity: 8},
		},
	}
	calc := NewEquipmentCalculator(repo, equipment, nopLogger{})

	lines := []domain.EquipmentLine{
		{EquipmentID: 10, Quantity: 3}, // доступно 1 - конфликт
		{EquipmentID: 20, Quantity: 2}, // доступно 1 - конфликт
		{EquipmentID: 30, Quantity: 5}, // доступно 8 - ок
	}

	conflicts, err := calc.CheckLines(context.Background(), lines, domain.NewInterval(ts(9, 0), ts(10, 0)))
	require.NoError(t, err)
	require.Len(t, conflicts, 2)

	first := conflicts[10]
	assert.Equal(t, 3, first.Requested)
	assert.Equal(t, 1, first.Available)
	assert.Equal(t, 5, first.TotalStock)
	assert.Equal(t, 4, first.Reserved)
	require.Len(t, first.Holds, 1)
	assert.Equal(t, int64(1), first.Holds[0].BookingID)
	assert.Equal(t, 4, first.Holds[0].Quantity)

	second := conflicts[20]
	assert.Equal(t, 2, second.Requested)
	assert.Equal(t, 1, second.Available)
}

func TestEquipmentCalculator_CheckLines_AllSatisfiable(t *testing.T) {
	calc := NewEquipmentCalculator(&fakeBookingRepo{}, projectors(5), nopLogger{})

	conflicts, err := calc.CheckLines(context.Background(),
		[]domain.EquipmentLine{{EquipmentID: 10, Quantity: 5}},
		domain.NewInterval(ts(9, 0), ts(10, 0)))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestEquipmentCalculator_CheckLines_InvalidWindow(t *testing.T) {
	calc := NewEquipmentCalculator(&fakeBookingRepo{}, projectors(5), nopLogger{})

	_, err := calc.CheckLines(context.Background(),
		[]domain.EquipmentLine{{EquipmentID: 10, Quantity: 1}},
		domain.NewInterval(ts(10, 0), ts(9, 0)))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
