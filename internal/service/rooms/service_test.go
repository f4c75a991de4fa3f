package rooms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	roomRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/room"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeRoomRepo struct {
	room           *domain.Room
	rooms          []*domain.Room
	lastCategories []domain.RoomCategory
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	if f.room == nil || f.room.ID != id {
		return nil, roomRepo.ErrRoomNotFound
	}
	return f.room, nil
}

func (f *fakeRoomRepo) List(ctx context.Context, categories []domain.RoomCategory) ([]*domain.Room, error) {
	f.lastCategories = categories
	return f.rooms, nil
}

func TestGetByID(t *testing.T) {
	repo := &fakeRoomRepo{room: &domain.Room{
		ID:       1,
		Name:     "Lab A",
		Capacity: 20,
		Category: domain.RoomCategoryLaboratory,
		OwnerID:  5,
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Lab A", resp.Name)
	assert.Equal(t, 20, resp.Capacity)
	assert.Equal(t, string(domain.RoomCategoryLaboratory), resp.Category)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeRoomRepo{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestList_FiltersByCategories(t *testing.T) {
	repo := &fakeRoomRepo{rooms: []*domain.Room{
		{ID: 1, Name: "Lab A", Category: domain.RoomCategoryLaboratory},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.List(context.Background(), []string{"laboratory", "amphitheater"})
	require.NoError(t, err)

	assert.Len(t, resp.Rooms, 1)
	assert.Equal(t, []domain.RoomCategory{domain.RoomCategoryLaboratory, domain.RoomCategoryAmphitheater}, repo.lastCategories)
}

func TestList_InvalidCategory(t *testing.T) {
	svc := NewService(&fakeRoomRepo{}, nopLogger{})

	_, err := svc.List(context.Background(), []string{"garage"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_NoFilterReturnsAll(t *testing.T) {
	repo := &fakeRoomRepo{rooms: []*domain.Room{
		{ID: 1, Name: "Lab A", Category: domain.RoomCategoryLaboratory},
		{ID: 2, Name: "Room 101", Category: domain.RoomCategoryClassroom},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.List(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, resp.Rooms, 2)
	assert.Empty(t, repo.lastCategories)
}
