package rooms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	roomRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/room"
)

// RoomResponse ответ с данными комнаты
type RoomResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Category string `json:"category"`
	OwnerID  int64  `json:"ownerId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomListResponse ответ со списком комнат
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

// Service каталог комнат
type Service struct {
	roomRepo RoomRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(roomRepo RoomRepository, logger Logger) *Service {
	return &Service{
		roomRepo: roomRepo,
		logger:   logger,
	}
}

// GetByID получает комнату по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*RoomResponse, error) {
	s.logger.Info("GetByID: fetching room id=%d", id)

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.logger.Warn("GetByID: room id=%d not found", id)
			return nil, ErrRoomNotFound
		}
		s.logger.Error("GetByID: repository error for room id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return fromDomainRoom(room), nil
}

// List возвращает комнаты, опционально отфильтрованные по категориям
func (s *Service) List(ctx context.Context, categories []string) (*RoomListResponse, error) {
	s.logger.Info("List: fetching rooms, categories=%v", categories)

	domainCategories := make([]domain.RoomCategory, 0, len(categories))
	for _, raw := range categories {
		category := domain.RoomCategory(raw)
		if !category.IsValid() {
			s.logger.Warn("List: invalid category=%s", raw)
			return nil, fmt.Errorf("%w: invalid category: %s", ErrInvalidInput, raw)
		}
		domainCategories = append(domainCategories, category)
	}

	rooms, err := s.roomRepo.List(ctx, domainCategories)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &RoomListResponse{Rooms: make([]RoomResponse, 0, len(rooms))}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, *fromDomainRoom(room))
	}

	s.logger.Info("List: successfully fetched %d rooms", len(resp.Rooms))
	return resp, nil
}

func fromDomainRoom(r *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Category:  string(r.Category),
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
