package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// GetCalendarRequest запрос календарной проекции расписания
type GetCalendarRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	RoomIDs   []int64   `json:"roomIds,omitempty"`
}

// CalendarEntry запись общего календаря. Без цели и автора - календарь
// виден всем пользователям, детали бронирования остаются за ACL.
type CalendarEntry struct {
	BookingID    int64  `json:"bookingId"`
	RoomID       int64  `json:"roomId"`
	RoomName     string `json:"roomName"`
	RoomCategory string `json:"roomCategory"`
	StartTime    string `json:"startTime"` // ISO 8601
	EndTime      string `json:"endTime"`   // ISO 8601
	Status       string `json:"status"`
}

// CalendarResponse ответ с записями календаря
type CalendarResponse struct {
	Entries []CalendarEntry `json:"entries"`
}

// Service общий календарь расписания. Показывает активные бронирования
// комнат календарных категорий (лаборатории и амфитеатры).
type Service struct {
	bookingRepo BookingRepository
	roomRepo    RoomRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(bookingRepo BookingRepository, roomRepo RoomRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		logger:      logger,
	}
}

// GetCalendar возвращает записи календаря, пересекающие заданное окно
func (s *Service) GetCalendar(ctx context.Context, req *GetCalendarRequest) (*CalendarResponse, error) {
	s.logger.Info("GetCalendar: fetching calendar window=[%s, %s), rooms=%v",
		req.StartTime.Format("2006-01-02 15:04"), req.EndTime.Format("2006-01-02 15:04"), req.RoomIDs)

	window := domain.Interval{Start: req.StartTime, End: req.EndTime}
	if !window.IsValid() {
		s.logger.Warn("GetCalendar: invalid window")
		return nil, fmt.Errorf("%w: start time must be strictly before end time", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetCalendar(ctx, domain.CalendarFilter{
		Window:  window,
		RoomIDs: req.RoomIDs,
	})
	if err != nil {
		s.logger.Error("GetCalendar: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	rooms, err := s.loadRooms(ctx, bookings)
	if err != nil {
		return nil, err
	}

	entries := make([]CalendarEntry, 0, len(bookings))
	for _, b := range bookings {
		entry := CalendarEntry{
			BookingID: b.ID,
			RoomID:    b.RoomID,
			StartTime: b.StartTime.Format(time.RFC3339),
			EndTime:   b.EndTime.Format(time.RFC3339),
			Status:    string(b.Status),
		}
		if room, ok := rooms[b.RoomID]; ok {
			entry.RoomName = room.Name
			entry.RoomCategory = string(room.Category)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].BookingID < entries[j].BookingID
	})

	s.logger.Info("GetCalendar: successfully fetched %d entries", len(entries))
	return &CalendarResponse{Entries: entries}, nil
}

func (s *Service) loadRooms(ctx context.Context, bookings []*domain.Booking) (map[int64]*domain.Room, error) {
	seen := make(map[int64]struct{}, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.RoomID]; ok {
			continue
		}
		seen[b.RoomID] = struct{}{}
		ids = append(ids, b.RoomID)
	}
	if len(ids) == 0 {
		return map[int64]*domain.Room{}, nil
	}

	rooms, err := s.roomRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("GetCalendar: failed to load rooms: %v", err)
		return nil, fmt.Errorf("%w: GetCalendar - failed to load rooms: %v", ErrInternal, err)
	}
	return rooms, nil
}
