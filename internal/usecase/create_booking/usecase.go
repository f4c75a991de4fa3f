package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	roomRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/room"
)

// UseCase конвейер валидации и создания бронирования.
// Проверка комнаты и проверка оборудования выполняются обе, без
// раннего выхода, и итоговое решение несет полный набор конфликтов.
type UseCase struct {
	bookingRepo      BookingRepository
	roomRepo         RoomRepository
	equipmentRepo    EquipmentRepository
	roomChecker      RoomChecker
	equipmentChecker EquipmentChecker
	txManager        TransactionManager
	publisher        EventPublisher
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	equipmentRepo EquipmentRepository,
	roomChecker RoomChecker,
	equipmentChecker EquipmentChecker,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		roomRepo:         roomRepo,
		equipmentRepo:    equipmentRepo,
		roomChecker:      roomChecker,
		equipmentChecker: equipmentChecker,
		txManager:        txManager,
		publisher:        publisher,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Validate прогоняет конвейер валидации без сохранения (dry run).
// Возвращаемое решение имеет ту же форму, что и при создании.
func (uc *UseCase) Validate(ctx context.Context, req *Request) (*Decision, error) {
	if err := uc.preflight(ctx, req); err != nil {
		return nil, err
	}

	decision, err := uc.buildDecision(ctx, req)
	if err != nil {
		return nil, err
	}

	return decision, nil
}

// Execute выполняет конвейер валидации и, при принятии, сохраняет
// бронирование вместе с позициями оборудования как единое целое.
//
// Проверка доступности и вставка выполняются в одной сериализуемой
// транзакции с блокировкой конкурирующих строк: из N конкурентных
// запросов на одно окно одной комнаты пройдет ровно один, остальные
// получат конфликт комнаты или оборудования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	uc.logger.Info("CreateBooking: requester=%d, room=%d, window=[%s, %s), equipment_lines=%d",
		req.RequesterID, req.RoomID,
		req.StartTime.Format("2006-01-02 15:04"), req.EndTime.Format("2006-01-02 15:04"),
		len(req.Equipment))

	if err := uc.preflight(ctx, req); err != nil {
		return nil, err
	}

	var result Result

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		decision, err := uc.buildDecision(txCtx, req)
		if err != nil {
			return err
		}
		result.Decision = *decision

		if !decision.Accepted() {
			uc.logger.Warn("CreateBooking: rejected, invalid_window=%v room_conflict=%v equipment_conflicts=%d",
				decision.InvalidWindow, decision.RoomConflict, len(decision.EquipmentConflicts))
			return nil
		}

		booking := &domain.Booking{
			RequesterID:    req.RequesterID,
			RoomID:         req.RoomID,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Purpose:        req.Purpose,
			Status:         domain.StatusPending,
			EquipmentLines: req.lines(),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result.Booking = toResponse(created)
		result.created = created

		uc.logger.Info("CreateBooking: successfully created booking id=%d", created.ID)
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Событие публикуется только после коммита транзакции
	if result.created != nil {
		uc.publishSubmitted(ctx, result.created)
	}

	return &result, nil
}

// preflight проверки вне решения о доступности: валидность входа,
// существование комнаты и всего запрошенного оборудования
func (uc *UseCase) preflight(ctx context.Context, req *Request) error {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return err
	}

	if _, err := uc.roomRepo.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CreateBooking: room id=%d not found", req.RoomID)
			return ErrRoomNotFound
		}
		uc.logger.Error("CreateBooking: failed to get room id=%d: %v", req.RoomID, err)
		return fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	if len(req.Equipment) > 0 {
		ids := make([]int64, 0, len(req.Equipment))
		for _, line := range req.Equipment {
			ids = append(ids, line.EquipmentID)
		}

		items, err := uc.equipmentRepo.GetByIDs(ctx, ids)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get equipment items: %v", err)
			return fmt.Errorf("%w: failed to get equipment items: %v", ErrInternal, err)
		}

		for _, id := range ids {
			if _, ok := items[id]; !ok {
				uc.logger.Warn("CreateBooking: equipment id=%d not found", id)
				return fmt.Errorf("%w: id=%d", ErrEquipmentNotFound, id)
			}
		}
	}

	return nil
}

// buildDecision собирает структурированное решение по запросу.
// Некорректное окно отсекает проверки доступности; конфликт комнаты
// НЕ останавливает проверку оборудования.
func (uc *UseCase) buildDecision(ctx context.Context, req *Request) (*Decision, error) {
	window := req.window()

	if !window.IsValid() {
		return &Decision{InvalidWindow: true}, nil
	}

	decision := &Decision{}

	free, err := uc.roomChecker.IsRoomFree(ctx, req.RoomID, window, domain.RoomBlockingStatuses, nil)
	if err != nil {
		uc.logger.Error("CreateBooking: room availability check failed: %v", err)
		return nil, fmt.Errorf("%w: room availability check: %v", ErrInternal, err)
	}
	decision.RoomConflict = !free

	if len(req.Equipment) > 0 {
		conflicts, err := uc.equipmentChecker.CheckLines(ctx, req.lines(), window)
		if err != nil {
			uc.logger.Error("CreateBooking: equipment availability check failed: %v", err)
			return nil, fmt.Errorf("%w: equipment availability check: %v", ErrInternal, err)
		}
		decision.EquipmentConflicts = conflicts
	}

	return decision, nil
}

// publishSubmitted публикует событие о новом бронировании.
// Ошибка публикации логируется и не влияет на результат запроса.
func (uc *UseCase) publishSubmitted(ctx context.Context, b *domain.Booking) {
	event := events.FromBooking(b, nil, nil, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, events.QueueReservationSubmitted, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish submitted event for booking=%d: %v", b.ID, err)
	}
}
