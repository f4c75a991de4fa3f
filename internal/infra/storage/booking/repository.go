package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// bookingColumns полный набор колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"requester_id",
	"room_id",
	"start_time",
	"end_time",
	"purpose",
	"status",
	"decided_by",
	"decided_at",
	"rejection_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями и их позициями оборудования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе с позициями оборудования.
// Если в контексте передана активная транзакция (через context.Value),
// использует её - тогда бронирование и все позиции сохраняются атомарно:
// либо всё, либо ничего. Вне транзакции вставка позиций после падения
// вставки бронирования не выполняется, но частично вставленные позиции
// откатить некому, поэтому создание бронирования всегда должно идти
// через транзакционный менеджер.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"requester_id",
			"room_id",
			"start_time",
			"end_time",
			"purpose",
			"status",
		).
		Values(
			b.RequesterID,
			b.RoomID,
			b.StartTime,
			b.EndTime,
			b.Purpose,
			b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	if len(b.EquipmentLines) > 0 {
		insertLines := psqlbuilder.Insert("equipment_lines").
			Columns("booking_id", "equipment_id", "quantity")

		for _, line := range b.EquipmentLines {
			insertLines = insertLines.Values(b.ID, line.EquipmentID, line.Quantity)
		}

		query, args, err = insertLines.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build lines insert: %v", ErrBuildQuery, err)
		}

		if _, err = executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - insert equipment lines: %v", ErrExecQuery, err)
		}

		for i := range b.EquipmentLines {
			b.EquipmentLines[i].BookingID = b.ID
		}
	}

	return b, nil
}

// GetByID получает бронирование по ID вместе с позициями оборудования
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.loadLines(ctx, executor, []*domain.Booking{b}); err != nil {
		return nil, err
	}

	return b, nil
}

// GetActiveForRoom получает бронирования комнаты, пересекающие окно фильтра.
// Предикат пересечения в SQL повторяет полуоткрытую семантику
// domain.Overlaps: start_time < window.End AND end_time > window.Start.
//
// Внутри транзакции добавляет FOR UPDATE: строки блокируются на время
// проверки доступности, чтобы конкурентное создание не проскочило между
// чтением и вставкой.
func (r *Repository) GetActiveForRoom(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = domain.RoomBlockingStatuses
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"room_id": filter.RoomID}).
		Where(squirrel.Eq{"status": statusStrings(statuses)}).
		Where(squirrel.Lt{"start_time": filter.Window.End}).
		Where(squirrel.Gt{"end_time": filter.Window.Start}).
		OrderBy("start_time ASC")

	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeBookingID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForRoom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForRoom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetActiveForEquipment получает бронирования, удерживающие указанное
// оборудование в окне фильтра. Каждое возвращенное бронирование несет
// единственную позицию - количество именно этого оборудования.
//
// Внутри транзакции блокирует строки бронирований (FOR UPDATE OF b).
func (r *Repository) GetActiveForEquipment(ctx context.Context, filter domain.EquipmentBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = domain.EquipmentHoldingStatuses
	}

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.requester_id",
		"b.room_id",
		"b.start_time",
		"b.end_time",
		"b.purpose",
		"b.status",
		"b.decided_by",
		"b.decided_at",
		"b.rejection_reason",
		"b.cancelled_by",
		"b.cancelled_at",
		"b.created_at",
		"b.updated_at",
		"l.quantity",
	).
		From("bookings b").
		Join("equipment_lines l ON l.booking_id = b.id").
		Where(squirrel.Eq{"l.equipment_id": filter.EquipmentID}).
		Where(squirrel.Eq{"b.status": statusStrings(statuses)}).
		Where(squirrel.Lt{"b.start_time": filter.Window.End}).
		Where(squirrel.Gt{"b.end_time": filter.Window.Start}).
		OrderBy("b.start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForEquipment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForEquipment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime
		var quantity int

		err := rows.Scan(
			&b.ID,
			&b.RequesterID,
			&b.RoomID,
			&b.StartTime,
			&b.EndTime,
			&b.Purpose,
			&b.Status,
			&b.DecidedBy,
			&b.DecidedAt,
			&b.RejectionReason,
			&b.CancelledBy,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
			&quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveForEquipment - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time
		b.EquipmentLines = []domain.EquipmentLine{{
			BookingID:   b.ID,
			EquipmentID: filter.EquipmentID,
			Quantity:    quantity,
		}}

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveForEquipment - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// GetByRequesterID получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByRequesterID(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequesterID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequesterID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// GetCalendar получает активные бронирования для календарной проекции.
// Ограничивает выборку календарными категориями комнат и применяет
// тот же полуоткрытый предикат пересечения, что и проверки доступности.
func (r *Repository) GetCalendar(ctx context.Context, filter domain.CalendarFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	categories := make([]string, len(domain.SchedulableCategories))
	for i, c := range domain.SchedulableCategories {
		categories[i] = string(c)
	}

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.requester_id",
		"b.room_id",
		"b.start_time",
		"b.end_time",
		"b.purpose",
		"b.status",
		"b.decided_by",
		"b.decided_at",
		"b.rejection_reason",
		"b.cancelled_by",
		"b.cancelled_at",
		"b.created_at",
		"b.updated_at",
	).
		From("bookings b").
		Join("rooms r ON r.id = b.room_id").
		Where(squirrel.Eq{"r.category": categories}).
		Where(squirrel.Eq{"b.status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"b.start_time": filter.Window.End}).
		Where(squirrel.Gt{"b.end_time": filter.Window.Start}).
		OrderBy("b.start_time ASC")

	if len(filter.RoomIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.room_id": filter.RoomIDs})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateDecision фиксирует решение по бронированию: approved или rejected.
// Переход выполняется только из pending - условие в WHERE защищает от
// конкурентного двойного решения. Причина отклонения очищается при
// approve и обязательна при reject (контролируется usecase-слоем).
func (r *Repository) UpdateDecision(ctx context.Context, id int64, status domain.BookingStatus, actorID int64, decidedAt time.Time, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("decided_by", actorID).
		Set("decided_at", decidedAt).
		Set("rejection_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotPending
	}

	return nil
}

// Cancel переводит бронирование в терминальный статус cancelled с актором
// и временем отмены. Запись не удаляется - история сохраняется для аудита.
func (r *Repository) Cancel(ctx context.Context, id int64, actorID int64, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", actorID).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []string{
			string(domain.StatusPending),
			string(domain.StatusApproved),
		}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCannotCancel
	}

	return nil
}

// UpdateProgress применяет операторский переход in_progress/completed.
// Условие status = from защищает от конкурентных переходов.
func (r *Repository) UpdateProgress(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateProgress - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateProgress - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateProgress - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// scanBooking сканирует одну строку бронирования
func (r *Repository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.RequesterID,
		&b.RoomID,
		&b.StartTime,
		&b.EndTime,
		&b.Purpose,
		&b.Status,
		&b.DecidedBy,
		&b.DecidedAt,
		&b.RejectionReason,
		&b.CancelledBy,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.RequesterID,
			&b.RoomID,
			&b.StartTime,
			&b.EndTime,
			&b.Purpose,
			&b.Status,
			&b.DecidedBy,
			&b.DecidedAt,
			&b.RejectionReason,
			&b.CancelledBy,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// loadLines догружает позиции оборудования для набора бронирований
func (r *Repository) loadLines(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]int64, len(bookings))
	byID := make(map[int64]*domain.Booking, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		byID[b.ID] = b
	}

	query, args, err := psqlbuilder.Select("booking_id", "equipment_id", "quantity").
		From("equipment_lines").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC, equipment_id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.EquipmentLine
		if err := rows.Scan(&line.BookingID, &line.EquipmentID, &line.Quantity); err != nil {
			return fmt.Errorf("%w: loadLines - scan row: %v", ErrScanRow, err)
		}
		if b, ok := byID[line.BookingID]; ok {
			b.EquipmentLines = append(b.EquipmentLines, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadLines - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// statusStrings конвертирует статусы в строки для squirrel.Eq
func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
