package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_calendar"
	getEquipmentAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_equipment_availability"
	getRoomHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_room"
	getRoomBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_room_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_user_bookings"
	listRoomsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_rooms"
	rejectBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reject_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_booking_status"
	validateBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/validate_booking"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	equipmentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/equipment"
	roomRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/room"
	authServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/authservice"
	availabilityService "github.com/m04kA/SMC-ReservationService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-ReservationService/internal/service/calendar"
	roomsService "github.com/m04kA/SMC-ReservationService/internal/service/rooms"
	approveBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/approve_booking"
	cancelBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	rejectBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/reject_booking"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Клиент сервиса авторизации (предикаты способностей approve/cancel_any)
	authClient := authServiceClient.NewClient(
		cfg.AuthService.URL,
		time.Duration(cfg.AuthService.Timeout)*time.Second,
		log,
	)
	log.Info("AuthService client initialized (url=%s, timeout=%ds)", cfg.AuthService.URL, cfg.AuthService.Timeout)

	// Издатель событий жизненного цикла бронирований
	var eventPublisher interface {
		Publish(ctx context.Context, queue string, event events.ReservationEvent) error
	}
	if cfg.Events.Enabled {
		eventPublisher = events.NewPublisher(cfg.Events.URL, log)
		log.Info("Event publisher initialized (url=%s)", cfg.Events.URL)
	} else {
		eventPublisher = events.NewNoopPublisher(log)
		log.Info("Event publishing disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		roomRepository      *roomRepo.Repository
		equipmentRepository *equipmentRepo.Repository
	)

	// Интерфейс transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		roomRepository = roomRepo.NewRepository(wrappedDB)
		equipmentRepository = equipmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		roomRepository = roomRepo.NewRepository(db)
		equipmentRepository = equipmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Компоненты доступности
	roomChecker := availabilityService.NewRoomChecker(bookingRepository, log)
	equipmentCalculator := availabilityService.NewEquipmentCalculator(bookingRepository, equipmentRepository, log)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, authClient, log)
	calendarSvc := calendarService.NewService(bookingRepository, roomRepository, log)
	roomSvc := roomsService.NewService(roomRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		roomRepository,
		equipmentRepository,
		roomChecker,
		equipmentCalculator,
		txMgr,
		eventPublisher,
		log,
	)
	approveBookingUseCase := approveBookingUC.NewUseCase(bookingRepository, authClient, eventPublisher, log)
	rejectBookingUseCase := rejectBookingUC.NewUseCase(bookingRepository, authClient, eventPublisher, log)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(bookingRepository, authClient, eventPublisher, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(approveBookingUseCase, log)
	rejectBooking := rejectBookingHandler.NewHandler(rejectBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getRoomBookings := getRoomBookingsHandler.NewHandler(bookingSvc, log)
	listRooms := listRoomsHandler.NewHandler(roomSvc, log)
	getRoom := getRoomHandler.NewHandler(roomSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	getEquipmentAvailability := getEquipmentAvailabilityHandler.NewHandler(equipmentCalculator, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Общий календарь расписания
	api.HandleFunc("/reservations/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Каталог комнат
	api.HandleFunc("/rooms", listRooms.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}", getRoom.Handle).Methods(http.MethodGet)

	// Доступное количество оборудования в окне
	api.HandleFunc("/equipment/{equipmentId}/availability", getEquipmentAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание и dry-run валидация бронирования
	protected.HandleFunc("/reservations", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/validate", validateBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getBooking.Handle).Methods(http.MethodGet)

	// Решения по бронированию
	protected.HandleFunc("/reservations/{reservationId}/approve", approveBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Переходы выполнения (in_progress / completed)
	protected.HandleFunc("/reservations/{reservationId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserBookings.Handle).Methods(http.MethodGet)

	// Бронирования комнаты в окне (для согласующих)
	protected.HandleFunc("/rooms/{roomId}/reservations", getRoomBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
