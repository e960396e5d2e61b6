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
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/create_booking"
	createHoldHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/create_hold"
	deleteBookingHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/get_calendar"
	getClientBookingsHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/get_client_bookings"
	getMemberScheduleHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/get_member_schedule"
	releaseHoldHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/release_hold"
	rescheduleBookingHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/update_booking_status"
	updateMemberScheduleHandler "github.com/ev4kov/SBP-BookingEngine/internal/api/handlers/update_member_schedule"
	"github.com/ev4kov/SBP-BookingEngine/internal/api/middleware"
	"github.com/ev4kov/SBP-BookingEngine/internal/config"
	"github.com/ev4kov/SBP-BookingEngine/internal/infra/cache"
	bookingRepo "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/booking"
	holdRepo "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/hold"
	scheduleRepo "github.com/ev4kov/SBP-BookingEngine/internal/infra/storage/schedule"
	catalogServiceClient "github.com/ev4kov/SBP-BookingEngine/internal/integrations/catalogservice"
	bookingsService "github.com/ev4kov/SBP-BookingEngine/internal/service/bookings"
	conflictService "github.com/ev4kov/SBP-BookingEngine/internal/service/conflict"
	scheduleService "github.com/ev4kov/SBP-BookingEngine/internal/service/schedule"
	"github.com/ev4kov/SBP-BookingEngine/internal/sweeper"
	createBookingUC "github.com/ev4kov/SBP-BookingEngine/internal/usecase/create_booking"
	createHoldUC "github.com/ev4kov/SBP-BookingEngine/internal/usecase/create_hold"
	getAvailableSlotsUC "github.com/ev4kov/SBP-BookingEngine/internal/usecase/get_available_slots"
	releaseHoldUC "github.com/ev4kov/SBP-BookingEngine/internal/usecase/release_hold"
	rescheduleBookingUC "github.com/ev4kov/SBP-BookingEngine/internal/usecase/reschedule_booking"
	"github.com/ev4kov/SBP-BookingEngine/pkg/dbmetrics"
	"github.com/ev4kov/SBP-BookingEngine/pkg/logger"
	"github.com/ev4kov/SBP-BookingEngine/pkg/metrics"
	"github.com/ev4kov/SBP-BookingEngine/pkg/simpletxmanager"
	"github.com/ev4kov/SBP-BookingEngine/pkg/txmanager"
)

// realTimeProvider продовый источник времени для сервисов
type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

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

	log.Info("Starting SBP-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis: пустой адрес выключает кэш слотов
	var availabilityCache *cache.AvailabilityCache
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		cacheTTL := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
		availabilityCache = cache.NewAvailabilityCache(redisClient, cacheTTL)
		log.Info("Availability cache enabled (addr=%s, ttl=%s)", cfg.Redis.Address, cacheTTL)
	} else {
		log.Info("Availability cache disabled, serving slots straight from database")
	}

	// Клиент каталога: салоны, услуги, варианты
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		holdRepository     *holdRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		holdRepository = holdRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		holdRepository = holdRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Метрики доменных событий пробрасываем только когда включены,
	// иначе интерфейсные поля остаются nil
	var placementMetrics conflictService.Metrics
	var holdMetrics createHoldUC.Metrics
	var sweepMetrics sweeper.Metrics
	if cfg.Metrics.Enabled {
		placementMetrics = metricsCollector
		holdMetrics = metricsCollector
		sweepMetrics = metricsCollector
	}

	// Кэш точно так же: интерфейсы остаются nil при выключенном Redis
	var slotsCache getAvailableSlotsUC.SlotsCache
	var holdCacheInv createHoldUC.CacheInvalidator
	var bookingCacheInv createBookingUC.CacheInvalidator
	var releaseCacheInv releaseHoldUC.CacheInvalidator
	var rescheduleCacheInv rescheduleBookingUC.CacheInvalidator
	var bookingsSvcCacheInv bookingsService.CacheInvalidator
	var scheduleSvcCacheInv scheduleService.CacheInvalidator
	if availabilityCache != nil {
		slotsCache = availabilityCache
		holdCacheInv = availabilityCache
		bookingCacheInv = availabilityCache
		releaseCacheInv = availabilityCache
		rescheduleCacheInv = availabilityCache
		bookingsSvcCacheInv = availabilityCache
		scheduleSvcCacheInv = availabilityCache
	}

	// Инициализируем сервисы
	conflictSvc := conflictService.NewService(
		bookingRepository,
		holdRepository,
		scheduleRepository,
		placementMetrics,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		conflictSvc,
		txMgr,
		bookingsSvcCacheInv,
		realTimeProvider{},
		log,
	)

	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		scheduleSvcCacheInv,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		holdRepository,
		scheduleRepository,
		catalogClient,
		slotsCache,
		log,
		cfg.Slots.StepMinutes,
		cfg.Slots.MinNoticeMinutes,
	)

	createHoldUseCase := createHoldUC.NewUseCase(
		holdRepository,
		conflictSvc,
		catalogClient,
		txMgr,
		holdCacheInv,
		holdMetrics,
		log,
		cfg.Holds.TTLMinutes,
		cfg.Slots.MinNoticeMinutes,
	)

	releaseHoldUseCase := releaseHoldUC.NewUseCase(holdRepository, releaseCacheInv, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		holdRepository,
		conflictSvc,
		catalogClient,
		txMgr,
		bookingCacheInv,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		conflictSvc,
		txMgr,
		rescheduleCacheInv,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	releaseHold := releaseHoldHandler.NewHandler(releaseHoldUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getCalendar := getCalendarHandler.NewHandler(bookingSvc, log)
	getMemberSchedule := getMemberScheduleHandler.NewHandler(scheduleSvc, log)
	updateMemberSchedule := updateMemberScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентский checkout, без аутентификации)
	// ============================================================

	// Сетка слотов мастера на день
	api.HandleFunc("/shops/{shopId}/team-members/{memberId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Временное удержание слота на время checkout
	api.HandleFunc("/holds", createHold.Handle).Methods(http.MethodPost)
	api.HandleFunc("/holds/{sessionId}", releaseHold.Handle).Methods(http.MethodDelete)

	// Подтверждение бронирования: клиент с sessionId или сотрудник с X-Staff-ID
	api.Handle("/bookings",
		middleware.OptionalStaff(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// Бронирования клиента
	api.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Staff-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireStaff)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Календарь и расписание мастера ---
	protected.HandleFunc("/shops/{shopId}/team-members/{memberId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/shops/{shopId}/team-members/{memberId}/schedule",
		getMemberSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/shops/{shopId}/team-members/{memberId}/schedule",
		updateMemberSchedule.Handle).Methods(http.MethodPut)

	// Фоновая уборка протухших холдов (гигиена: чтение и так их отфильтровывает)
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.Holds.SweepIntervalMinutes > 0 {
		holdSweeper := sweeper.New(holdRepository, sweepMetrics, log, cfg.Holds.SweepIntervalMinutes)
		go holdSweeper.Run(sweeperCtx)
		log.Info("Hold sweeper started (interval=%dm)", cfg.Holds.SweepIntervalMinutes)
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopSweeper()

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
