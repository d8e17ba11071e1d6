package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nanny-payroll-bot/internal/config"
	"nanny-payroll-bot/internal/handler"
	"nanny-payroll-bot/internal/httpapi"
	"nanny-payroll-bot/internal/repository"
	"nanny-payroll-bot/internal/service"
	"nanny-payroll-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.Info("Config initialized...")

	db, err := repository.OpenSQLite(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	userRepo, err := repository.NewUserRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user repository")
	}
	employerRepo, err := repository.NewGormEmployerRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employer repository")
	}
	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employee repository")
	}
	entryRepo, err := repository.NewGormTimeEntryRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create time entry repository")
	}
	ratesRepo, err := repository.NewGormTaxRatesRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create tax rates repository")
	}
	holidayRepo, err := repository.NewGormPaidHolidayRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create paid holiday repository")
	}

	employerService := service.NewEmployerService(employerRepo)
	employeeService := service.NewEmployeeService(employeeRepo, entryRepo)
	ratesService := service.NewTaxRatesService(ratesRepo)
	holidayService := service.NewPaidHolidayService(holidayRepo)
	entryService := service.NewTimeEntryService(entryRepo, ratesRepo, holidayRepo, employeeService.Locks())
	userService := service.NewUserService(userRepo, employeeRepo)
	payrollService := service.NewPayrollService(employerService, employeeService, ratesRepo, cfg.PayrollConfig(), cfg.PayPeriodDays)

	// Загружаем начальные данные из файлов
	bootstrapper := service.NewBootstrapper(ratesService, employerService, employeeService, holidayService)
	if _, err := bootstrapper.Run(service.BootstrapFiles{
		TaxRatesFile: cfg.TaxRatesFile,
		EmployerFile: cfg.EmployerFile,
		EmployeesDir: cfg.EmployeesDir,
		HolidaysFile: cfg.HolidaysFile,
	}); err != nil {
		logrus.WithError(err).Fatal("Failed to load bootstrap data")
	}

	// Инициализируем администратора из конфига
	if err := userService.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logrus.Infof("Warning: Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	var apiServer *httpapi.Server
	if cfg.HTTPAddr != "" {
		apiServer = httpapi.NewServer(cfg.HTTPAddr, httpapi.NewHandler(httpapi.Services{
			Employees: employeeService,
			Entries:   entryService,
			Holidays:  holidayService,
			Payroll:   payrollService,
		}, cfg.OccupationalCode))
		apiServer.Start()
	}

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler, err := handler.NewHandler(client, handler.Services{
		Users:     userService,
		Employees: employeeService,
		Entries:   entryService,
		Holidays:  holidayService,
		Payroll:   payrollService,
	}, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create handler")
	}

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	client.Bot.StopReceivingUpdates()

	if apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := apiServer.Shutdown(ctx); err != nil {
			logrus.Infof("Error stopping HTTP API: %v", err)
		}
		cancel()
	}

	if err := repository.Close(db); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
