package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nanny-payroll-bot/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Services - зависимости HTTP API
type Services struct {
	Employees *service.EmployeeService
	Entries   *service.TimeEntryService
	Holidays  *service.PaidHolidayService
	Payroll   *service.PayrollService
}

type Handler struct {
	services         Services
	occupationalCode string
	logger           *logrus.Logger
	now              func() time.Time
}

func NewHandler(services Services, occupationalCode string) *Handler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Handler{
		services:         services,
		occupationalCode: occupationalCode,
		logger:           logger,
		now:              time.Now,
	}
}

// Router собирает маршруты API
func (h *Handler) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(h.requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.handleListEmployees)
			r.Get("/{name}/payslip", h.handlePayslip)
			r.Get("/{name}/entries", h.handleEntries)
			r.Post("/{name}/entries", h.handleAddEntry)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/quarterly", h.handleQuarterly)
			r.Get("/annual", h.handleAnnual)
		})
		r.Get("/holidays", h.handleHolidays)
	})

	return router
}

// requestLogger пишет строку лога на каждый запрос
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("HTTP request")
	})
}

// Server - HTTP сервер API с корректной остановкой
type Server struct {
	srv    *http.Server
	logger *logrus.Logger
}

func NewServer(addr string, handler *Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: handler.logger,
	}
}

// Start запускает сервер в отдельной горутине
func (s *Server) Start() {
	go func() {
		s.logger.WithField("addr", s.srv.Addr).Info("HTTP API listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("HTTP API stopped")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
