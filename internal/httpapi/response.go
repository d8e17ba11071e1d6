package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/service"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload Envelope) {
	payload.RequestID = middleware.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Warn("write json failed")
	}
}

func success(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, Envelope{Success: true, Data: data})
}

func created(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusCreated, Envelope{Success: true, Data: data})
}

func fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}})
}

// writeFile отдает файл как вложение
func writeFile(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if name != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// failErr подбирает HTTP статус по ошибке
func failErr(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		fail(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, payroll.ErrPayrollDayMismatch),
		errors.Is(err, payroll.ErrInvalidWindow),
		errors.Is(err, payroll.ErrInvalidQuarter),
		errors.Is(err, models.ErrInvalidTimeEntry),
		errors.Is(err, models.ErrUnpaidTimeOff):
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, payroll.ErrTaxRatesMissing),
		errors.Is(err, payroll.ErrWithholdingTableMissing),
		errors.Is(err, payroll.ErrBracketNotFound),
		errors.Is(err, service.ErrEmployerNotConfigured),
		errors.Is(err, service.ErrNoTaxRates):
		fail(w, r, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	default:
		logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		fail(w, r, http.StatusInternalServerError, "internal", "internal error")
	}
}
