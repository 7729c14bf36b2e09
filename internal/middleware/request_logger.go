package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/logger"
	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	"github.com/ShinaSIT/Helix-Telebot/internal/services"
	"github.com/sirupsen/logrus"
)

type ResponseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *ResponseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

type RequestLogger struct {
	logService services.RequestLogService
}

func NewRequestLogger(logService services.RequestLogService) *RequestLogger {
	return &RequestLogger{logService: logService}
}

// LogRequest records one audit row per proxied read.
func (rl *RequestLogger) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Custom response writer to capture the status code
		rw := &ResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		mode, collection := sniffRequestBody(r)

		next.ServeHTTP(rw, r)

		status := models.StatusSuccess
		if rw.status >= 400 {
			status = models.StatusError
		}

		summary := "Proxied read"
		if mode != "" {
			summary = "Proxied " + mode + " on " + collection
		}

		err := rl.logService.LogRequest(
			r.URL.Path,
			r.Method,
			mode,
			collection,
			rw.status,
			status,
			summary,
		)
		if err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error": err,
				"path":  r.URL.Path,
			}).Error("Failed to log request")
		}
	})
}

// sniffRequestBody peeks at the JSON body for audit fields and restores it
// for the handler. Both the flat body and the callable {"data": ...}
// envelope are recognized.
func sniffRequestBody(r *http.Request) (mode, collection string) {
	if r.Body == nil {
		return "", ""
	}

	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}

	var probe struct {
		Mode       string `json:"mode"`
		Collection string `json:"collection"`
		Data       *struct {
			Mode       string `json:"mode"`
			Collection string `json:"collection"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", ""
	}
	if probe.Data != nil && probe.Data.Mode != "" {
		return probe.Data.Mode, probe.Data.Collection
	}
	return probe.Mode, probe.Collection
}
