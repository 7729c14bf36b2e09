package services

import (
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/google/uuid"
)

type RequestLogService interface {
	LogRequest(endpoint, method, mode, collection string, statusCode int, status models.RequestStatus, summary string) error
	GetEndpointLogs(endpoint string, from, to time.Time) ([]models.RequestLog, error)
}

type requestLogService struct {
	repo repository.RequestLogRepository
}

func NewRequestLogService(repo repository.RequestLogRepository) RequestLogService {
	return &requestLogService{repo: repo}
}

func (s *requestLogService) LogRequest(endpoint, method, mode, collection string, statusCode int, status models.RequestStatus, summary string) error {
	log := &models.RequestLog{
		ID:         uuid.New(),
		Endpoint:   endpoint,
		Method:     method,
		Mode:       mode,
		Collection: collection,
		Status:     status,
		StatusCode: statusCode,
		Summary:    summary,
		Timestamp:  time.Now(),
	}
	return s.repo.Create(log)
}

func (s *requestLogService) GetEndpointLogs(endpoint string, from, to time.Time) ([]models.RequestLog, error) {
	return s.repo.GetEndpointLogs(endpoint, from, to)
}
