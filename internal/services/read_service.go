package services

import (
	"context"

	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"gorm.io/gorm"
)

// ReadResult carries the outcome of a proxied read plus quota bookkeeping.
type ReadResult struct {
	DocsReturned int
	UnitsCharged int
	Data         interface{}
}

type ReadService interface {
	Read(ctx context.Context, req *models.ReadRequest) (*ReadResult, error)
}

type readService struct {
	db    *gorm.DB
	docs  repository.DocumentRepository
	quota QuotaService
}

func NewReadService(db *gorm.DB, docs repository.DocumentRepository, quota QuotaService) ReadService {
	return &readService{db: db, docs: docs, quota: quota}
}

// Read validates the request, then runs the backing fetch and the quota
// check-and-increment inside a single transaction with the day's usage row
// locked first. A request that would exceed the cap rolls the whole
// transaction back and leaves no state behind.
func (s *readService) Read(ctx context.Context, req *models.ReadRequest) (*ReadResult, error) {
	if err := validateReadRequest(req); err != nil {
		return nil, err
	}

	var result ReadResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.quota.Acquire(tx)
		if err != nil {
			return err
		}

		switch req.Mode {
		case models.ModeGetDocument:
			doc, err := s.docs.Get(tx, req.Collection, req.DocID)
			if err != nil {
				return err
			}
			if doc != nil {
				result.DocsReturned = 1
				result.Data = documentPayload(doc)
			}
			// A miss still costs one read unit; the backing store charges
			// for the lookup attempt.
			result.UnitsCharged = 1

		case models.ModeQuery:
			docs, err := s.docs.Query(tx, req.Collection, req.Where, req.OrderBy, req.Limit)
			if err != nil {
				return err
			}
			payload := make([]map[string]interface{}, 0, len(docs))
			for i := range docs {
				payload = append(payload, documentPayload(&docs[i]))
			}
			result.DocsReturned = len(docs)
			result.Data = payload
			result.UnitsCharged = len(docs)
			if result.UnitsCharged == 0 {
				result.UnitsCharged = 1
			}
		}

		return s.quota.Commit(tx, record, result.UnitsCharged)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// validateReadRequest rejects malformed requests before any store
// interaction.
func validateReadRequest(req *models.ReadRequest) error {
	if req.Collection == "" {
		return apperrors.InvalidArgument("collection is required")
	}

	switch req.Mode {
	case models.ModeGetDocument:
		if req.DocID == "" {
			return apperrors.InvalidArgument("docId is required for getDocument")
		}
	case models.ModeQuery:
	default:
		return apperrors.InvalidArgument("unsupported mode: " + req.Mode)
	}

	if req.Limit < 0 {
		return apperrors.InvalidArgument("limit must be a positive integer")
	}
	for _, f := range req.Where {
		if f.Field == "" {
			return apperrors.InvalidArgument("filter field is required")
		}
		if !repository.IsValidFilterOp(f.Op) {
			return apperrors.InvalidArgument("unsupported filter operator: " + f.Op)
		}
	}
	for _, o := range req.OrderBy {
		if o.Field == "" {
			return apperrors.InvalidArgument("orderBy field is required")
		}
		if !repository.IsValidSortDirection(o.Direction) {
			return apperrors.InvalidArgument("unsupported sort direction: " + o.Direction)
		}
	}
	return nil
}

func documentPayload(doc *models.Document) map[string]interface{} {
	return map[string]interface{}{
		"id":   doc.DocID,
		"data": map[string]interface{}(doc.Data),
	}
}
