package repository

import (
	"errors"
	"strings"

	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// filterOps maps the request operators to SQL.
var filterOps = map[string]string{
	"==": "=",
	"!=": "<>",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// IsValidFilterOp reports whether op is an accepted filter operator.
func IsValidFilterOp(op string) bool {
	_, ok := filterOps[op]
	return ok
}

// IsValidSortDirection reports whether direction is an accepted sort
// direction. The empty string defaults to ascending.
func IsValidSortDirection(direction string) bool {
	_, err := sortDirection(direction)
	return err == nil
}

type DocumentRepository interface {
	Get(tx *gorm.DB, collection, docID string) (*models.Document, error)
	Query(tx *gorm.DB, collection string, where []models.Filter, orderBy []models.Sort, limit int) ([]models.Document, error)
}

// documentRepository runs against whatever transaction the caller hands it,
// so reads can share the quota transaction.
type documentRepository struct{}

func NewDocumentRepository() DocumentRepository {
	return &documentRepository{}
}

func (r *documentRepository) Get(tx *gorm.DB, collection, docID string) (*models.Document, error) {
	var doc models.Document
	err := tx.First(&doc, "collection = ? AND doc_id = ?", collection, docID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Query(tx *gorm.DB, collection string, where []models.Filter, orderBy []models.Sort, limit int) ([]models.Document, error) {
	q := tx.Model(&models.Document{}).Where("collection = ?", collection)

	dialect := tx.Dialector.Name()
	for _, f := range where {
		op, ok := filterOps[f.Op]
		if !ok {
			return nil, apperrors.InvalidArgument("unsupported filter operator: " + f.Op)
		}
		expr, args := fieldComparison(dialect, f.Field, op, f.Value)
		q = q.Where(expr, args...)
	}

	if len(orderBy) > 0 {
		expr, err := orderExpr(dialect, orderBy)
		if err != nil {
			return nil, err
		}
		q = q.Clauses(clause.OrderBy{Expression: expr})
	} else {
		q = q.Order("doc_id ASC")
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	var docs []models.Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// fieldComparison builds a dialect-specific comparison against one JSON
// field. Postgres extracts text and needs casts for non-string values;
// SQLite's json_extract already yields typed values.
func fieldComparison(dialect, field, op string, value interface{}) (string, []interface{}) {
	if dialect == "postgres" {
		switch v := value.(type) {
		case nil:
			if op == "<>" {
				return "data ->> ? IS NOT NULL", []interface{}{field}
			}
			return "data ->> ? IS NULL", []interface{}{field}
		case float64, int, int64:
			return "(data ->> ?)::numeric " + op + " ?", []interface{}{field, v}
		case bool:
			return "(data ->> ?)::boolean " + op + " ?", []interface{}{field, v}
		default:
			return "data ->> ? " + op + " ?", []interface{}{field, value}
		}
	}

	path := "$." + field
	if value == nil {
		if op == "<>" {
			return "json_extract(data, ?) IS NOT NULL", []interface{}{path}
		}
		return "json_extract(data, ?) IS NULL", []interface{}{path}
	}
	return "json_extract(data, ?) " + op + " ?", []interface{}{path, value}
}

func orderExpr(dialect string, orderBy []models.Sort) (clause.Expr, error) {
	parts := make([]string, 0, len(orderBy))
	vars := make([]interface{}, 0, len(orderBy))
	for _, s := range orderBy {
		dir, err := sortDirection(s.Direction)
		if err != nil {
			return clause.Expr{}, err
		}
		if dialect == "postgres" {
			parts = append(parts, "data ->> ? "+dir)
			vars = append(vars, s.Field)
		} else {
			parts = append(parts, "json_extract(data, ?) "+dir)
			vars = append(vars, "$."+s.Field)
		}
	}
	return clause.Expr{SQL: strings.Join(parts, ", "), Vars: vars}, nil
}

func sortDirection(direction string) (string, error) {
	switch strings.ToLower(direction) {
	case "", "asc", "ascending":
		return "ASC", nil
	case "desc", "descending":
		return "DESC", nil
	}
	return "", apperrors.InvalidArgument("unsupported sort direction: " + direction)
}
