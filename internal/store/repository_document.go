package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

const documentsTable = "documents"

var documentColumns = []string{
	"id", "owner_id", "name", "quantity", "description", "child_items", "created_at", "updated_at",
}

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository]. Line items are kept in a JSONB column.
type documentRepository struct {
	*DB
	builder sq.StatementBuilderType
}

// NewDocumentRepository constructs a [DocumentRepository] backed by db.
func NewDocumentRepository(db *DB) DocumentRepository {
	return &documentRepository{
		DB:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *documentRepository) FindByOwner(ctx context.Context, collection, owner string) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select(documentColumns...).
		From(documentsTable).
		Where(sq.Eq{"collection": collection, "owner_id": owner}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var docs []models.Document
	err = r.withRetry(ctx, func() error {
		var queryErr error
		docs, queryErr = r.queryDocuments(ctx, query, args...)
		return queryErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.FindByOwner").
			Str("collection", collection).
			Str("owner_id", owner).
			Msg("failed to query owner documents")
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) FindByID(ctx context.Context, collection, id string) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select(documentColumns...).
		From(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var doc models.Document
	err = r.withRetry(ctx, func() error {
		var scanErr error
		doc, scanErr = scanDocument(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.FindByID").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to query document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return doc, nil
}

func (r *documentRepository) Insert(ctx context.Context, collection string, doc models.Document) error {
	log := logger.FromContext(ctx)

	childItems, err := marshalChildItems(doc.ChildItems)
	if err != nil {
		return err
	}

	query, args, err := r.builder.Insert(documentsTable).
		Columns("id", "collection", "owner_id", "name", "quantity", "description", "child_items", "created_at", "updated_at").
		Values(doc.ID, collection, doc.UserID, doc.Name, doc.Quantity, doc.Description, childItems, doc.CreatedAt, doc.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDocumentExists
		}
		log.Err(err).
			Str("func", "documentRepository.Insert").
			Str("collection", collection).
			Str("owner_id", doc.UserID).
			Msg("failed to insert document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *documentRepository) Update(ctx context.Context, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	log := logger.FromContext(ctx)

	updatedAt := time.Now().UTC()
	if patch.UpdatedAt != nil {
		updatedAt = *patch.UpdatedAt
	}

	builder := r.builder.Update(documentsTable).Set("updated_at", updatedAt)
	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.Quantity != nil {
		builder = builder.Set("quantity", *patch.Quantity)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.ChildItems != nil {
		childItems, err := marshalChildItems(*patch.ChildItems)
		if err != nil {
			return models.Document{}, err
		}
		builder = builder.Set("child_items", childItems)
	}

	query, args, err := builder.
		Where(sq.Eq{"collection": collection, "id": id}).
		Suffix("RETURNING " + strings.Join(documentColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var doc models.Document
	err = r.withRetry(ctx, func() error {
		var scanErr error
		doc, scanErr = scanDocument(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Update").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to update document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return doc, nil
}

func (r *documentRepository) Delete(ctx context.Context, collection, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Delete(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = r.withRetry(ctx, func() error {
		res, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Delete").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to delete document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (r *documentRepository) queryDocuments(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0, 16)
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		doc        models.Document
		childItems []byte
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Name,
		&doc.Quantity,
		&doc.Description,
		&childItems,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.Document{}, err
	}

	doc.ChildItems = []models.LineItem{}
	if len(childItems) > 0 {
		if err := json.Unmarshal(childItems, &doc.ChildItems); err != nil {
			return models.Document{}, fmt.Errorf("error decoding child items: %w", err)
		}
	}
	doc.CreatedAt = &createdAt
	doc.UpdatedAt = &updatedAt

	return doc, nil
}

func marshalChildItems(items []models.LineItem) (string, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("error encoding child items: %w", err)
	}
	return string(data), nil
}
