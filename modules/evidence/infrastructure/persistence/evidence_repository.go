package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/modules/evidence/infrastructure/persistence/models"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

const (
	documentColumns = `d.id, d.tenant_id, d.owner_type, d.owner_id::text, d.name, d.mime_type,
	d.size, d.sha256, d.uploaded_by, d.created_at`

	selectDocumentsQuery = `SELECT ` + documentColumns + ` FROM evidence_documents d`
	countDocumentsQuery  = `SELECT COUNT(*) FROM evidence_documents d`

	insertDocumentQuery = `
		INSERT INTO evidence_documents (tenant_id, owner_type, owner_id, name, mime_type, size, sha256, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	deleteDocumentQuery = `DELETE FROM evidence_documents WHERE id = $1 AND tenant_id = $2`
	countByHashQuery    = `SELECT COUNT(*) FROM evidence_documents WHERE tenant_id = $1 AND sha256 = $2`
)

type DocumentRepository struct{}

func NewDocumentRepository() document.Repository {
	return &DocumentRepository{}
}

func (r *DocumentRepository) buildFilters(ctx context.Context, params *document.FindParams) (*repo.Filters, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.NewFilters(tenantID)
	f.AddRaw("d.tenant_id = $1")
	if params == nil {
		return f, nil
	}
	if params.OwnerType != "" {
		f.Add("d.owner_type = ?", string(params.OwnerType))
	}
	if params.OwnerID != nil {
		f.Add("d.owner_id = ?", *params.OwnerID)
	}
	return f, nil
}

func (r *DocumentRepository) List(ctx context.Context, params *document.FindParams) ([]document.Document, error) {
	if params == nil {
		params = &document.FindParams{}
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	q := repo.Join(
		selectDocumentsQuery,
		f.Where(),
		"ORDER BY d.created_at DESC, d.id",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.query(ctx, q, f.Args()...)
}

func (r *DocumentRepository) Count(ctx context.Context, params *document.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(countDocumentsQuery, f.Where()), f.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count evidence documents: %w", err)
	}
	return count, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return document.Document{}, err
	}
	items, err := r.query(ctx, selectDocumentsQuery+` WHERE d.id = $1 AND d.tenant_id = $2`, id, tenantID)
	if err != nil {
		return document.Document{}, err
	}
	if len(items) == 0 {
		return document.Document{}, document.ErrNotFound
	}
	return items[0], nil
}

func (r *DocumentRepository) Create(ctx context.Context, d document.Document) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return document.Document{}, err
	}
	row := toDBDocument(d)
	row.TenantID = tenantID.String()
	err = tx.QueryRow(ctx, insertDocumentQuery,
		tenantID,
		row.OwnerType,
		d.OwnerID(),
		row.Name,
		row.MimeType,
		row.Size,
		row.SHA256,
		row.UploadedBy,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return document.Document{}, fmt.Errorf("create evidence document: %w", err)
	}
	return toDomainDocument(row)
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteDocumentQuery, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete evidence document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) CountByHash(ctx context.Context, hash string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countByHashQuery, tenantID, hash).Scan(&count); err != nil {
		return 0, fmt.Errorf("count evidence by hash: %w", err)
	}
	return count, nil
}

func (r *DocumentRepository) query(ctx context.Context, query string, args ...any) ([]document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evidence documents: %w", err)
	}
	defer rows.Close()

	items := make([]document.Document, 0)
	for rows.Next() {
		var row models.Document
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.OwnerType,
			&row.OwnerID,
			&row.Name,
			&row.MimeType,
			&row.Size,
			&row.SHA256,
			&row.UploadedBy,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evidence document: %w", err)
		}
		d, err := toDomainDocument(row)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence documents: %w", err)
	}
	return items, nil
}
