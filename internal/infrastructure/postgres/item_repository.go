package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/items-api/internal/domain"
	"github.com/jhoicas/items-api/internal/domain/entity"
	"github.com/jhoicas/items-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre una tabla JSONB (usable con pool o tx).
type ItemRepo struct {
	q                 Querier
	partitionKeyField string
}

// NewItemRepository construye el adaptador de persistencia para items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier, partitionKeyField string) *ItemRepo {
	return &ItemRepo{q: q, partitionKeyField: partitionKeyField}
}

// Create persiste un nuevo documento.
func (r *ItemRepo) Create(ctx context.Context, item entity.Item) (entity.Item, error) {
	doc, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("serializar item: %w", err)
	}
	query := `
		INSERT INTO items (id, partition_key, document)
		VALUES ($1, $2, $3)
		RETURNING document`
	var stored []byte
	err = r.q.QueryRow(ctx, query, item.ID(), item.PartitionKey(r.partitionKeyField), doc).Scan(&stored)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert item %s: %w", item.ID(), domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return entity.DecodeItem(stored)
}

// Read obtiene un documento por id y clave de partición.
func (r *ItemRepo) Read(ctx context.Context, id, partitionKey string) (entity.Item, error) {
	query := `SELECT document FROM items WHERE id = $1 AND partition_key = $2`
	var doc []byte
	err := r.q.QueryRow(ctx, query, id, partitionKey).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return entity.DecodeItem(doc)
}

// ReadAll lista todos los documentos sin filtro.
func (r *ItemRepo) ReadAll(ctx context.Context) ([]entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT document FROM items`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Item, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item, err := entity.DecodeItem(doc)
		if err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Replace sobrescribe el documento completo.
func (r *ItemRepo) Replace(ctx context.Context, id, partitionKey string, item entity.Item) (entity.Item, error) {
	doc, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("serializar item: %w", err)
	}
	query := `
		UPDATE items SET document = $3
		WHERE id = $1 AND partition_key = $2
		RETURNING document`
	var stored []byte
	err = r.q.QueryRow(ctx, query, id, partitionKey, doc).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("replace item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("replace item: %w", err)
	}
	return entity.DecodeItem(stored)
}

// Delete elimina un documento por id y clave de partición.
func (r *ItemRepo) Delete(ctx context.Context, id, partitionKey string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1 AND partition_key = $2`, id, partitionKey)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
