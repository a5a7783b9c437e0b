package postgres

import (
	"context"
	"fmt"
)

// itemsSchema replica el modelo de un contenedor de documentos: clave compuesta
// (id, partition_key) y el documento completo en JSONB.
const itemsSchema = `
	CREATE TABLE IF NOT EXISTS items (
		id            TEXT  NOT NULL,
		partition_key TEXT  NOT NULL,
		document      JSONB NOT NULL,
		PRIMARY KEY (id, partition_key)
	)`

// EnsureSchema crea la tabla items si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, itemsSchema); err != nil {
		return fmt.Errorf("crear tabla items: %w", err)
	}
	return nil
}
