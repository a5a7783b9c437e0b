package repository

import (
	"context"

	"github.com/jhoicas/items-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Cada backend (Cosmos DB, MongoDB, PostgreSQL, memoria) lo implementa.
type ItemRepository interface {
	// Create inserta el documento y devuelve lo que quedó almacenado.
	Create(ctx context.Context, item entity.Item) (entity.Item, error)
	// Read hace una lectura puntual por id y clave de partición. Devuelve nil, nil si no existe.
	Read(ctx context.Context, id, partitionKey string) (entity.Item, error)
	// ReadAll ejecuta la consulta sin filtro sobre todo el contenedor.
	ReadAll(ctx context.Context) ([]entity.Item, error)
	// Replace sobrescribe el documento completo. domain.ErrNotFound si no existe.
	Replace(ctx context.Context, id, partitionKey string, item entity.Item) (entity.Item, error)
	// Delete elimina por id y clave de partición. domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id, partitionKey string) error
}
