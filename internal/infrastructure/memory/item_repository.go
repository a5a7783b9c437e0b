// Package memory implementa ItemRepository en memoria del proceso.
// Útil para desarrollo local (STORE_DRIVER=memory) y para pruebas; no persiste nada.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/items-api/internal/domain"
	"github.com/jhoicas/items-api/internal/domain/entity"
	"github.com/jhoicas/items-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

type itemKey struct {
	id           string
	partitionKey string
}

// ItemRepo guarda los documentos indexados por (id, clave de partición), igual que el backend real.
type ItemRepo struct {
	mu                sync.RWMutex
	partitionKeyField string
	items             map[itemKey]entity.Item
	order             []itemKey
}

// NewItemRepository construye el repositorio vacío.
func NewItemRepository(partitionKeyField string) *ItemRepo {
	return &ItemRepo{
		partitionKeyField: partitionKeyField,
		items:             make(map[itemKey]entity.Item),
	}
}

// Create inserta el documento. Falla con domain.ErrDuplicate si ya existe.
func (r *ItemRepo) Create(_ context.Context, item entity.Item) (entity.Item, error) {
	key := itemKey{id: item.ID(), partitionKey: item.PartitionKey(r.partitionKeyField)}
	if key.id == "" {
		return nil, fmt.Errorf("insert item: el documento no tiene %q", entity.FieldID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return nil, fmt.Errorf("insert item %s: %w", key.id, domain.ErrDuplicate)
	}
	r.items[key] = item.Merge(nil)
	r.order = append(r.order, key)
	return item.Merge(nil), nil
}

// Read devuelve una copia del documento o nil, nil si no existe.
func (r *ItemRepo) Read(_ context.Context, id, partitionKey string) (entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemKey{id: id, partitionKey: partitionKey}]
	if !ok {
		return nil, nil
	}
	return item.Merge(nil), nil
}

// ReadAll devuelve todos los documentos en orden de inserción.
func (r *ItemRepo) ReadAll(_ context.Context) ([]entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]entity.Item, 0, len(r.order))
	for _, key := range r.order {
		list = append(list, r.items[key].Merge(nil))
	}
	return list, nil
}

// Replace sobrescribe el documento completo.
func (r *ItemRepo) Replace(_ context.Context, id, partitionKey string, item entity.Item) (entity.Item, error) {
	key := itemKey{id: id, partitionKey: partitionKey}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return nil, fmt.Errorf("replace item %s: %w", id, domain.ErrNotFound)
	}
	r.items[key] = item.Merge(nil)
	return item.Merge(nil), nil
}

// Delete elimina el documento.
func (r *ItemRepo) Delete(_ context.Context, id, partitionKey string) error {
	key := itemKey{id: id, partitionKey: partitionKey}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return fmt.Errorf("delete item %s: %w", id, domain.ErrNotFound)
	}
	delete(r.items, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
