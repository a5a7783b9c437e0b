package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/items-api/internal/domain/entity"
	"github.com/jhoicas/items-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para items. Cada operación reenvía a una llamada del repositorio.
type ItemUseCase struct {
	repo              repository.ItemRepository
	partitionKeyField string
}

// NewItemUseCase construye el caso de uso. partitionKeyField es el campo del documento
// que el backend usa como clave de partición (ej. "categoryId").
func NewItemUseCase(repo repository.ItemRepository, partitionKeyField string) *ItemUseCase {
	return &ItemUseCase{repo: repo, partitionKeyField: partitionKeyField}
}

// PartitionKeyField devuelve el nombre del campo de partición configurado.
func (uc *ItemUseCase) PartitionKeyField() string {
	return uc.partitionKeyField
}

// Create inserta un nuevo item tal cual llega. Si el documento no trae id se le asigna un UUID,
// igual que hace el SDK de Cosmos DB del lado del cliente.
func (uc *ItemUseCase) Create(ctx context.Context, item entity.Item) (entity.Item, error) {
	if item.ID() == "" {
		item = item.Merge(entity.Item{entity.FieldID: uuid.NewString()})
	}
	return uc.repo.Create(ctx, item)
}

// GetByID obtiene un item por ID y clave de partición. Devuelve nil, nil si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id, partitionKey string) (entity.Item, error) {
	return uc.repo.Read(ctx, id, partitionKey)
}

// List devuelve todos los items del contenedor.
func (uc *ItemUseCase) List(ctx context.Context) ([]entity.Item, error) {
	items, err := uc.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.Item{}
	}
	return items, nil
}

// Update lee el item existente, mezcla superficialmente patch encima y reemplaza el documento.
// La clave de partición se toma del propio patch y el id siempre es el de la ruta.
// Devuelve nil, nil si el original no existe.
//
// No hay control de concurrencia entre la lectura y la escritura: dos updates simultáneos
// sobre el mismo item se pisan (gana la última escritura).
func (uc *ItemUseCase) Update(ctx context.Context, id string, patch entity.Item) (entity.Item, error) {
	partitionKey := patch.PartitionKey(uc.partitionKeyField)
	existing, err := uc.repo.Read(ctx, id, partitionKey)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	merged := existing.Merge(patch)
	// el documento sigue identificado por el id de la ruta aunque el cuerpo traiga otro
	merged[entity.FieldID] = id
	return uc.repo.Replace(ctx, id, partitionKey, merged)
}

// Delete elimina un item por ID y clave de partición.
func (uc *ItemUseCase) Delete(ctx context.Context, id, partitionKey string) error {
	return uc.repo.Delete(ctx, id, partitionKey)
}
