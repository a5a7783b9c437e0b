package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/jhoicas/items-api/internal/domain"
	"github.com/jhoicas/items-api/internal/domain/entity"
	"github.com/jhoicas/items-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const selectAllQuery = "SELECT * FROM c"

// ItemRepo implementación del puerto ItemRepository sobre un contenedor de Cosmos DB.
type ItemRepo struct {
	container         *azcosmos.ContainerClient
	partitionKeyField string
}

// NewItemRepository construye el adaptador. partitionKeyField es el campo del documento
// que coincide con la ruta de partición del contenedor (ej. "categoryId" para /categoryId).
func NewItemRepository(container *azcosmos.ContainerClient, partitionKeyField string) *ItemRepo {
	return &ItemRepo{container: container, partitionKeyField: partitionKeyField}
}

// writeOptions pide al servicio que devuelva el documento escrito (por defecto la respuesta viene vacía).
func writeOptions() *azcosmos.ItemOptions {
	return &azcosmos.ItemOptions{EnableContentResponseOnWrite: true}
}

// Create inserta el documento en el contenedor.
func (r *ItemRepo) Create(ctx context.Context, item entity.Item) (entity.Item, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("serializar item: %w", err)
	}
	pk := azcosmos.NewPartitionKeyString(item.PartitionKey(r.partitionKeyField))
	resp, err := r.container.CreateItem(ctx, pk, body, writeOptions())
	if err != nil {
		if hasStatus(err, http.StatusConflict) {
			return nil, fmt.Errorf("insert item %s: %w", item.ID(), domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return decodeResponse(resp.Value, item)
}

// Read hace una lectura puntual. Un 404 del servicio se traduce en nil, nil.
func (r *ItemRepo) Read(ctx context.Context, id, partitionKey string) (entity.Item, error) {
	resp, err := r.container.ReadItem(ctx, azcosmos.NewPartitionKeyString(partitionKey), id, nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read item: %w", err)
	}
	return entity.DecodeItem(resp.Value)
}

// ReadAll ejecuta "SELECT * FROM c" sobre todas las particiones y recorre todas las páginas.
func (r *ItemRepo) ReadAll(ctx context.Context) ([]entity.Item, error) {
	pager := r.container.NewQueryItemsPager(selectAllQuery, azcosmos.NewPartitionKey(), nil)
	list := make([]entity.Item, 0)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query items: %w", err)
		}
		for _, raw := range page.Items {
			item, err := entity.DecodeItem(raw)
			if err != nil {
				return nil, fmt.Errorf("decode item: %w", err)
			}
			list = append(list, item)
		}
	}
	return list, nil
}

// Replace sobrescribe el documento completo.
func (r *ItemRepo) Replace(ctx context.Context, id, partitionKey string, item entity.Item) (entity.Item, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("serializar item: %w", err)
	}
	resp, err := r.container.ReplaceItem(ctx, azcosmos.NewPartitionKeyString(partitionKey), id, body, writeOptions())
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("replace item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("replace item: %w", err)
	}
	return decodeResponse(resp.Value, item)
}

// Delete elimina el documento.
func (r *ItemRepo) Delete(ctx context.Context, id, partitionKey string) error {
	_, err := r.container.DeleteItem(ctx, azcosmos.NewPartitionKeyString(partitionKey), id, nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return fmt.Errorf("delete item %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// hasStatus indica si err es una respuesta HTTP del servicio con el código dado.
func hasStatus(err error, status int) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == status
	}
	return false
}

// decodeResponse parsea el cuerpo devuelto por una escritura; si el servicio no devolvió
// contenido se usa el documento enviado.
func decodeResponse(value []byte, sent entity.Item) (entity.Item, error) {
	if len(value) == 0 {
		return sent, nil
	}
	item, err := entity.DecodeItem(value)
	if err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}
