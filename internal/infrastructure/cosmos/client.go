// Package cosmos implementa ItemRepository sobre Azure Cosmos DB (API NoSQL) usando el SDK azcosmos.
package cosmos

import (
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/jhoicas/items-api/pkg/config"
)

// NewContainer construye el cliente del contenedor a partir de endpoint, key, base de datos y contenedor.
// El cliente es seguro para uso concurrente y se comparte durante toda la vida del proceso.
func NewContainer(cfg config.CosmosConfig) (*azcosmos.ContainerClient, error) {
	return newContainer(cfg, nil)
}

func newContainer(cfg config.CosmosConfig, opts *azcosmos.ClientOptions) (*azcosmos.ContainerClient, error) {
	if cfg.Endpoint == "" || cfg.Key == "" {
		return nil, errors.New("COSMOS_ENDPOINT y COSMOS_KEY son requeridos")
	}
	cred, err := azcosmos.NewKeyCredential(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("credencial Cosmos: %w", err)
	}
	client, err := azcosmos.NewClientWithKey(cfg.Endpoint, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("crear cliente Cosmos: %w", err)
	}
	container, err := client.NewContainer(cfg.DatabaseID, cfg.ContainerID)
	if err != nil {
		return nil, fmt.Errorf("contenedor %s/%s: %w", cfg.DatabaseID, cfg.ContainerID, err)
	}
	return container, nil
}
