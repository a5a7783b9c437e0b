package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados (STORE_DRIVER).
const (
	DriverCosmos   = "cosmos"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	Cosmos CosmosConfig
	Mongo  MongoConfig
	DB     DBConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selecciona el backend de documentos.
type StoreConfig struct {
	Driver            string // cosmos, mongo, postgres, memory
	PartitionKeyField string // campo del documento usado como clave de partición
}

// CosmosConfig credenciales y ubicación del contenedor de Azure Cosmos DB.
type CosmosConfig struct {
	Endpoint    string
	Key         string
	DatabaseID  string
	ContainerID string
}

// MongoConfig conexión a MongoDB.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: PORT, STORE_DRIVER, COSMOS_ENDPOINT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio actual
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "items-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "PORT", 3000),
		},
		Store: StoreConfig{
			Driver:            strings.ToLower(getString(v, "STORE_DRIVER", DriverCosmos)),
			PartitionKeyField: getString(v, "ITEMS_PARTITION_KEY", "categoryId"),
		},
		Cosmos: CosmosConfig{
			Endpoint:    getString(v, "COSMOS_ENDPOINT", ""),
			Key:         getString(v, "COSMOS_KEY", ""),
			DatabaseID:  getString(v, "COSMOS_DATABASE_ID", ""),
			ContainerID: getString(v, "COSMOS_CONTAINER_ID", ""),
		},
		Mongo: MongoConfig{
			URI:        getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			Database:   getString(v, "MONGO_DATABASE", "items"),
			Collection: getString(v, "MONGO_COLLECTION", "items"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "items"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate comprueba que el backend elegido tenga lo que necesita para arrancar.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("PORT inválido: %d", c.HTTP.Port)
	}
	if c.Store.PartitionKeyField == "" {
		return errors.New("ITEMS_PARTITION_KEY no puede estar vacío")
	}
	switch c.Store.Driver {
	case DriverCosmos:
		var missing []string
		if c.Cosmos.Endpoint == "" {
			missing = append(missing, "COSMOS_ENDPOINT")
		}
		if c.Cosmos.Key == "" {
			missing = append(missing, "COSMOS_KEY")
		}
		if c.Cosmos.DatabaseID == "" {
			missing = append(missing, "COSMOS_DATABASE_ID")
		}
		if c.Cosmos.ContainerID == "" {
			missing = append(missing, "COSMOS_CONTAINER_ID")
		}
		if len(missing) > 0 {
			return fmt.Errorf("faltan variables para cosmos: %s", strings.Join(missing, ", "))
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return errors.New("MONGO_URI, MONGO_DATABASE y MONGO_COLLECTION son requeridos")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER desconocido: %q", c.Store.Driver)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}
