package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/items-api/internal/domain"
	"github.com/jhoicas/items-api/internal/domain/entity"
	"github.com/jhoicas/items-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const objectIDField = "_id"

// ItemRepo implementación del puerto ItemRepository sobre una colección de MongoDB.
// La identidad de un documento es el par (id, clave de partición), como en Cosmos DB.
type ItemRepo struct {
	coll              *mongo.Collection
	partitionKeyField string
}

// NewItemRepository construye el adaptador sobre la colección indicada.
func NewItemRepository(coll *mongo.Collection, partitionKeyField string) *ItemRepo {
	return &ItemRepo{coll: coll, partitionKeyField: partitionKeyField}
}

// EnsureIndexes crea el índice único (id, clave de partición) si no existe.
func (r *ItemRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: entity.FieldID, Value: 1}, {Key: r.partitionKeyField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_partition_key"),
	})
	if err != nil {
		return fmt.Errorf("crear índice: %w", err)
	}
	return nil
}

// Create inserta el documento.
func (r *ItemRepo) Create(ctx context.Context, item entity.Item) (entity.Item, error) {
	if _, err := r.coll.InsertOne(ctx, toDocument(item)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("insert item %s: %w", item.ID(), domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// Read obtiene un documento por id y clave de partición. Devuelve nil, nil si no existe.
func (r *ItemRepo) Read(ctx context.Context, id, partitionKey string) (entity.Item, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, r.filter(id, partitionKey)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("read item: %w", err)
	}
	return fromDocument(doc), nil
}

// ReadAll devuelve todos los documentos de la colección.
func (r *ItemRepo) ReadAll(ctx context.Context) ([]entity.Item, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetProjection(bson.M{objectIDField: 0}))
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	list := make([]entity.Item, 0, len(docs))
	for _, doc := range docs {
		list = append(list, fromDocument(doc))
	}
	return list, nil
}

// Replace sobrescribe el documento completo (conserva el _id interno).
func (r *ItemRepo) Replace(ctx context.Context, id, partitionKey string, item entity.Item) (entity.Item, error) {
	res, err := r.coll.ReplaceOne(ctx, r.filter(id, partitionKey), toDocument(item))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("replace item %s: %w", id, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("replace item: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("replace item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// Delete elimina el documento.
func (r *ItemRepo) Delete(ctx context.Context, id, partitionKey string) error {
	res, err := r.coll.DeleteOne(ctx, r.filter(id, partitionKey))
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *ItemRepo) filter(id, partitionKey string) bson.D {
	return bson.D{{Key: entity.FieldID, Value: id}, {Key: r.partitionKeyField, Value: partitionKey}}
}

// toDocument copia el item a un bson.M sin el _id interno de MongoDB.
func toDocument(item entity.Item) bson.M {
	doc := make(bson.M, len(item))
	for k, v := range item {
		if k == objectIDField {
			continue
		}
		doc[k] = v
	}
	return doc
}

// fromDocument convierte un documento leído en Item, descartando el _id interno.
func fromDocument(doc bson.M) entity.Item {
	item := make(entity.Item, len(doc))
	for k, v := range doc {
		if k == objectIDField {
			continue
		}
		item[k] = v
	}
	return item
}
