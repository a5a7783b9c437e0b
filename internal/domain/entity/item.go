package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FieldID es el campo identificador de todo documento.
const FieldID = "id"

// Item representa un documento JSON arbitrario. Solo id y la clave de partición tienen
// significado para el sistema; el resto se reenvía tal cual a la base de datos.
type Item map[string]any

// ID devuelve el identificador del documento ("" si no existe).
func (i Item) ID() string {
	return i.stringField(FieldID)
}

// PartitionKey devuelve el valor del campo usado como clave de partición.
func (i Item) PartitionKey(field string) string {
	return i.stringField(field)
}

func (i Item) stringField(name string) string {
	v, ok := i[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Merge devuelve un nuevo Item: copia superficial del receptor con los campos de patch encima.
// Los campos que no vienen en patch se conservan.
func (i Item) Merge(patch Item) Item {
	merged := make(Item, len(i)+len(patch))
	for k, v := range i {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// DecodeItem parsea un objeto JSON conservando los números como json.Number.
// Un cuerpo vacío equivale a {}; cualquier dato después del objeto es un error.
func DecodeItem(data []byte) (Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Item{}, nil
	}
	var item Item
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&item); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("documento vacío: se esperaba un objeto JSON")
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("datos inesperados después del objeto JSON")
	}
	return item, nil
}
