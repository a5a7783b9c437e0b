package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/items-api/internal/domain/entity"
)

func TestItem_IDYPartitionKey(t *testing.T) {
	item := entity.Item{"id": "a1", "categoryId": "libros", "stock": json.Number("7")}

	assert.Equal(t, "a1", item.ID())
	assert.Equal(t, "libros", item.PartitionKey("categoryId"))
	assert.Equal(t, "7", item.PartitionKey("stock"), "los escalares no string se formatean")
	assert.Equal(t, "", item.PartitionKey("noExiste"))
	assert.Equal(t, "", entity.Item{"id": nil}.ID())
}

func TestItem_MergeSuperficial(t *testing.T) {
	existing := entity.Item{
		"id":         "a1",
		"categoryId": "libros",
		"name":       "Cuaderno",
		"tags":       []any{"papel"},
		"dims":       map[string]any{"w": 10, "h": 20},
	}
	patch := entity.Item{
		"categoryId": "libros",
		"name":       "Cuaderno A4",
		"dims":       map[string]any{"w": 21},
	}

	merged := existing.Merge(patch)

	assert.Equal(t, "Cuaderno A4", merged["name"], "los campos del patch sobrescriben")
	assert.Equal(t, []any{"papel"}, merged["tags"], "los campos ausentes se conservan")
	assert.Equal(t, map[string]any{"w": 21}, merged["dims"], "el merge es solo de primer nivel")
	assert.Equal(t, "Cuaderno", existing["name"], "el receptor no se modifica")
}

func TestItem_MergeNilCopia(t *testing.T) {
	original := entity.Item{"id": "a1"}
	copied := original.Merge(nil)
	copied["id"] = "b2"

	assert.Equal(t, "a1", original.ID())
}

func TestDecodeItem_ConservaNumeros(t *testing.T) {
	item, err := entity.DecodeItem([]byte(`{"id":"a1","big":9007199254740993}`))
	require.NoError(t, err)

	assert.Equal(t, json.Number("9007199254740993"), item["big"])

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a1","big":9007199254740993}`, string(out))
}

func TestDecodeItem_Errores(t *testing.T) {
	cases := map[string]string{
		"json inválido": `{"id":`,
		"null":          `null`,
		"arreglo":       `[1,2]`,
		"basura final":  `{"id":"g","categoryId":"c"}garbage`,
		"dos objetos":   `{"id":"a"} {"id":"b"}`,
		"llave extra":   `{"id":"a"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := entity.DecodeItem([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestDecodeItem_CuerpoVacioEsObjetoVacio(t *testing.T) {
	for _, body := range []string{``, "  \n"} {
		item, err := entity.DecodeItem([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, entity.Item{}, item)
	}
}

func TestDecodeItem_EspaciosFinalesPermitidos(t *testing.T) {
	item, err := entity.DecodeItem([]byte("{\"id\":\"a1\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "a1", item.ID())
}
