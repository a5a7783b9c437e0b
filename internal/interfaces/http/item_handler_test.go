package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/items-api/internal/application/usecase"
	"github.com/jhoicas/items-api/internal/domain/entity"
	"github.com/jhoicas/items-api/internal/domain/repository"
	"github.com/jhoicas/items-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/items-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testAppName = "items-api-test"
	testPKField = "categoryId"
)

// buildTestApp arma la aplicación completa (middlewares + router) sobre el repositorio dado.
func buildTestApp(repo repository.ItemRepository) *fiber.App {
	nop := zerolog.Nop()
	app := apphttp.NewApp(testAppName, &nop)
	apphttp.Router(app, apphttp.RouterDeps{
		AppName: testAppName,
		ItemUC:  usecase.NewItemUseCase(repo, testPKField),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func decodeObject(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body), "respuesta: %s", raw)
	return body
}

// failingRepo simula una base de datos que rechaza todas las operaciones.
type failingRepo struct {
	err error
}

func (f failingRepo) Create(context.Context, entity.Item) (entity.Item, error) { return nil, f.err }
func (f failingRepo) Read(context.Context, string, string) (entity.Item, error) {
	return nil, f.err
}
func (f failingRepo) ReadAll(context.Context) ([]entity.Item, error) { return nil, f.err }
func (f failingRepo) Replace(context.Context, string, string, entity.Item) (entity.Item, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, string, string) error { return f.err }

// panicRepo simula un fallo inesperado dentro del cliente de base de datos.
type panicRepo struct {
	failingRepo
}

func (panicRepo) ReadAll(context.Context) ([]entity.Item, error) { panic("cliente corrupto") }

// ──────────────────────────────────────────────────────────────────────────────
// Rutas CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Retorna201YLeeElMismoDocumento(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	doc := `{"id":"p1","categoryId":"utiles","name":"Lápiz","price":1200,"tags":["hb"],"dims":{"l":17.5}}`

	status, created := doRequest(t, app, http.MethodPost, "/items", doc)
	require.Equal(t, http.StatusCreated, status, created)
	assert.JSONEq(t, doc, created)

	status, read := doRequest(t, app, http.MethodGet, "/items/p1?categoryId=utiles", "")
	require.Equal(t, http.StatusOK, status, read)
	assert.JSONEq(t, doc, read, "la lectura debe devolver el documento creado")
}

func TestCreate_DuplicadoRetorna500(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	doc := `{"id":"p1","categoryId":"utiles"}`

	status, _ := doRequest(t, app, http.MethodPost, "/items", doc)
	require.Equal(t, http.StatusCreated, status)

	status, raw := doRequest(t, app, http.MethodPost, "/items", doc)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, decodeObject(t, raw)["error"], "already exists")
}

func TestCreate_CuerpoMalformadoRetorna500(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodPost, "/items", `{"id":`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotEmpty(t, decodeObject(t, raw)["error"])
}

func TestGetByID_InexistenteRetorna404(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodGet, "/items/nada?categoryId=utiles", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Item not found"}`, raw)
}

func TestList_DevuelveArreglo(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, raw, "sin items la respuesta es un arreglo vacío")

	doRequest(t, app, http.MethodPost, "/items", `{"id":"a","categoryId":"x"}`)
	doRequest(t, app, http.MethodPost, "/items", `{"id":"b","categoryId":"y"}`)

	status, raw = doRequest(t, app, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":"a","categoryId":"x"},{"id":"b","categoryId":"y"}]`, raw)
}

func TestUpdate_MergeParcial(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	status, _ := doRequest(t, app, http.MethodPost, "/items",
		`{"id":"p1","categoryId":"utiles","name":"Lápiz","color":"rojo","stock":10}`)
	require.Equal(t, http.StatusCreated, status)

	status, raw := doRequest(t, app, http.MethodPut, "/items/p1", `{"categoryId":"utiles","stock":8,"brand":"Norma"}`)
	require.Equal(t, http.StatusOK, status, raw)

	expected := `{"id":"p1","categoryId":"utiles","name":"Lápiz","color":"rojo","stock":8,"brand":"Norma"}`
	assert.JSONEq(t, expected, raw)

	_, read := doRequest(t, app, http.MethodGet, "/items/p1?categoryId=utiles", "")
	assert.JSONEq(t, expected, read, "el merge debe quedar persistido")
}

func TestUpdate_InexistenteRetorna404(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodPut, "/items/nada", `{"categoryId":"utiles","name":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Item not found"}`, raw)
}

func TestDelete_LuegoLeerRetorna404(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	doRequest(t, app, http.MethodPost, "/items", `{"id":"p1","categoryId":"utiles"}`)

	status, raw := doRequest(t, app, http.MethodDelete, "/items/p1?categoryId=utiles", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Item with id p1 deleted successfully"}`, raw)

	status, _ = doRequest(t, app, http.MethodGet, "/items/p1?categoryId=utiles", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDelete_InexistenteRetorna500(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodDelete, "/items/nada?categoryId=utiles", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, decodeObject(t, raw)["error"], "not found")
}

func TestIDCodificadoEnURL(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	doRequest(t, app, http.MethodPost, "/items", `{"id":"a b","categoryId":"c d"}`)

	status, raw := doRequest(t, app, http.MethodGet, "/items/a%20b?categoryId=c%20d", "")
	assert.Equal(t, http.StatusOK, status, raw)
}

func TestIDConBarraCodificada(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	status, _ := doRequest(t, app, http.MethodPost, "/items", `{"id":"a/b","categoryId":"c"}`)
	require.Equal(t, http.StatusCreated, status)

	status, raw := doRequest(t, app, http.MethodGet, "/items/a%2Fb?categoryId=c", "")
	require.Equal(t, http.StatusOK, status, raw)
	assert.Equal(t, "a/b", decodeObject(t, raw)["id"])

	status, raw = doRequest(t, app, http.MethodPut, "/items/a%2Fb", `{"categoryId":"c","name":"x"}`)
	require.Equal(t, http.StatusOK, status, raw)
	assert.JSONEq(t, `{"id":"a/b","categoryId":"c","name":"x"}`, raw)

	status, raw = doRequest(t, app, http.MethodDelete, "/items/a%2Fb?categoryId=c", "")
	require.Equal(t, http.StatusOK, status, raw)
	assert.JSONEq(t, `{"message":"Item with id a/b deleted successfully"}`, raw)
}

func TestCreate_CuerpoConBasuraFinalRetorna500(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodPost, "/items", `{"id":"g","categoryId":"c"}garbage`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotEmpty(t, decodeObject(t, raw)["error"])

	_, list := doRequest(t, app, http.MethodGet, "/items", "")
	assert.JSONEq(t, `[]`, list, "no se inserta nada")
}

func TestCreate_CuerpoVacioGeneraID(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodPost, "/items", "")
	require.Equal(t, http.StatusCreated, status, raw)
	id, _ := decodeObject(t, raw)["id"].(string)
	assert.Len(t, id, 36)
}

func TestUpdate_IDDelCuerpoNoCambiaElDocumento(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))
	doRequest(t, app, http.MethodPost, "/items", `{"id":"p1","categoryId":"utiles"}`)

	status, raw := doRequest(t, app, http.MethodPut, "/items/p1", `{"id":"otro","categoryId":"utiles"}`)
	require.Equal(t, http.StatusOK, status, raw)
	assert.Equal(t, "p1", decodeObject(t, raw)["id"])

	_, read := doRequest(t, app, http.MethodGet, "/items/p1?categoryId=utiles", "")
	assert.JSONEq(t, `{"id":"p1","categoryId":"utiles"}`, read)

	status, _ = doRequest(t, app, http.MethodGet, "/items/otro?categoryId=utiles", "")
	assert.Equal(t, http.StatusNotFound, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas no registradas y fallos del backend
// ──────────────────────────────────────────────────────────────────────────────

func TestRutaNoRegistrada_Retorna404(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	cases := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/productos"},
		{http.MethodPatch, "/items/p1"},
		{http.MethodPost, "/items/p1"},
		{http.MethodGet, "/items/p1/extra"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			status, raw := doRequest(t, app, tc.method, tc.target, "")
			assert.Equal(t, http.StatusNotFound, status)
			assert.JSONEq(t, `{"error":"Route not found"}`, raw)
		})
	}
}

func TestFalloDeBaseDeDatos_Retorna500ConMensaje(t *testing.T) {
	app := buildTestApp(failingRepo{err: errors.New("Request rate is large")})

	cases := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/items", `{"id":"p1","categoryId":"c"}`},
		{http.MethodGet, "/items/p1?categoryId=c", ""},
		{http.MethodGet, "/items", ""},
		{http.MethodPut, "/items/p1", `{"categoryId":"c"}`},
		{http.MethodDelete, "/items/p1?categoryId=c", ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			status, raw := doRequest(t, app, tc.method, tc.target, tc.body)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.JSONEq(t, `{"error":"Request rate is large"}`, raw)
		})
	}
}

func TestPanicEnBackend_Retorna500SinTumbarElProceso(t *testing.T) {
	app := buildTestApp(panicRepo{failingRepo{err: errors.New("x")}})

	status, raw := doRequest(t, app, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"cliente corrupto"}`, raw)

	// la aplicación sigue atendiendo
	status, _ = doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestHealth(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	status, raw := doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","service":"items-api-test"}`, raw)
}

func TestRequestID(t *testing.T) {
	app := buildTestApp(memory.NewItemRepository(testPKField))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}
