package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/models"
	"github.com/evolucion-dental/api-catalogo/internal/repository"
	"github.com/evolucion-dental/api-catalogo/internal/service/catalog"
	"github.com/evolucion-dental/api-catalogo/internal/service/chat"
	"github.com/evolucion-dental/api-catalogo/internal/service/formatter"
	"github.com/evolucion-dental/api-catalogo/internal/service/llm"
	"github.com/evolucion-dental/api-catalogo/internal/service/orders"
	"github.com/evolucion-dental/api-catalogo/internal/service/prompt"
	"github.com/evolucion-dental/api-catalogo/internal/service/settings"
	"github.com/evolucion-dental/api-catalogo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publicBase = "https://ref.supabase.co/storage/v1/object/public/catalogos"

type recordingCompleter struct {
	reply  string
	system string
	calls  int
}

func (c *recordingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.calls++
	c.system = system
	return c.reply, nil
}

type env struct {
	router    http.Handler
	store     *repository.MemoryObjectStore
	completer *recordingCompleter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenTestDB(t)
	store := repository.NewMemoryObjectStore(publicBase, config.DefaultBucket)

	products := catalog.NewProductService(db, store, nil, nil)
	attachments := catalog.NewAttachmentService(db, store, nil, nil, 0, nil)
	rules := orders.NewOrderService(db, nil, nil)
	settingsSvc := settings.NewSettingsService(db)
	status := settings.NewStatus(settingsSvc, nil)

	completer := &recordingCompleter{reply: "respuesta"}
	invoker := llm.NewInvoker(completer, config.LLMConfig{Timeout: time.Second, RetryDelay: time.Millisecond}, nil)
	assembler := prompt.NewAssembler(products, rules, status, nil)
	f := formatter.New(attachments, formatter.Options{Policy: formatter.Strict, PublicBase: publicBase}, nil)

	router := NewRouter(Deps{
		DB:          db,
		Products:    products,
		Attachments: attachments,
		Orders:      rules,
		Settings:    settingsSvc,
		Status:      status,
		Chat:        chat.NewChatService(assembler, invoker, f, nil),
	})
	return &env{router: router, store: store, completer: completer}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) upload(t *testing.T, productID, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if productID != "" {
		require.NoError(t, mw.WriteField("product_id", productID))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, AttachmentsBasePath, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var pngImage = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, HealthPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())
}

func TestProducts_CRUD(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, ProductsBasePath, dto.ProductInput{Nombre: "Sillón Pro", Categoria: "chair", Precio: testutil.Ptr(12000.0), Stock: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	assert.Equal(t, models.CategoryChair, created.Categoria)

	rec = e.do(t, http.MethodPost, ProductsBasePath, dto.ProductInput{Nombre: "X", Categoria: "impresora"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[dto.ErrorResponse](t, rec).Error, "categor")

	rec = e.do(t, http.MethodGet, ProductsBasePath+"/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sillón Pro", decode[models.Product](t, rec).Nombre)

	rec = e.do(t, http.MethodPut, ProductsBasePath+"/"+created.ID.String(), dto.ProductInput{Nombre: "Sillón Pro 2", Categoria: "sillon", Stock: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Product](t, rec)
	assert.Nil(t, updated.Precio)
	assert.Zero(t, updated.Stock)

	rec = e.do(t, http.MethodGet, ProductsBasePath+"?category=sillon&page=1&size=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[dto.Page[models.Product]](t, rec)
	assert.EqualValues(t, 1, page.Total)

	rec = e.do(t, http.MethodGet, ProductsBasePath+"/no-es-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodDelete, ProductsBasePath+"/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodGet, ProductsBasePath+"/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachments_UploadListDelete(t *testing.T) {
	e := newEnv(t)
	p := decode[models.Product](t, e.do(t, http.MethodPost, ProductsBasePath, dto.ProductInput{Nombre: "Escáner", Categoria: "escaner"}))

	rec := e.upload(t, p.ID.String(), "Foto Frontal.PNG", pngImage)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a := decode[models.Attachment](t, rec)
	assert.Equal(t, models.AttachmentImage, a.Tipo)
	assert.True(t, strings.HasPrefix(a.URL, publicBase+"/"+p.ID.String()+"/"))
	assert.Equal(t, 1, e.store.Len())

	rec = e.upload(t, "", "notas.txt", []byte("texto plano"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.upload(t, "zzz", "foto.png", pngImage)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, AttachmentsBasePath+"?product_id="+p.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[dto.Page[models.Attachment]](t, rec).Total)

	rec = e.do(t, http.MethodDelete, AttachmentsBasePath+"/"+a.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, e.store.Len())
}

func TestOrders_Flow(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, OrdersBasePath, dto.OrderInput{Contenido: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, OrdersBasePath, dto.OrderInput{Contenido: " Sin descuentos hoy "})
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[models.Order](t, rec)
	assert.True(t, o.Activa)
	assert.Equal(t, "Sin descuentos hoy", o.Contenido)

	rec = e.do(t, http.MethodPost, OrdersBasePath+"/"+o.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Order](t, rec).Activa)

	rec = e.do(t, http.MethodGet, AgentBasePath+"/prompt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[dto.PromptPreviewDto](t, rec)
	assert.Zero(t, preview.ActiveOrders)
	assert.NotContains(t, preview.Prompt, "Sin descuentos hoy")

	rec = e.do(t, http.MethodDelete, OrdersBasePath+"/"+o.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, decode[[]models.Order](t, e.do(t, http.MethodGet, OrdersBasePath, nil)))
}

func TestSettingsAndAgentStatus(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, AgentBasePath+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[dto.AgentStatusDto](t, rec).Enabled)

	rec = e.do(t, http.MethodPut, AgentBasePath+"/status", dto.AgentStatusDto{Enabled: false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, SettingsBasePath+"/"+models.SettingAgentActive, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "false", string(decode[dto.SettingDto](t, rec).Value))

	rec = e.do(t, http.MethodPost, ChatBasePath, dto.ChatRequest{Message: "hola"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prompt.ReceptionOnlyPrompt, e.completer.system)

	rec = e.do(t, http.MethodPut, SettingsBasePath+"/saludo", map[string]interface{}{"value": "Bienvenido"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, SettingsBasePath, nil)
	all := decode[map[string]json.RawMessage](t, rec)
	assert.JSONEq(t, `"Bienvenido"`, string(all["saludo"]))

	rec = e.do(t, http.MethodDelete, SettingsBasePath+"/saludo", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = e.do(t, http.MethodGet, SettingsBasePath+"/saludo", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_FormatsAndValidatesLinks(t *testing.T) {
	e := newEnv(t)
	p := decode[models.Product](t, e.do(t, http.MethodPost, ProductsBasePath, dto.ProductInput{Nombre: "Sillón Pro", Categoria: "sillon", Precio: testutil.Ptr(12000.0)}))
	a := decode[models.Attachment](t, e.upload(t, p.ID.String(), "foto.png", pngImage))

	e.completer.reply = "**el sillón** cuesta $12000. Foto: " + a.URL + " y manual: " + publicBase + "/inventado.pdf"
	rec := e.do(t, http.MethodPost, ChatBasePath, dto.ChatRequest{Message: "precio del sillón"})
	require.Equal(t, http.StatusOK, rec.Code)

	reply := decode[dto.ChatResponse](t, rec).Reply
	assert.Equal(t, "El sillón cuesta $12.000. Foto: "+a.URL+" y manual: "+formatter.Placeholder, reply)
	assert.Contains(t, e.completer.system, "PRODUCTO: Sillón Pro")
	assert.Contains(t, e.completer.system, a.URL+" (Imagen)")

	rec = e.do(t, http.MethodPost, ChatBasePath, dto.ChatRequest{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, e.completer.calls)
}

func TestChat_Intent(t *testing.T) {
	e := newEnv(t)
	e.completer.reply = "VENTA"
	rec := e.do(t, http.MethodPost, ChatBasePath+"/intent", dto.ChatRequest{Message: "quiero comprar un sillón"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "VENTA", decode[dto.IntentResponse](t, rec).Intent)
}
