package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/models"
	"github.com/evolucion-dental/api-catalogo/internal/repository"
	"github.com/evolucion-dental/api-catalogo/internal/service/eventservice"
	"github.com/evolucion-dental/api-catalogo/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const publicBase = "https://abcd.supabase.co/storage/v1/object/public/catalogos"

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, []byte, string) (string, error) {
	return f.text, f.err
}

type recordingEvents struct {
	eventservice.NoopPublisher
	topics []string
}

func (r *recordingEvents) PublishProduct(_ context.Context, topic string, _ eventservice.ProductEvent) error {
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingEvents) PublishAttachment(_ context.Context, topic string, _ eventservice.AttachmentEvent) error {
	r.topics = append(r.topics, topic)
	return nil
}

type fixture struct {
	db          *gorm.DB
	store       *repository.MemoryObjectStore
	events      *recordingEvents
	products    ProductService
	attachments AttachmentService
}

func newFixture(t *testing.T, ex TextExtractor) *fixture {
	db := testutil.OpenTestDB(t)
	store := repository.NewMemoryObjectStore(publicBase, "catalogos")
	events := &recordingEvents{}
	return &fixture{
		db:          db,
		store:       store,
		events:      events,
		products:    NewProductService(db, store, events, nil),
		attachments: NewAttachmentService(db, store, ex, events, 1<<20, nil),
	}
}

func scannerInput() dto.ProductInput {
	return dto.ProductInput{
		Nombre:             "Scanner X",
		Categoria:          "scanner",
		Stock:              3,
		DescripcionTecnica: "Escáner intraoral",
	}
}

func TestProductCreateAndValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	p, err := f.products.Create(ctx, scannerInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, models.CategoryScanner, p.Categoria)
	assert.Nil(t, p.Precio)

	cases := map[string]dto.ProductInput{
		"sin nombre":      {Nombre: " ", Categoria: "sillon"},
		"categoría":       {Nombre: "X", Categoria: "autoclave"},
		"precio negativo": {Nombre: "X", Categoria: "sillon", Precio: testutil.Ptr(-1.0)},
		"stock negativo":  {Nombre: "X", Categoria: "sillon", Stock: -2},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.products.Create(ctx, in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
	assert.Equal(t, []string{eventservice.TopicProductSaved}, f.events.topics)
}

func TestProductListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for _, in := range []dto.ProductInput{
		{Nombre: "Sillón Fussen 6500", Categoria: "sillon", Precio: testutil.Ptr(12000.0)},
		{Nombre: "Sillón Kavo", Categoria: "chair"},
		{Nombre: "Scanner X", Categoria: "escaner"},
		{Nombre: "Autoclave 18L", Categoria: "equipment"},
	} {
		_, err := f.products.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := f.products.List(ctx, dto.ProductFilter{Category: "sillon", Page: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Sillón Fussen 6500", page.Data[0].Nombre)

	page, err = f.products.List(ctx, dto.ProductFilter{Category: "sillon", Page: 2, Size: 1})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Sillón Kavo", page.Data[0].Nombre)

	page, err = f.products.List(ctx, dto.ProductFilter{Query: "SCANNER"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 10, page.Size)

	_, err = f.products.List(ctx, dto.ProductFilter{Category: "nada"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProductUpdateClearsPriceAndStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	in := scannerInput()
	in.Precio = testutil.Ptr(5000.0)
	p, err := f.products.Create(ctx, in)
	require.NoError(t, err)

	in.Precio = nil
	in.Stock = 0
	in.Nombre = "Scanner X2"
	_, err = f.products.Update(ctx, p.ID, in)
	require.NoError(t, err)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Scanner X2", got.Nombre)
	assert.Nil(t, got.Precio)
	assert.Equal(t, 0, got.Stock)

	_, err = f.products.Update(ctx, uuid.New(), in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductDeleteIsBestEffort(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakeExtractor{})

	p, err := f.products.Create(ctx, scannerInput())
	require.NoError(t, err)

	a, err := f.attachments.Upload(ctx, dto.AttachmentUpload{
		File:        bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000")),
		FileName:    "foto.png",
		ContentType: "image/png",
		ProductID:   &p.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Len())

	f.store.FailRemove = true
	require.NoError(t, f.products.Delete(ctx, p.ID))

	_, err = f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var count int64
	f.db.Model(&models.Attachment{}).Where("id = ?", a.ID).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, 1, f.store.Len())

	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), apperr.ErrNotFound)
}

func TestAttachmentUploadPDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakeExtractor{text: "Potencia 1200 W"})

	p, err := f.products.Create(ctx, scannerInput())
	require.NoError(t, err)

	a, err := f.attachments.Upload(ctx, dto.AttachmentUpload{
		File:        bytes.NewReader([]byte("%PDF-1.4 contenido")),
		FileName:    "Manual Scanner.pdf",
		ContentType: "application/octet-stream",
		ProductID:   &p.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentPDF, a.Tipo)
	require.NotNil(t, a.TextoExtraido)
	assert.Equal(t, "Potencia 1200 W", *a.TextoExtraido)
	assert.Contains(t, a.URL, publicBase+"/"+p.ID.String()+"/Manual-Scanner-")

	key, ok := f.store.ObjectPath(a.URL)
	require.True(t, ok)
	assert.True(t, f.store.Has(key))

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Archivos, 1)
	assert.Equal(t, a.URL, got.Archivos[0].URL)
}

func TestAttachmentUploadExtractionFailureStillSaves(t *testing.T) {
	f := newFixture(t, fakeExtractor{err: errors.New("pdf dañado")})

	a, err := f.attachments.Upload(context.Background(), dto.AttachmentUpload{
		File:        bytes.NewReader([]byte("%PDF-1.4")),
		FileName:    "roto.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Nil(t, a.TextoExtraido)
	assert.Nil(t, a.ProductoID)
	assert.Contains(t, a.URL, "/general/roto-")
}

func TestAttachmentUploadRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.attachments.Upload(ctx, dto.AttachmentUpload{
		File: bytes.NewReader([]byte("hola")), FileName: "nota.txt", ContentType: "text/plain",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.attachments.Upload(ctx, dto.AttachmentUpload{
		File: bytes.NewReader(make([]byte, 2<<20)), FileName: "grande.pdf", ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := uuid.New()
	_, err = f.attachments.Upload(ctx, dto.AttachmentUpload{
		File: bytes.NewReader([]byte("%PDF")), FileName: "a.pdf", ContentType: "application/pdf", ProductID: &missing,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.attachments.Upload(ctx, dto.AttachmentUpload{FileName: "a.pdf"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Zero(t, f.store.Len())
}

func TestAttachmentGalleryAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakeExtractor{text: "texto"})

	older, err := f.attachments.Upload(ctx, dto.AttachmentUpload{
		File: bytes.NewReader([]byte("%PDF-1.4")), FileName: "Catalogo Sillones.pdf", ContentType: "application/pdf",
	})
	require.NoError(t, err)
	newer, err := f.attachments.Upload(ctx, dto.AttachmentUpload{
		File: bytes.NewReader([]byte("\x89PNG\r\n\x1a\n")), FileName: "scanner.png", ContentType: "image/png",
	})
	require.NoError(t, err)
	f.db.Model(&models.Attachment{}).Where("id = ?", older.ID).Update("created_at", time.Now().Add(-time.Hour))

	page, err := f.attachments.List(ctx, dto.AttachmentFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, newer.ID, page.Data[0].ID)
	assert.Nil(t, page.Data[1].TextoExtraido)

	page, err = f.attachments.List(ctx, dto.AttachmentFilter{Query: "sillones"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, older.ID, page.Data[0].ID)

	urls, err := f.attachments.URLs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{older.URL, newer.URL}, urls)

	f.store.FailRemove = true
	require.NoError(t, f.attachments.Delete(ctx, older.ID))
	urls, err = f.attachments.URLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{newer.URL}, urls)

	assert.ErrorIs(t, f.attachments.Delete(ctx, older.ID), apperr.ErrNotFound)
	assert.Contains(t, f.events.topics, eventservice.TopicAttachmentDeleted)
}
