package catalog_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"livraria/internal/catalog"
	"livraria/internal/logger"
	"livraria/internal/models"
	"livraria/internal/query"
	"livraria/internal/repositories"
	"livraria/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func newStore(t *testing.T) *repositories.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := repositories.NewGORMStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func validEntry(title string) catalog.Entry {
	return catalog.Entry{
		"titulo":          title,
		"preco":           json.Number("10.00"),
		"categoria":       "Ficção",
		"tags":            []any{"Clássico"},
		"autores":         []any{"Autor"},
		"data_publicacao": "2001-02-03",
		"editora":         "Editora",
		"descricao":       "Descrição",
		"isbn":            "123",
		"estoque":         json.Number("1"),
	}
}

func TestReadFile(t *testing.T) {
	entries, err := catalog.ReadFile("testdata/livros.json")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, json.Number("19.90"), entries[0]["preco"])

	_, err = catalog.ReadFile("testdata/missing.json")
	assert.Error(t, err)

	_, err = catalog.Decode(strings.NewReader(`{"titulo": "not a list"}`))
	assert.Error(t, err)
}

func TestLoader_ReloadFile(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	pub := new(mockPublisher)
	pub.On("PublishEvent", catalog.ReloadedEvent, mock.Anything).Return(nil)

	stale := models.Book{Title: "Antigo", Price: money.MustParse("1"), Category: "X", Authors: []string{"A"}}
	_, err := store.Books.Create(ctx, &stale)
	require.NoError(t, err)

	loader := catalog.NewLoader(store.Books, pub, logger.Discard())
	result, err := loader.ReloadFile(ctx, "testdata/livros.json")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Previous)
	assert.Equal(t, 3, result.Loaded)
	assert.Len(t, result.IDs, 3)

	count, err := store.Books.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	got, total, err := store.Books.Search(ctx, query.Parse(query.Input{"title": "casmurro"}), query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	book := got[0]
	assert.True(t, book.Price.Equal(money.MustParse("19.90")), "price %s", book.Price)
	assert.True(t, book.LatestEdition)
	assert.Equal(t, "static/img/dom-casmurro.jpg", book.CoverImage)
	require.NotNil(t, book.PublicationDate)
	assert.Equal(t, 1899, book.PublicationDate.Year())

	// "1865" is not a full date and is stored as none
	got, _, err = store.Books.Search(ctx, query.Parse(query.Input{"title": "Iracema"}), query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].PublicationDate)
	assert.Equal(t, models.DefaultCoverImage, got[0].CoverImage)
	assert.False(t, got[0].LatestEdition)

	pub.AssertCalled(t, "PublishEvent", catalog.ReloadedEvent, mock.Anything)
}

func TestLoader_MissingFieldKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	loader := catalog.NewLoader(store.Books, nil, logger.Discard())

	_, err := loader.Reload(ctx, []catalog.Entry{validEntry("Primeiro"), validEntry("Segundo")})
	require.NoError(t, err)

	broken := validEntry("Terceiro")
	delete(broken, "isbn")
	_, err = loader.Reload(ctx, []catalog.Entry{validEntry("Quarto"), broken})
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMissingField)
	assert.Contains(t, err.Error(), "entry 1")
	assert.Contains(t, err.Error(), "isbn")

	count, err := store.Books.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLoader_Normalize(t *testing.T) {
	loader := catalog.NewLoader(nil, nil, logger.Discard())

	tests := []struct {
		name   string
		mutate func(catalog.Entry)
		err    error
	}{
		{"valid", func(catalog.Entry) {}, nil},
		{"float price", func(e catalog.Entry) { e["preco"] = 10.5 }, catalog.ErrInvalidField},
		{"negative price", func(e catalog.Entry) { e["preco"] = "-1" }, catalog.ErrInvalidField},
		{"fractional stock", func(e catalog.Entry) { e["estoque"] = json.Number("1.5") }, catalog.ErrInvalidField},
		{"negative stock", func(e catalog.Entry) { e["estoque"] = json.Number("-1") }, catalog.ErrInvalidField},
		{"tags not a list", func(e catalog.Entry) { e["tags"] = "Clássico" }, catalog.ErrInvalidField},
		{"no authors", func(e catalog.Entry) { e["autores"] = []any{} }, catalog.ErrInvalidField},
		{"edition not bool", func(e catalog.Entry) { e["mais_recente_edicao"] = "sim" }, catalog.ErrInvalidField},
		{"missing title", func(e catalog.Entry) { delete(e, "titulo") }, catalog.ErrMissingField},
		{"missing date", func(e catalog.Entry) { delete(e, "data_publicacao") }, catalog.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry("Livro")
			tt.mutate(e)
			books, err := loader.Normalize([]catalog.Entry{e})
			if tt.err == nil {
				require.NoError(t, err)
				require.Len(t, books, 1)
				assert.Equal(t, "10.00", books[0].Price.String())
				assert.Equal(t, 1, books[0].Stock)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoader_BadDateIsNotFatal(t *testing.T) {
	loader := catalog.NewLoader(nil, nil, logger.Discard())
	for _, v := range []any{"03/02/2001", "2001-02-30", nil, json.Number("2001")} {
		e := validEntry("Livro")
		e["data_publicacao"] = v
		books, err := loader.Normalize([]catalog.Entry{e})
		require.NoError(t, err, "%v", v)
		assert.Nil(t, books[0].PublicationDate, "%v", v)
	}
}
