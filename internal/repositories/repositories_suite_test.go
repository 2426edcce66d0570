package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"livraria/internal/models"
	"livraria/internal/query"
	"livraria/internal/repositories"
	"livraria/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook(title, price, category string, tags ...string) models.Book {
	published := time.Date(1899, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Book{
		Title:           title,
		Price:           money.MustParse(price),
		Category:        category,
		Tags:            tags,
		Authors:         []string{"Machado de Assis"},
		PublicationDate: &published,
		Publisher:       "Garnier",
		Description:     "Romance",
		ISBN:            "978-85-00-00000-0",
		Stock:           3,
	}
}

func page(t *testing.T, number, size int) query.Page {
	t.Helper()
	p, err := query.NewPage(number, size)
	require.NoError(t, err)
	return p
}

// runStoreTests runs the behavioural suite shared by every backend. Each
// subtest starts from an empty catalog.
func runStoreTests(t *testing.T, store *repositories.Store) {
	t.Helper()
	ctx := context.Background()
	books := store.Books

	reset := func(t *testing.T, seed ...models.Book) {
		t.Helper()
		_, err := books.ReplaceAll(ctx, seed)
		require.NoError(t, err)
	}

	t.Run("Create and GetByID keeps exact price", func(t *testing.T) {
		reset(t)
		b := newBook("Dom Casmurro", "19.90", "Ficção", "Clássico")
		id, err := books.Create(ctx, &b)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, b.ID)

		got, err := books.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "19.90", got.Price.String())
		assert.Equal(t, "Dom Casmurro", got.Title)
		assert.Equal(t, []string{"Clássico"}, got.Tags)
		assert.Equal(t, models.DefaultCoverImage, got.CoverImage)
		require.NotNil(t, got.PublicationDate)
		assert.Equal(t, 1899, got.PublicationDate.Year())
	})

	t.Run("Prices keep their text through storage", func(t *testing.T) {
		reset(t)
		for _, price := range []string{"10.00", "0.10", "12345678901234567.89"} {
			b := newBook("Preço "+price, price, "Ficção")
			id, err := books.Create(ctx, &b)
			require.NoError(t, err)

			got, err := books.GetByID(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, price, got.Price.String())
		}

		found, _, err := books.Search(ctx, query.Parse(query.Input{"price_min": "12345678901234567"}), page(t, 1, 10))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "12345678901234567.89", found[0].Price.String())
	})

	t.Run("GetByID misses are not errors", func(t *testing.T) {
		reset(t)
		for _, id := range []string{"", "not-an-id", "zzz", "65f0c0ffee0000000000000a", "3f2504e0-4f89-11d3-9a0c-0305e82c3301"} {
			got, err := books.GetByID(ctx, id)
			assert.NoError(t, err, id)
			assert.Nil(t, got, id)
		}
	})

	t.Run("ReplaceAll replaces instead of accumulating", func(t *testing.T) {
		reset(t, newBook("A", "1", "X"), newBook("B", "2", "X"), newBook("C", "3", "X"))
		batch := []models.Book{newBook("D", "4", "Y"), newBook("E", "5", "Y")}

		for run := 0; run < 2; run++ {
			seed := append([]models.Book{}, batch...)
			ids, err := books.ReplaceAll(ctx, seed)
			require.NoError(t, err)
			assert.Len(t, ids, 2)
			n, err := books.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
		}

		all, err := books.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Search by price range", func(t *testing.T) {
		reset(t,
			newBook("cheap", "9.99", "Ficção"),
			newBook("low", "10", "Ficção"),
			newBook("mid", "15.50", "Ficção"),
			newBook("high", "20.00", "Ficção"),
			newBook("dear", "20.01", "Ficção"),
		)

		found, total, err := books.Search(ctx, query.Parse(query.Input{"price_min": "10", "price_max": "20"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.ElementsMatch(t, []string{"low", "mid", "high"}, titles(found))

		// a malformed lower bound behaves as if absent
		found, total, err = books.Search(ctx, query.Parse(query.Input{"price_min": "abc", "price_max": "20"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.ElementsMatch(t, []string{"cheap", "low", "mid", "high"}, titles(found))
	})

	t.Run("Search by category", func(t *testing.T) {
		reset(t,
			newBook("a", "1", "Fiction"),
			newBook("b", "1", "Fiction"),
			newBook("c", "1", "Romance"),
		)

		found, total, err := books.Search(ctx, query.Parse(query.Input{"categories": []string{"Fiction"}}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, b := range found {
			assert.Equal(t, "Fiction", b.Category)
		}

		_, total, err = books.Search(ctx, query.Parse(query.Input{"categories": []string{}}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("Search by title and tags", func(t *testing.T) {
		reset(t,
			newBook("Dom Casmurro", "1", "Ficção", "Clássico", "Romance"),
			newBook("Memórias Póstumas", "1", "Ficção", "Clássico"),
			newBook("100% Casmurro_", "1", "Humor"),
			newBook("Ética a Nicômaco", "1", "Filosofia"),
		)

		// case folding covers accented letters
		found, total, err := books.Search(ctx, query.Parse(query.Input{"title": "ética"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"Ética a Nicômaco"}, titles(found))

		found, _, err = books.Search(ctx, query.Parse(query.Input{"title": "NICÔMACO"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, []string{"Ética a Nicômaco"}, titles(found))

		found, _, err = books.Search(ctx, query.Parse(query.Input{"nome": "casmurro"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Dom Casmurro", "100% Casmurro_"}, titles(found))

		found, _, err = books.Search(ctx, query.Parse(query.Input{"title": "100%"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Casmurro_"}, titles(found))

		found, _, err = books.Search(ctx, query.Parse(query.Input{"tags": "Clássico"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, _, err = books.Search(ctx, query.Parse(query.Input{"tags": []string{"Clássico", "Romance"}}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, []string{"Dom Casmurro"}, titles(found))

		found, _, err = books.Search(ctx, query.Parse(query.Input{"tags": "Class"}), page(t, 1, 10))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("Search paginates with an independent total", func(t *testing.T) {
		var seed []models.Book
		for i := 0; i < 25; i++ {
			seed = append(seed, newBook(fmt.Sprintf("book %02d", i), "10", "Ficção"))
		}
		reset(t, seed...)

		found, total, err := books.Search(ctx, query.BookFilter{}, page(t, 2, 10))
		require.NoError(t, err)
		assert.Len(t, found, 10)
		assert.Equal(t, int64(25), total)

		found, total, err = books.Search(ctx, query.BookFilter{}, page(t, 3, 10))
		require.NoError(t, err)
		assert.Len(t, found, 5)
		assert.Equal(t, int64(25), total)

		_, _, err = books.Search(ctx, query.BookFilter{}, query.Page{Number: 0, Size: 10})
		assert.ErrorIs(t, err, query.ErrInvalidPage)
	})

	t.Run("Tags fall back to the default vocabulary", func(t *testing.T) {
		reset(t)
		tags, err := books.Tags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Aventura", "Clássico", "Fantasia", "Ficção", "Romance"}, tags)

		reset(t, newBook("a", "1", "X", "Zeta", "Alfa"), newBook("b", "1", "X", "Alfa", ""), newBook("c", "1", "X"))
		tags, err = books.Tags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alfa", "Zeta"}, tags)
	})

	t.Run("Categories are distinct and sorted", func(t *testing.T) {
		reset(t, newBook("a", "1", "Romance"), newBook("b", "1", "Aventura"), newBook("c", "1", "Romance"))
		categories, err := books.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Aventura", "Romance"}, categories)
	})

	t.Run("Users", func(t *testing.T) {
		u := models.User{Name: "Capitu", Email: "capitu@example.com", Password: "as-given"}
		id, err := store.Users.Create(ctx, &u)
		require.NoError(t, err)

		byID, err := store.Users.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "as-given", byID.Password)

		byEmail, err := store.Users.GetByEmail(ctx, "capitu@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, id, byEmail.ID)

		missing, err := store.Users.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, missing)

		malformed, err := store.Users.GetByID(ctx, "???")
		assert.NoError(t, err)
		assert.Nil(t, malformed)
	})

	t.Run("Orders", func(t *testing.T) {
		userID := fmt.Sprintf("user-%d", time.Now().UnixNano())
		o := models.Order{
			UserID: userID,
			Items:  []models.OrderItem{{BookID: "dangling", Quantity: 2, UnitPrice: money.MustParse("19.90")}},
			Total:  money.MustParse("39.80"),
		}
		id, err := store.Orders.Create(ctx, &o)
		require.NoError(t, err)

		got, err := store.Orders.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.OrderStatusPending, got.Status)
		assert.False(t, got.Date.IsZero())
		assert.Equal(t, "39.80", got.Total.String())
		require.Len(t, got.Items, 1)
		assert.Equal(t, "dangling", got.Items[0].BookID)
		assert.Equal(t, "19.90", got.Items[0].UnitPrice.String())

		byUser, err := store.Orders.GetByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, byUser, 1)

		none, err := store.Orders.GetByUser(ctx, "someone-else")
		require.NoError(t, err)
		assert.Empty(t, none)

		miss, err := store.Orders.GetByID(ctx, "bad id")
		assert.NoError(t, err)
		assert.Nil(t, miss)
	})
}

func titles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
