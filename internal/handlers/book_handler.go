package handlers

import (
	"livraria/internal/models"
	"livraria/internal/query"
	"livraria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Query parameters that select the page rather than filter books.
const (
	paramPage     = "page"
	paramPageSize = "page_size"
)

// BookHandler handles HTTP requests for books.
type BookHandler struct {
	service  *services.BookService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService, log logrus.FieldLogger) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the book routes with the Fiber app.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleSearchBooks)
	bookRoutes.Get("/all", h.HandleGetAllBooks)
	bookRoutes.Get("/categories", h.HandleGetCategories)
	bookRoutes.Get("/tags", h.HandleGetTags)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
	bookRoutes.Post("/", h.HandleCreateBook)
}

// HandleSearchBooks answers one page of books matching the query string.
// Repeated parameters such as ?categories=a&categories=b select several
// values.
func (h *BookHandler) HandleSearchBooks(c *fiber.Ctx) error {
	page := query.Page{
		Number: c.QueryInt(paramPage, 1),
		Size:   c.QueryInt(paramPageSize, query.DefaultPageSize),
	}
	result, err := h.service.SearchBooks(c.UserContext(), searchInput(c), page)
	if err != nil {
		return serviceError(c, h.log, "Could not search books", err)
	}
	return c.JSON(result)
}

// HandleGetAllBooks retrieves every book.
func (h *BookHandler) HandleGetAllBooks(c *fiber.Ctx) error {
	books, err := h.service.ListBooks(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve books", err)
	}
	return c.JSON(books)
}

// HandleGetCategories lists the distinct categories.
func (h *BookHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetTags lists the distinct tags.
func (h *BookHandler) HandleGetTags(c *fiber.Ctx) error {
	tags, err := h.service.Tags(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve tags", err)
	}
	return c.JSON(tags)
}

// HandleGetBookByID retrieves a single book by its ID.
func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	book, err := h.service.GetBook(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve book", err)
	}
	return c.JSON(book)
}

// HandleCreateBook creates a new book.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var book models.Book
	if err := c.BodyParser(&book); err != nil {
		return invalidBody(c, err)
	}
	book.ID = ""
	if err := h.validate.Struct(book); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.CreateBook(c.UserContext(), &book); err != nil {
		return serviceError(c, h.log, "Could not create book", err)
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// searchInput collects the query string into a filter input. Keys given
// once map to a string, repeated keys to a []string.
func searchInput(c *fiber.Ctx) query.Input {
	in := query.Input{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if k == paramPage || k == paramPageSize {
			return
		}
		v := string(value)
		switch prev := in[k].(type) {
		case nil:
			in[k] = v
		case string:
			in[k] = []string{prev, v}
		case []string:
			in[k] = append(prev, v)
		}
	})
	return in
}
