package repositories

import (
	"time"

	"livraria/internal/models"
	"livraria/pkg/money"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names in the livraria database.
const (
	booksCollection  = "books"
	usersCollection  = "usuarios"
	ordersCollection = "pedidos"
)

// bookDocument is the stored shape of a book. Every field is listed with
// its wire name; the price goes out as Decimal128 through money.Amount.
type bookDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	Title           string             `bson:"titulo"`
	Price           money.Amount       `bson:"preco"`
	Category        string             `bson:"categoria"`
	Tags            []string           `bson:"tags"`
	Authors         []string           `bson:"autores"`
	LatestEdition   bool               `bson:"mais_recente_edicao"`
	PublicationDate *time.Time         `bson:"data_publicacao"`
	Publisher       string             `bson:"editora"`
	Description     string             `bson:"descricao"`
	ISBN            string             `bson:"isbn"`
	Stock           int                `bson:"estoque"`
	CoverImage      string             `bson:"imagem_capa"`
}

func newBookDocument(id primitive.ObjectID, b *models.Book) bookDocument {
	return bookDocument{
		ID:              id,
		Title:           b.Title,
		Price:           b.Price,
		Category:        b.Category,
		Tags:            b.Tags,
		Authors:         b.Authors,
		LatestEdition:   b.LatestEdition,
		PublicationDate: b.PublicationDate,
		Publisher:       b.Publisher,
		Description:     b.Description,
		ISBN:            b.ISBN,
		Stock:           b.Stock,
		CoverImage:      b.CoverImage,
	}
}

func (d bookDocument) model() models.Book {
	return models.Book{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Price:           d.Price,
		Category:        d.Category,
		Tags:            nonNil(d.Tags),
		Authors:         nonNil(d.Authors),
		LatestEdition:   d.LatestEdition,
		PublicationDate: d.PublicationDate,
		Publisher:       d.Publisher,
		Description:     d.Description,
		ISBN:            d.ISBN,
		Stock:           d.Stock,
		CoverImage:      d.CoverImage,
	}
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"nome"`
	Email    string             `bson:"email"`
	Password string             `bson:"senha"`
}

func newUserDocument(id primitive.ObjectID, u *models.User) userDocument {
	return userDocument{ID: id, Name: u.Name, Email: u.Email, Password: u.Password}
}

func (d userDocument) model() models.User {
	return models.User{ID: d.ID.Hex(), Name: d.Name, Email: d.Email, Password: d.Password}
}

type orderItemDocument struct {
	BookID    string       `bson:"livro_id"`
	Quantity  int          `bson:"quantidade"`
	UnitPrice money.Amount `bson:"preco_unitario"`
}

type orderDocument struct {
	ID     primitive.ObjectID  `bson:"_id"`
	UserID string              `bson:"id_usuario"`
	Items  []orderItemDocument `bson:"livros"`
	Date   time.Time           `bson:"data"`
	Total  money.Amount        `bson:"total"`
	Status string              `bson:"status"`
}

func newOrderDocument(id primitive.ObjectID, o *models.Order) orderDocument {
	items := make([]orderItemDocument, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDocument{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return orderDocument{
		ID:     id,
		UserID: o.UserID,
		Items:  items,
		Date:   o.Date,
		Total:  o.Total,
		Status: o.Status,
	}
}

func (d orderDocument) model() models.Order {
	items := make([]models.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, models.OrderItem{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return models.Order{
		ID:     d.ID.Hex(),
		UserID: d.UserID,
		Items:  items,
		Date:   d.Date,
		Total:  d.Total,
		Status: d.Status,
	}
}

// objectIDFor reuses a caller-supplied hex identifier or generates one.
func objectIDFor(id string) primitive.ObjectID {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return primitive.NewObjectID()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
