package repositories

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"livraria/internal/models"
	"livraria/pkg/money"

	"github.com/google/uuid"
)

// stringList stores a []string as a JSON array in a text column.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		l = stringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	return scanJSON(src, (*[]string)(l))
}

// orderItems stores order line items as a JSON array in a text column.
type orderItems []models.OrderItem

func (o orderItems) Value() (driver.Value, error) {
	if o == nil {
		o = orderItems{}
	}
	b, err := json.Marshal([]models.OrderItem(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *orderItems) Scan(src any) error {
	return scanJSON(src, (*[]models.OrderItem)(o))
}

func scanJSON(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// bookRecord is the relational row for a book. Column names match the
// document store's field names so one query vocabulary serves both.
//
// Amounts are kept as their decimal text: SQLite would turn a numeric
// column into a float. titulo_busca holds the Unicode-lowered title,
// since SQLite's LOWER only folds ASCII.
type bookRecord struct {
	ID              string       `gorm:"primaryKey;type:varchar(36)"`
	Title           string       `gorm:"column:titulo;type:varchar(255);not null"`
	TitleSearch     string       `gorm:"column:titulo_busca;type:varchar(255);not null;default:'';index"`
	Price           money.Amount `gorm:"column:preco;type:varchar(64);not null"`
	Category        string       `gorm:"column:categoria;type:varchar(100);index"`
	Tags            stringList   `gorm:"column:tags;type:text"`
	Authors         stringList   `gorm:"column:autores;type:text"`
	LatestEdition   bool         `gorm:"column:mais_recente_edicao;not null;default:false"`
	PublicationDate *time.Time   `gorm:"column:data_publicacao"`
	Publisher       string       `gorm:"column:editora;type:varchar(255)"`
	Description     string       `gorm:"column:descricao;type:text"`
	ISBN            string       `gorm:"column:isbn;type:varchar(32)"`
	Stock           int          `gorm:"column:estoque;not null;default:0"`
	CoverImage      string       `gorm:"column:imagem_capa;type:varchar(255)"`
}

func (bookRecord) TableName() string { return "books" }

func newBookRecord(b *models.Book) bookRecord {
	return bookRecord{
		ID:              b.ID,
		Title:           b.Title,
		TitleSearch:     strings.ToLower(b.Title),
		Price:           b.Price,
		Category:        b.Category,
		Tags:            stringList(b.Tags),
		Authors:         stringList(b.Authors),
		LatestEdition:   b.LatestEdition,
		PublicationDate: b.PublicationDate,
		Publisher:       b.Publisher,
		Description:     b.Description,
		ISBN:            b.ISBN,
		Stock:           b.Stock,
		CoverImage:      b.CoverImage,
	}
}

func (r bookRecord) model() models.Book {
	return models.Book{
		ID:              r.ID,
		Title:           r.Title,
		Price:           r.Price,
		Category:        r.Category,
		Tags:            nonNil(r.Tags),
		Authors:         nonNil(r.Authors),
		LatestEdition:   r.LatestEdition,
		PublicationDate: r.PublicationDate,
		Publisher:       r.Publisher,
		Description:     r.Description,
		ISBN:            r.ISBN,
		Stock:           r.Stock,
		CoverImage:      r.CoverImage,
	}
}

type userRecord struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	Name     string `gorm:"column:nome;type:varchar(100)"`
	Email    string `gorm:"column:email;type:varchar(255);index"`
	Password string `gorm:"column:senha;type:varchar(255)"`
}

func (userRecord) TableName() string { return "usuarios" }

func newUserRecord(u *models.User) userRecord {
	return userRecord{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password}
}

func (r userRecord) model() models.User {
	return models.User{ID: r.ID, Name: r.Name, Email: r.Email, Password: r.Password}
}

type orderRecord struct {
	ID     string       `gorm:"primaryKey;type:varchar(36)"`
	UserID string       `gorm:"column:id_usuario;type:varchar(36);index"`
	Items  orderItems   `gorm:"column:livros;type:text"`
	Date   time.Time    `gorm:"column:data;not null"`
	Total  money.Amount `gorm:"column:total;type:varchar(64);not null"`
	Status string       `gorm:"column:status;type:varchar(32);not null"`
}

func (orderRecord) TableName() string { return "pedidos" }

func newOrderRecord(o *models.Order) orderRecord {
	return orderRecord{
		ID:     o.ID,
		UserID: o.UserID,
		Items:  orderItems(o.Items),
		Date:   o.Date,
		Total:  o.Total,
		Status: o.Status,
	}
}

func (r orderRecord) model() models.Order {
	items := []models.OrderItem(r.Items)
	if items == nil {
		items = []models.OrderItem{}
	}
	return models.Order{
		ID:     r.ID,
		UserID: r.UserID,
		Items:  items,
		Date:   r.Date,
		Total:  r.Total,
		Status: r.Status,
	}
}

// recordID reuses a caller-supplied UUID or generates one.
func recordID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.New().String()
}

// validRecordID reports whether id can name a relational row.
func validRecordID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
