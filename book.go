// Package bookshelf is the book catalog. Books are owned by the account that
// created them; ownership is recorded but not enforced on update or delete.
package bookshelf

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/jimiolaniyan/bookshelf/auth"
)

var (
	ErrInvalidBook  = errors.New("invalid book")
	ErrBookNotFound = errors.New("book not found")
)

type BookRepository interface {
	Store(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id BookID) (*Book, error)
	FindAll(ctx context.Context) ([]*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id BookID) error
}

type BookID string

type Book struct {
	ID              BookID    `json:"id" bson:"_id"`
	Title           string    `json:"title"`
	Author          auth.ID   `json:"author"`
	EditionNumber   int       `json:"editionNumber"`
	PublicationDate string    `json:"publicationDate"`
	HasEbook        bool      `json:"hasEbook"`
	Price           float64   `json:"price"`
	Languages       []string  `json:"languages"`
	Category        string    `json:"category"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// bookInput is the body of a create request. Pointers tell a missing field
// apart from a zero value.
type bookInput struct {
	Title           string   `json:"title" validate:"required"`
	EditionNumber   *int     `json:"editionNumber" validate:"required"`
	PublicationDate string   `json:"publicationDate" validate:"required"`
	HasEbook        *bool    `json:"hasEbook" validate:"required"`
	Price           *float64 `json:"price" validate:"required"`
	Languages       []string `json:"languages" validate:"required"`
	Category        string   `json:"category" validate:"required"`
}

// bookPatch is the body of an update request. Only non-nil fields change.
type bookPatch struct {
	Title           *string   `json:"title"`
	EditionNumber   *int      `json:"editionNumber"`
	PublicationDate *string   `json:"publicationDate"`
	HasEbook        *bool     `json:"hasEbook"`
	Price           *float64  `json:"price"`
	Languages       *[]string `json:"languages"`
	Category        *string   `json:"category"`
}

// NewBook builds a book owned by author. The author always comes from the
// caller's identity, never from the request body.
func NewBook(author auth.ID, in bookInput) (*Book, error) {
	if author == "" {
		return nil, ErrInvalidBook
	}
	if err := validateBook(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Book{
		Title:           in.Title,
		Author:          author,
		EditionNumber:   *in.EditionNumber,
		PublicationDate: in.PublicationDate,
		HasEbook:        *in.HasEbook,
		Price:           *in.Price,
		Languages:       in.Languages,
		Category:        in.Category,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Apply copies the fields set in p onto b.
func (b *Book) Apply(p bookPatch) error {
	updated := *b
	if p.Title != nil {
		updated.Title = *p.Title
	}
	if p.EditionNumber != nil {
		updated.EditionNumber = *p.EditionNumber
	}
	if p.PublicationDate != nil {
		updated.PublicationDate = *p.PublicationDate
	}
	if p.HasEbook != nil {
		updated.HasEbook = *p.HasEbook
	}
	if p.Price != nil {
		updated.Price = *p.Price
	}
	if p.Languages != nil {
		updated.Languages = *p.Languages
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}

	if strings.TrimSpace(updated.Title) == "" || strings.TrimSpace(updated.Category) == "" ||
		strings.TrimSpace(updated.PublicationDate) == "" {
		return ErrInvalidBook
	}

	updated.UpdatedAt = time.Now().UTC()
	*b = updated
	return nil
}

func nextID() BookID {
	return BookID(xid.New().String())
}

// IsValidID checks if a given id is valid based on the xid library definition of a valid id
func IsValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}
