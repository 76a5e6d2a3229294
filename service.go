package bookshelf

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jimiolaniyan/bookshelf/auth"
)

type Service interface {
	CreateBook(ctx context.Context, owner auth.ID, in bookInput) (*Book, error)
	GetBook(ctx context.Context, id BookID) (*Book, error)
	ListBooks(ctx context.Context) ([]*Book, error)
	UpdateBook(ctx context.Context, id BookID, p bookPatch) (*Book, error)
	DeleteBook(ctx context.Context, id BookID) error
}

type service struct {
	books  BookRepository
	logger logrus.FieldLogger
}

func NewService(books BookRepository, logger logrus.FieldLogger) Service {
	return &service{books: books, logger: logger}
}

func (svc *service) CreateBook(ctx context.Context, owner auth.ID, in bookInput) (*Book, error) {
	book, err := NewBook(owner, in)
	if err != nil {
		return nil, err
	}

	book.ID = nextID()
	if err := svc.books.Store(ctx, book); err != nil {
		return nil, fmt.Errorf("error saving book: %w", err)
	}

	svc.logger.WithFields(logrus.Fields{"book_id": book.ID, "author": owner}).Info("book created")
	return book, nil
}

func (svc *service) GetBook(ctx context.Context, id BookID) (*Book, error) {
	if !IsValidID(string(id)) {
		return nil, ErrBookNotFound
	}
	return svc.books.FindByID(ctx, id)
}

func (svc *service) ListBooks(ctx context.Context) ([]*Book, error) {
	return svc.books.FindAll(ctx)
}

// UpdateBook changes the fields set in p. Any authenticated caller may
// update any book.
func (svc *service) UpdateBook(ctx context.Context, id BookID, p bookPatch) (*Book, error) {
	book, err := svc.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := book.Apply(p); err != nil {
		return nil, err
	}

	if err := svc.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book regardless of who created it.
func (svc *service) DeleteBook(ctx context.Context, id BookID) error {
	if !IsValidID(string(id)) {
		return ErrBookNotFound
	}

	if err := svc.books.Delete(ctx, id); err != nil {
		return err
	}

	svc.logger.WithField("book_id", id).Info("book deleted")
	return nil
}
