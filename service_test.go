package bookshelf

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"

	"github.com/jimiolaniyan/bookshelf/auth"
)

type ServiceTestSuite struct {
	suite.Suite
	books BookRepository
	svc   Service
	owner auth.ID
	ctx   context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	logger, _ := test.NewNullLogger()
	s.books = NewBookRepository()
	s.svc = NewService(s.books, logger)
	s.owner = auth.NewID()
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TestCreateBook_AssignsIDAndOwner() {
	book, err := s.svc.CreateBook(s.ctx, s.owner, validInput())
	s.Require().NoError(err)

	s.True(IsValidID(string(book.ID)))
	s.Equal(s.owner, book.Author)

	stored, err := s.books.FindByID(s.ctx, book.ID)
	s.Require().NoError(err)
	s.Equal(book, stored)
}

func (s *ServiceTestSuite) TestCreateBook_Invalid() {
	in := validInput()
	in.Title = ""

	_, err := s.svc.CreateBook(s.ctx, s.owner, in)

	s.ErrorIs(err, ErrInvalidBook)
	books, _ := s.svc.ListBooks(s.ctx)
	s.Empty(books)
}

func (s *ServiceTestSuite) TestGetBook() {
	book, err := s.svc.CreateBook(s.ctx, s.owner, validInput())
	s.Require().NoError(err)

	found, err := s.svc.GetBook(s.ctx, book.ID)
	s.NoError(err)
	s.Equal(book, found)

	_, err = s.svc.GetBook(s.ctx, nextID())
	s.Equal(ErrBookNotFound, err)

	_, err = s.svc.GetBook(s.ctx, "not-an-id")
	s.Equal(ErrBookNotFound, err)
}

func (s *ServiceTestSuite) TestListBooks_OldestFirst() {
	first, _ := s.svc.CreateBook(s.ctx, s.owner, validInput())
	second, _ := s.svc.CreateBook(s.ctx, auth.NewID(), validInput())

	books, err := s.svc.ListBooks(s.ctx)

	s.NoError(err)
	s.Require().Len(books, 2)
	s.Equal(first.ID, books[0].ID)
	s.Equal(second.ID, books[1].ID)
}

func (s *ServiceTestSuite) TestUpdateBook_AnyCallerKeepsOwner() {
	book, _ := s.svc.CreateBook(s.ctx, s.owner, validInput())

	updated, err := s.svc.UpdateBook(s.ctx, book.ID, bookPatch{Category: strPtr("classics"), HasEbook: boolPtr(true)})

	s.NoError(err)
	s.Equal("classics", updated.Category)
	s.True(updated.HasEbook)
	s.Equal(s.owner, updated.Author)

	stored, _ := s.books.FindByID(s.ctx, book.ID)
	s.Equal(updated, stored)

	_, err = s.svc.UpdateBook(s.ctx, nextID(), bookPatch{})
	s.Equal(ErrBookNotFound, err)

	_, err = s.svc.UpdateBook(s.ctx, book.ID, bookPatch{Title: strPtr("")})
	s.Equal(ErrInvalidBook, err)
}

func (s *ServiceTestSuite) TestDeleteBook() {
	book, _ := s.svc.CreateBook(s.ctx, s.owner, validInput())

	s.NoError(s.svc.DeleteBook(s.ctx, book.ID))
	s.Equal(ErrBookNotFound, s.svc.DeleteBook(s.ctx, book.ID))
	s.Equal(ErrBookNotFound, s.svc.DeleteBook(s.ctx, "bogus"))

	_, err := s.svc.GetBook(s.ctx, book.ID)
	s.Equal(ErrBookNotFound, err)
}

func (s *ServiceTestSuite) TestNewService() {
	logger, _ := test.NewNullLogger()
	books := NewBookRepository()
	svc := NewService(books, logger)
	impl := svc.(*service)

	s.Equal(books, impl.books)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
