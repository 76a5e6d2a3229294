package bookshelf

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jimiolaniyan/bookshelf/auth"
)

const bookReq = `
	{
		"title": "Dune",
		"author": "someone-else",
		"editionNumber": 1,
		"publicationDate": "1965-08-01",
		"hasEbook": true,
		"price": 9.99,
		"languages": ["en"],
		"category": "sci-fi"
	}
`

type HandlerTestSuite struct {
	suite.Suite
	router *httprouter.Router
	svc    Service
	tokens *auth.TokenService
	owner  auth.ID
	token  string
}

func (s *HandlerTestSuite) SetupTest() {
	logger, _ := test.NewNullLogger()
	s.svc = NewService(NewBookRepository(), logger)

	var err error
	s.tokens, err = auth.NewTokenService([]byte("secret"))
	s.Require().NoError(err)
	s.owner = auth.NewID()
	s.token, err = s.tokens.Issue(s.owner, "a@x.com")
	s.Require().NoError(err)

	s.router = httprouter.New()
	s.router.Handler(http.MethodGet, "/books", ListBooksHandler(s.svc, logger))
	s.router.Handler(http.MethodPost, "/books", auth.RequireAuth(CreateBookHandler(s.svc, logger), s.tokens))
	s.router.Handler(http.MethodGet, "/books/:id", GetBookHandler(s.svc, logger))
	s.router.Handler(http.MethodPatch, "/books/:id", auth.RequireAuth(UpdateBookHandler(s.svc, logger), s.tokens))
	s.router.Handler(http.MethodDelete, "/books/:id", auth.RequireAuth(DeleteBookHandler(s.svc, logger), s.tokens))
}

func (s *HandlerTestSuite) do(method, url, body, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, url, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *HandlerTestSuite) createBook() Book {
	w := s.do(http.MethodPost, "/books", bookReq, s.token)
	s.Require().Equal(http.StatusOK, w.Code)

	var b Book
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&b))
	return b
}

func (s *HandlerTestSuite) TestCreateBook_OwnerFromToken() {
	b := s.createBook()

	s.True(IsValidID(string(b.ID)))
	s.Equal(s.owner, b.Author)
	s.Equal("Dune", b.Title)
	s.True(b.HasEbook)
	s.Equal([]string{"en"}, b.Languages)
}

func (s *HandlerTestSuite) TestCreateBook_Rejections() {
	tests := []struct {
		body, token string
		wantCode    int
		wantBody    string
	}{
		{body: bookReq, wantCode: http.StatusUnauthorized, wantBody: `{"message":"Access Denied"}`},
		{body: bookReq, token: s.token + "x", wantCode: http.StatusForbidden, wantBody: `{"message":"Invalid Token"}`},
		{body: `{"title": "Dune"}`, token: s.token, wantCode: http.StatusBadRequest},
		{body: `not json`, token: s.token, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := s.do(http.MethodPost, "/books", tt.body, tt.token)

		s.Equal(tt.wantCode, w.Code)
		if tt.wantBody != "" {
			s.JSONEq(tt.wantBody, w.Body.String())
			continue
		}

		var res map[string]string
		s.NoError(json.NewDecoder(w.Body).Decode(&res))
		s.Equal("Failed to save book", res["error"])
	}

	books, _ := s.svc.ListBooks(context.Background())
	s.Empty(books)
}

func (s *HandlerTestSuite) TestOversizedBodiesRejected() {
	b := s.createBook()
	huge := `{"title": "` + strings.Repeat("x", maxBookBytes) + `"}`

	w := s.do(http.MethodPost, "/books", huge, s.token)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/books/"+string(b.ID), huge, s.token)
	s.Equal(http.StatusBadRequest, w.Code)

	got, err := s.svc.GetBook(context.Background(), b.ID)
	s.Require().NoError(err)
	s.Equal("Dune", got.Title)
}

func (s *HandlerTestSuite) TestGetAndListBooks() {
	b := s.createBook()

	w := s.do(http.MethodGet, "/books/"+string(b.ID), "", "")
	s.Equal(http.StatusOK, w.Code)
	var got Book
	s.NoError(json.NewDecoder(w.Body).Decode(&got))
	s.Equal(b.ID, got.ID)

	w = s.do(http.MethodGet, "/books/"+string(nextID()), "", "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Book not found", w.Body.String())

	w = s.do(http.MethodGet, "/books", "", "")
	s.Equal(http.StatusOK, w.Code)
	var all []Book
	s.NoError(json.NewDecoder(w.Body).Decode(&all))
	s.Len(all, 1)
}

func (s *HandlerTestSuite) TestListBooks_EmptyIsArray() {
	w := s.do(http.MethodGet, "/books", "", "")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *HandlerTestSuite) TestUpdateBook() {
	b := s.createBook()
	other, err := s.tokens.Issue(auth.NewID(), "b@x.com")
	s.Require().NoError(err)

	w := s.do(http.MethodPatch, "/books/"+string(b.ID), `{"price": 5}`, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPatch, "/books/"+string(b.ID), `{"price": 5, "category": "classics"}`, other)
	s.Equal(http.StatusOK, w.Code)
	var got Book
	s.NoError(json.NewDecoder(w.Body).Decode(&got))
	s.Equal(5.0, got.Price)
	s.Equal("classics", got.Category)
	s.Equal(s.owner, got.Author)

	w = s.do(http.MethodPatch, "/books/"+string(b.ID), `{"title": ""}`, s.token)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/books/"+string(nextID()), `{}`, s.token)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestDeleteBook() {
	b := s.createBook()

	w := s.do(http.MethodDelete, "/books/"+string(b.ID), "", "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodDelete, "/books/"+string(b.ID), "", s.token)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Book deleted", w.Body.String())

	w = s.do(http.MethodDelete, "/books/"+string(b.ID), "", s.token)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

type failingService struct {
	Service
}

var errDown = errors.New("server selection timeout")

func (failingService) ListBooks(context.Context) ([]*Book, error) { return nil, errDown }

func TestListBooksHandler_StoreFailure(t *testing.T) {
	logger, logs := test.NewNullLogger()
	w := httptest.NewRecorder()

	ListBooksHandler(failingService{}, logger).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch books"}`, w.Body.String())
	require.NotNil(t, logs.LastEntry())
	assert.Equal(t, errDown, logs.LastEntry().Data["error"])
}

func TestCreateBookHandler_WithoutGate(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := httptest.NewRecorder()

	CreateBookHandler(NewService(NewBookRepository(), logger), logger).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(bookReq)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
