package bookshelf

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/jimiolaniyan/bookshelf/auth"
)

const maxBookBytes = 1 << 20

func ListBooksHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.ListBooks(r.Context())
		if err != nil {
			encodeError(w, logger, err, "Failed to fetch books")
			return
		}
		encodeJSON(w, logger, http.StatusOK, books)
	})
}

// CreateBookHandler must sit behind auth.RequireAuth; the new book's author
// is the authenticated account.
func CreateBookHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		if !ok {
			encodeJSON(w, logger, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
			return
		}

		var in bookInput
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBookBytes)).Decode(&in); err != nil {
			encodeError(w, logger, ErrInvalidBook, "Failed to save book")
			return
		}

		book, err := svc.CreateBook(r.Context(), id.AccountID, in)
		if err != nil {
			encodeError(w, logger, err, "Failed to save book")
			return
		}
		encodeJSON(w, logger, http.StatusOK, book)
	})
}

func GetBookHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		book, err := svc.GetBook(r.Context(), bookIDFrom(r))
		if err != nil {
			encodeError(w, logger, err, "Failed to fetch book")
			return
		}
		encodeJSON(w, logger, http.StatusOK, book)
	})
}

func UpdateBookHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p bookPatch
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBookBytes)).Decode(&p); err != nil {
			encodeError(w, logger, ErrInvalidBook, "Failed to update book")
			return
		}

		book, err := svc.UpdateBook(r.Context(), bookIDFrom(r), p)
		if err != nil {
			encodeError(w, logger, err, "Failed to update book")
			return
		}
		encodeJSON(w, logger, http.StatusOK, book)
	})
}

func DeleteBookHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteBook(r.Context(), bookIDFrom(r)); err != nil {
			encodeError(w, logger, err, "Failed to delete book")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Book deleted"))
	})
}

func bookIDFrom(r *http.Request) BookID {
	return BookID(httprouter.ParamsFromContext(r.Context()).ByName("id"))
}

// encodeError writes not-found as plain text, invalid input as 400 with the
// reason, and anything else as 500 without details.
func encodeError(w http.ResponseWriter, logger logrus.FieldLogger, err error, msg string) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Book not found"))
	case errors.Is(err, ErrInvalidBook):
		encodeJSON(w, logger, http.StatusBadRequest, map[string]string{"error": msg, "details": err.Error()})
	default:
		logger.WithError(err).Error(msg)
		encodeJSON(w, logger, http.StatusInternalServerError, map[string]string{"error": msg})
	}
}

func encodeJSON(w http.ResponseWriter, logger logrus.FieldLogger, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("encoding response")
	}
}
