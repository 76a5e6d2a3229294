package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	. "github.com/jimiolaniyan/bookshelf"
	"github.com/jimiolaniyan/bookshelf/auth"
)

type services struct {
	accounts auth.Service
	books    Service
	tokens   auth.TokenVerifier
}

func newRouter(s services, logger logrus.FieldLogger) http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/health", healthHandler())
	router.Handler(http.MethodPost, "/register", auth.RegisterHandler(s.accounts, logger))
	router.Handler(http.MethodPost, "/login", auth.LoginHandler(s.accounts, logger))
	router.Handler(http.MethodGet, "/books", ListBooksHandler(s.books, logger))
	router.Handler(http.MethodPost, "/books", auth.RequireAuth(CreateBookHandler(s.books, logger), s.tokens))
	router.Handler(http.MethodGet, "/books/:id", GetBookHandler(s.books, logger))
	router.Handler(http.MethodPatch, "/books/:id", auth.RequireAuth(UpdateBookHandler(s.books, logger), s.tokens))
	router.Handler(http.MethodDelete, "/books/:id", auth.RequireAuth(DeleteBookHandler(s.books, logger), s.tokens))

	return logRequests(router, logger)
}

func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}
