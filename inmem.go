package bookshelf

import (
	"context"
	"sort"
	"sync"
)

type bookRepository struct {
	mu    sync.RWMutex
	books map[BookID]*Book
}

func NewBookRepository() BookRepository {
	return &bookRepository{books: map[BookID]*Book{}}
}

func (repo *bookRepository) Store(_ context.Context, b *Book) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.books[b.ID] = copyBook(b)
	return nil
}

func (repo *bookRepository) FindByID(_ context.Context, id BookID) (*Book, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if b, ok := repo.books[id]; ok {
		return copyBook(b), nil
	}
	return nil, ErrBookNotFound
}

// FindAll returns books oldest first.
func (repo *bookRepository) FindAll(_ context.Context) ([]*Book, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	books := make([]*Book, 0, len(repo.books))
	for _, b := range repo.books {
		books = append(books, copyBook(b))
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID < books[j].ID
		}
		return books[i].CreatedAt.Before(books[j].CreatedAt)
	})
	return books, nil
}

func (repo *bookRepository) Update(_ context.Context, b *Book) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.books[b.ID]; !ok {
		return ErrBookNotFound
	}
	repo.books[b.ID] = copyBook(b)
	return nil
}

func (repo *bookRepository) Delete(_ context.Context, id BookID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(repo.books, id)
	return nil
}

func copyBook(b *Book) *Book {
	c := *b
	if b.Languages != nil {
		c.Languages = make([]string, len(b.Languages))
		copy(c.Languages, b.Languages)
	}
	return &c
}
