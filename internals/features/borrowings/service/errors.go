package service

import (
	"errors"

	bookService "library_backend/internals/features/books/service"
)

// Jenis error lifecycle. Controller memetakan ke status HTTP dengan errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrAlreadyReturned = errors.New("the book has already been returned by user")
	ErrNotFound        = errors.New("borrowing not found")
	ErrOutOfStock      = bookService.ErrOutOfStock
	ErrBookNotFound    = bookService.ErrBookNotFound
)
