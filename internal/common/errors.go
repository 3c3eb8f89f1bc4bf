// Package common содержит общие sentinel-ошибки слоя данных.
// Сравнивать через errors.Is.
package common

import "errors"

var (
	// ошибки репозиториев
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrReferenceNotFound = errors.New("referenced row not found")

	// ошибки валидации входных данных
	ErrValidation = errors.New("validation error")
)
