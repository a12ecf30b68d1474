package services

import (
	"errors"
	"fmt"

	"levelup_api/internal/storage"

	"gorm.io/gorm"
)

var (
	ErrForbidden = errors.New("forbidden")
)

// NotFoundError names the record a lookup failed to resolve. It unwraps to
// storage.ErrNotFound.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s matching %s does not exist", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return storage.ErrNotFound
}

func lookupErr(err error, resource, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return storage.Translate(err)
}

func rollback(tx *gorm.DB) {
	if r := recover(); r != nil {
		tx.Rollback()
		panic(r)
	}
}
