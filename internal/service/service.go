// Package service holds the use cases behind the HTTP and CLI surfaces.
package service

import (
	"errors"

	"filerepo/internal/apperr"
)

// storageErr wraps repository failures that are not already typed.
func storageErr(op, path string, err error) error {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		se *apperr.StorageError
		pe *apperr.ProviderError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &se) || errors.As(err, &pe) {
		return err
	}
	return apperr.Storage(op, path, err)
}
