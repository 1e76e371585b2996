package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/apperrors"
)

// repoError maps a repository failure onto an application error.
// notFound is the message used for gorm.ErrRecordNotFound.
func repoError(err error, op, notFound string) error {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("Resource already exists")
	}
	return apperrors.Upstream(op, err)
}
