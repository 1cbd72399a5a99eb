package persistence

import (
	"errors"

	"github.com/edusaas/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto domain errors. It relies on
// gorm.Config.TranslateError so that unique violations arrive as ErrDuplicatedKey.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
