package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// duplicateMessages are the unique violation messages of the supported
// drivers, for connections opened without TranslateError.
var duplicateMessages = []string{
	"UNIQUE constraint failed", // sqlite
	"Duplicate entry",          // mysql
}

// translateDuplicate wraps unique violations into gorm.ErrDuplicatedKey.
func translateDuplicate(err error) error {
	if err == nil || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	for _, msg := range duplicateMessages {
		if strings.Contains(err.Error(), msg) {
			return fmt.Errorf("%w: %v", gorm.ErrDuplicatedKey, err)
		}
	}

	return err
}
