package services

import (
	"gorm.io/gorm"

	apperrors "welth/internal/errors"
)

// runInTx executes fn in one database transaction. Application errors pass
// through unchanged; anything else (a failed commit, a driver error) is
// reported as TRANSACTION_FAILED so callers know nothing was written.
func runInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
}
