package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "welth/internal/errors"
	"welth/internal/models"
	"welth/internal/pagination"
	"welth/internal/validator"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount opens an account. A user's first account is always the
// default; asking for a default clears the flag on the user's other accounts
// in the same commit.
func (s *accountService) CreateAccount(userID string, in CreateAccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if in.Type != models.AccountTypeCurrent && in.Type != models.AccountTypeSavings {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account type must be CURRENT or SAVINGS")
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}
	if !validator.IsCurrency(currency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency")
	}

	account := &models.Account{
		UserID:   userID,
		Name:     name,
		Type:     in.Type,
		Balance:  in.Balance,
		Currency: currency,
	}

	err := runInTx(s.db, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Account{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		account.IsDefault = existing == 0 || in.IsDefault
		if account.IsDefault {
			if err := clearDefault(tx, userID); err != nil {
				return err
			}
		}

		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user, newest first.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetDefaultAccount returns the user's default account.
func (s *accountService) GetDefaultAccount(userID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("user_id = ? AND is_default = ?", userID, true).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "no default account")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// SetDefaultAccount makes accountID the user's only default account.
func (s *accountService) SetDefaultAccount(userID, accountID string) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsDefault {
		return account, nil
	}

	err = runInTx(s.db, func(tx *gorm.DB) error {
		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		res := tx.Model(&models.Account{}).
			Where("id = ? AND user_id = ?", accountID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	account.IsDefault = true
	return account, nil
}

func clearDefault(tx *gorm.DB, userID string) error {
	if err := tx.Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
	}
	return nil
}

// ApplyTransactionEffect adds delta to the balance of the user's account inside
// tx. The increment is done in SQL so concurrent writers cannot lose updates.
func (s *accountService) ApplyTransactionEffect(tx *gorm.DB, userID, accountID string, delta int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrTransactionFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
