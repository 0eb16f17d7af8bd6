package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSavingsAccountName is the name of the auto-created savings account.
const DefaultSavingsAccountName = "Savings"

// accountService implements the account registry: creation rules, ordering,
// the single-primary invariant and deletion protection.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	backup      portssvc.BackupNotifier
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, backup portssvc.BackupNotifier) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: repo,
		backup:      backup,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name must not be empty", apperrors.ErrValidation)
	}

	existing, err := s.accountRepo.FindAccountByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account name uniqueness", slog.String("name", name))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: an account named %q already exists", apperrors.ErrDuplicate, name)
	}

	accountType := domain.CoerceAccountType(string(req.Type))

	// The very first account must be an income source and becomes the
	// primary earning account automatically.
	earningCount, err := s.accountRepo.CountAccountsByType(ctx, domain.Earning)
	if err != nil {
		s.LogError(ctx, err, "Failed to count earning accounts")
		return nil, err
	}
	isPrimary := false
	if earningCount == 0 {
		if accountType != domain.Earning {
			return nil, fmt.Errorf("%w: the first account must be an earning account", apperrors.ErrValidation)
		}
		isPrimary = true
	}

	// New accounts surface first in manual ordering.
	sortIndex := 0
	if min, ok, err := s.accountRepo.MinSortIndex(ctx); err != nil {
		s.LogError(ctx, err, "Failed to read sort index range")
		return nil, err
	} else if ok {
		sortIndex = min - 1
	}

	now := time.Now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		Type:      accountType,
		Icon:      req.Icon,
		IconColor: req.IconColor,
		Balance:   decimal.Zero,
		IsPrimary: isPrimary,
		SortIndex: sortIndex,
		Timestamps: domain.Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("type", string(account.Type)))
	s.backup.NotifyMutation(ctx)
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByType(ctx, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts by type", slog.String("type", string(accountType)))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: account name must not be empty", apperrors.ErrValidation)
		}
		if !strings.EqualFold(name, account.Name) {
			other, err := s.accountRepo.FindAccountByName(ctx, name)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			if other != nil && other.AccountID != accountID {
				return nil, fmt.Errorf("%w: an account named %q already exists", apperrors.ErrDuplicate, name)
			}
		}
		account.Name = name
		updated = true
	}
	if req.Type != nil {
		newType := domain.CoerceAccountType(string(*req.Type))
		if account.IsPrimary && account.Type == domain.Earning && newType != domain.Earning {
			return nil, fmt.Errorf("%w: demote the primary earning account before changing its type", apperrors.ErrValidation)
		}
		account.Type = newType
		updated = true
	}
	if req.Icon != nil {
		account.Icon = *req.Icon
		updated = true
	}
	if req.IconColor != nil {
		account.IconColor = *req.IconColor
		updated = true
	}
	if req.SortIndex != nil {
		account.SortIndex = *req.SortIndex
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.UpdatedAt = time.Now()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	s.backup.NotifyMutation(ctx)
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.Protected() {
		return fmt.Errorf("%w: %s", apperrors.ErrProtectedAccount, account.Name)
	}

	// The repository removes the account row and its transactions in one
	// storage transaction.
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	s.backup.NotifyMutation(ctx)
	return nil
}

// SetPrimaryAccount is the only mutator of the primary flag: the repository
// clears every earning account's flag and sets the new one atomically.
func (s *accountService) SetPrimaryAccount(ctx context.Context, accountID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Type != domain.Earning {
		return fmt.Errorf("%w: only an earning account can be primary", apperrors.ErrValidation)
	}

	if err := s.accountRepo.SetPrimaryAccount(ctx, accountID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to set primary account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Primary account changed", slog.String("account_id", accountID))
	s.backup.NotifyMutation(ctx)
	return nil
}

// EnsureDefaultAccounts creates the default savings account once. It runs at
// startup and is a no-op on every run after the first.
func (s *accountService) EnsureDefaultAccounts(ctx context.Context) error {
	savings, err := s.accountRepo.ListAccountsByType(ctx, domain.Saving)
	if err != nil {
		return fmt.Errorf("failed to check for default savings account: %w", err)
	}
	for _, acc := range savings {
		if acc.IsDefaultSavings {
			return nil
		}
	}

	sortIndex := 0
	if min, ok, err := s.accountRepo.MinSortIndex(ctx); err != nil {
		return err
	} else if ok {
		sortIndex = min - 1
	}

	now := time.Now()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		Name:             DefaultSavingsAccountName,
		Type:             domain.Saving,
		Balance:          decimal.Zero,
		IsDefaultSavings: true,
		SortIndex:        sortIndex,
		Timestamps: domain.Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to create default savings account: %w", err)
	}

	s.LogInfo(ctx, "Default savings account created", slog.String("account_id", account.AccountID))
	return nil
}
