package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/core/ledger"
	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrFutureDated      = errors.New("transaction date must not be in the future")
	ErrNonPositive      = errors.New("amount must be positive")
	ErrNoPrimaryAccount = errors.New("no primary earning account is configured")
	ErrSameAccount      = errors.New("source and destination accounts must differ")
	ErrEntryDeleted     = errors.New("entry is deleted")
)

// Low-balance cover modes, persisted per account in the preference store.
const (
	CoverModeAuto  = "auto"
	CoverModeNever = "never"
	CoverModeAsk   = "ask"
)

// LowBalanceModeKey returns the preference key holding an account's
// low-balance cover mode.
func LowBalanceModeKey(accountID string) string {
	return "account:" + accountID + ":low_balance_mode"
}

// transactionService provides the ledger-entry operations: inserts, bounded
// edits, soft deletes and the two-sided linked operations. Every mutation is
// validated against the balance invariant before the repository writes.
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	prefRepo    portsrepo.PreferenceRepositoryFacade
	backup      portssvc.BackupNotifier
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	prefRepo portsrepo.PreferenceRepositoryFacade,
	backup portssvc.BackupNotifier,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		prefRepo:    prefRepo,
		backup:      backup,
	}
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func validateEntryInput(amount decimal.Decimal, date time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositive)
	}
	if date.After(time.Now()) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrFutureDated)
	}
	return nil
}

func newEntry(accountID string, amount decimal.Decimal, remark string, date time.Time, receiptPath string) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       accountID,
		Amount:          amount,
		Remark:          remark,
		EditHistory:     domain.EditHistory{},
		TransactionDate: date,
		CreatedAt:       time.Now(),
		ReceiptPath:     receiptPath,
	}
}

// linkPair sets the mutual back-references on both halves of a pair.
func linkPair(a, b *domain.Transaction) {
	aID, bID := a.TransactionID, b.TransactionID
	a.LinkedTransactionID = &bID
	b.LinkedTransactionID = &aID
}

func (s *transactionService) Deposit(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := validateEntryInput(req.Amount, req.Date); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		return nil, err
	}

	txn := newEntry(req.AccountID, req.Amount, req.Remark, req.Date, req.ReceiptPath)
	if err := s.txnRepo.SaveTransactions(ctx, []domain.Transaction{txn}); err != nil {
		s.LogError(ctx, err, "Failed to save deposit", slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Deposit recorded", slog.String("transaction_id", txn.TransactionID))
	s.backup.NotifyMutation(ctx)
	return &txn, nil
}

func (s *transactionService) Withdraw(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := validateEntryInput(req.Amount, req.Date); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	entries, err := s.txnRepo.ListTransactionsByAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	withdrawal := newEntry(req.AccountID, req.Amount.Neg(), req.Remark, req.Date, req.ReceiptPath)

	// How much is actually available at the chosen (possibly backdated)
	// instant, not just the current total.
	available, err := ledger.BalanceAsOf(entries, req.Date)
	if err != nil {
		available = decimal.Zero
	}

	batch := []domain.Transaction{withdrawal}
	if available.LessThan(req.Amount) && account.Type != domain.Earning {
		cover, err := s.coverShortfall(ctx, account, req.Amount.Sub(available), req.Date, req.ConfirmCover)
		if err != nil {
			return nil, err
		}
		batch = append(cover, withdrawal)
	}

	// Replay the full timeline with every hypothetical entry in place; the
	// invariant must hold at every prefix, not just the final sum.
	var covered []domain.Transaction
	for _, t := range batch {
		if t.AccountID == req.AccountID {
			covered = append(covered, t)
		}
	}
	if _, err := ledger.Replay(ledger.WithEntry(entries, covered...)); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransactions(ctx, batch); err != nil {
		s.LogError(ctx, err, "Failed to save withdrawal", slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal recorded",
		slog.String("transaction_id", withdrawal.TransactionID),
		slog.Int("entries_written", len(batch)))
	s.backup.NotifyMutation(ctx)
	return &withdrawal, nil
}

// coverShortfall prepares the linked request pair that covers a low-balance
// withdrawal from the primary earning account, honoring the per-account
// preference: auto-request, never, or ask-each-time.
func (s *transactionService) coverShortfall(ctx context.Context, account *domain.Account, shortfall decimal.Decimal, date time.Time, confirmed bool) ([]domain.Transaction, error) {
	mode, err := s.prefRepo.GetPreference(ctx, LowBalanceModeKey(account.AccountID))
	if err != nil {
		s.LogError(ctx, err, "Failed to read low-balance preference", slog.String("account_id", account.AccountID))
		mode = CoverModeAsk
	}

	switch mode {
	case CoverModeNever:
		return nil, apperrors.ErrNegativeBalance
	case CoverModeAuto:
		// Proceed without confirmation.
	default:
		if !confirmed {
			return nil, &apperrors.ShortfallConfirmationError{Shortfall: shortfall}
		}
	}

	primary, err := s.primaryEarningAccount(ctx)
	if err != nil {
		return nil, err
	}
	primaryEntries, err := s.txnRepo.ListTransactionsByAccount(ctx, primary.AccountID)
	if err != nil {
		return nil, err
	}

	// The covering pair is dated just before the withdrawal so the credit
	// replays ahead of it regardless of ID ordering.
	coverDate := date.Add(-time.Millisecond)
	debit := newEntry(primary.AccountID, shortfall.Neg(), domain.RemarkRequestedBy+account.Name, coverDate, "")
	credit := newEntry(account.AccountID, shortfall, domain.RemarkRequestedFrom+primary.Name, coverDate, "")
	linkPair(&debit, &credit)

	if _, err := ledger.Replay(ledger.WithEntry(primaryEntries, debit)); err != nil {
		return nil, err
	}
	return []domain.Transaction{debit, credit}, nil
}

func (s *transactionService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.Transaction, error) {
	if err := validateEntryInput(req.Amount, req.Date); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSameAccount)
	}
	from, err := s.accountRepo.FindAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.FindAccountByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, err
	}

	fromEntries, err := s.txnRepo.ListTransactionsByAccount(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}

	src := newEntry(from.AccountID, req.Amount.Neg(), domain.RemarkTransferredTo+to.Name, req.Date, "")
	dst := newEntry(to.AccountID, req.Amount, domain.RemarkTransferredFrom+from.Name, req.Date, "")
	linkPair(&src, &dst)

	// Only the debited side can violate the invariant.
	if _, err := ledger.Replay(ledger.WithEntry(fromEntries, src)); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransactions(ctx, []domain.Transaction{src, dst}); err != nil {
		s.LogError(ctx, err, "Failed to save transfer",
			slog.String("from", req.FromAccountID), slog.String("to", req.ToAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer recorded",
		slog.String("source_id", src.TransactionID), slog.String("destination_id", dst.TransactionID))
	s.backup.NotifyMutation(ctx)
	return &src, nil
}

func (s *transactionService) Request(ctx context.Context, req dto.RequestFundsRequest) (*domain.Transaction, error) {
	if err := validateEntryInput(req.Amount, req.Date); err != nil {
		return nil, err
	}
	target, err := s.accountRepo.FindAccountByID(ctx, req.TargetAccountID)
	if err != nil {
		return nil, err
	}
	primary, err := s.primaryEarningAccount(ctx)
	if err != nil {
		return nil, err
	}
	if primary.AccountID == target.AccountID {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSameAccount)
	}

	primaryEntries, err := s.txnRepo.ListTransactionsByAccount(ctx, primary.AccountID)
	if err != nil {
		return nil, err
	}

	debit := newEntry(primary.AccountID, req.Amount.Neg(), domain.RemarkRequestedBy+target.Name, req.Date, "")
	credit := newEntry(target.AccountID, req.Amount, domain.RemarkRequestedFrom+primary.Name, req.Date, "")
	linkPair(&debit, &credit)

	if _, err := ledger.Replay(ledger.WithEntry(primaryEntries, debit)); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransactions(ctx, []domain.Transaction{debit, credit}); err != nil {
		s.LogError(ctx, err, "Failed to save request", slog.String("target", req.TargetAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Request recorded", slog.String("credit_id", credit.TransactionID))
	s.backup.NotifyMutation(ctx)
	return &credit, nil
}

func (s *transactionService) AmendAmount(ctx context.Context, req dto.AmendTransactionRequest) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositive)
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsDeleted {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrEntryDeleted)
	}
	if txn.EditCount >= domain.MaxEditCount {
		return nil, apperrors.ErrEditLimitExceeded
	}

	entries, err := s.txnRepo.ListTransactionsByAccount(ctx, txn.AccountID)
	if err != nil {
		return nil, err
	}
	if !ledger.IsLatest(entries, txn.TransactionID) {
		return nil, apperrors.ErrStaleEditTarget
	}

	newAmount := req.Amount
	if txn.Amount.IsNegative() {
		newAmount = newAmount.Neg()
	}

	batch := []domain.Transaction{amended(*txn, newAmount)}

	if txn.Linked() {
		counterpart, cpEntries, err := s.resolveCounterpart(ctx, *txn)
		if err != nil {
			return nil, err
		}
		if counterpart.EditCount >= domain.MaxEditCount {
			return nil, apperrors.ErrEditLimitExceeded
		}
		cpAmount := req.Amount
		if counterpart.Amount.IsNegative() {
			cpAmount = cpAmount.Neg()
		}
		// Both accounts must stay valid with the proposed amounts in place.
		if _, err := ledger.Replay(ledger.WithAmended(cpEntries, counterpart.TransactionID, cpAmount)); err != nil {
			return nil, err
		}
		batch = append(batch, amended(*counterpart, cpAmount))
	}

	if _, err := ledger.Replay(ledger.WithAmended(entries, txn.TransactionID, newAmount)); err != nil {
		return nil, err
	}

	if err := s.txnRepo.AmendTransactions(ctx, batch); err != nil {
		s.LogError(ctx, err, "Failed to amend entry", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Entry amended",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int("edit_count", batch[0].EditCount))
	s.backup.NotifyMutation(ctx)
	return &batch[0], nil
}

// amended returns a copy of txn with the new amount applied, the previous
// absolute amount appended to history, and the edit count bumped.
func amended(txn domain.Transaction, newAmount decimal.Decimal) domain.Transaction {
	txn.EditHistory = txn.EditHistory.WithAmount(txn.Amount)
	txn.EditCount++
	txn.Amount = newAmount
	return txn
}

func (s *transactionService) SetRemark(ctx context.Context, transactionID string, remark string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.IsDeleted {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrEntryDeleted)
	}
	if err := s.txnRepo.UpdateRemark(ctx, transactionID, remark); err != nil {
		s.LogError(ctx, err, "Failed to update remark", slog.String("transaction_id", transactionID))
		return err
	}
	s.backup.NotifyMutation(ctx)
	return nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.IsDeleted {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrEntryDeleted)
	}

	entries, err := s.txnRepo.ListTransactionsByAccount(ctx, txn.AccountID)
	if err != nil {
		return err
	}
	if !ledger.IsLatest(entries, txn.TransactionID) {
		return apperrors.ErrStaleEditTarget
	}
	if _, err := ledger.Replay(ledger.WithRemoved(entries, txn.TransactionID)); err != nil {
		return err
	}

	batch := []domain.Transaction{softDeleted(*txn)}

	if txn.Linked() {
		// Both sides must pass eligibility and the invariant before either
		// is touched; otherwise nothing is written.
		counterpart, cpEntries, err := s.resolveCounterpart(ctx, *txn)
		if err != nil {
			return err
		}
		if !ledger.IsLatest(cpEntries, counterpart.TransactionID) {
			return apperrors.ErrStaleEditTarget
		}
		if _, err := ledger.Replay(ledger.WithRemoved(cpEntries, counterpart.TransactionID)); err != nil {
			return err
		}
		batch = append(batch, softDeleted(*counterpart))
	}

	if err := s.txnRepo.SoftDeleteTransactions(ctx, batch, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Entry deleted",
		slog.String("transaction_id", transactionID),
		slog.Int("entries_deleted", len(batch)))
	s.backup.NotifyMutation(ctx)
	return nil
}

// softDeleted returns a copy of txn marked deleted. The Deleted sentinel is
// appended to history only when the entry had prior edits.
func softDeleted(txn domain.Transaction) domain.Transaction {
	if txn.EditCount > 0 {
		txn.EditHistory = txn.EditHistory.WithDeleted()
	}
	txn.IsDeleted = true
	return txn
}

// ListByAccount never raises: a storage failure degrades to an empty history
// so display paths keep working.
func (s *transactionService) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	entries, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions, degrading to empty", slog.String("account_id", accountID))
		return []domain.Transaction{}, nil
	}
	if entries == nil {
		return []domain.Transaction{}, nil
	}
	return entries, nil
}

func (s *transactionService) GetLowBalanceMode(ctx context.Context, accountID string) (string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return "", err
	}
	mode, err := s.prefRepo.GetPreference(ctx, LowBalanceModeKey(accountID))
	if err != nil {
		return "", err
	}
	if mode == "" {
		mode = CoverModeAsk
	}
	return mode, nil
}

func (s *transactionService) SetLowBalanceMode(ctx context.Context, accountID string, mode string) error {
	switch mode {
	case CoverModeAuto, CoverModeNever, CoverModeAsk:
	default:
		return fmt.Errorf("%w: unknown low-balance mode %q", apperrors.ErrValidation, mode)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.prefRepo.SetPreference(ctx, LowBalanceModeKey(accountID), mode); err != nil {
		s.LogError(ctx, err, "Failed to store low-balance mode", slog.String("account_id", accountID))
		return err
	}
	return nil
}

func (s *transactionService) primaryEarningAccount(ctx context.Context) (*domain.Account, error) {
	earning, err := s.accountRepo.ListAccountsByType(ctx, domain.Earning)
	if err != nil {
		return nil, err
	}
	for i := range earning {
		if earning[i].IsPrimary {
			return &earning[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrNotFound, ErrNoPrimaryAccount)
}

// resolveCounterpart locates the other half of a linked pair along with its
// account's full entry set. Rows with an explicit back-reference resolve by
// ID; legacy rows fall back to the remark/amount/time heuristic over every
// peer account.
func (s *transactionService) resolveCounterpart(ctx context.Context, txn domain.Transaction) (*domain.Transaction, []domain.Transaction, error) {
	if txn.LinkedTransactionID != nil {
		counterpart, err := s.txnRepo.FindTransactionByID(ctx, *txn.LinkedTransactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, apperrors.ErrLinkedEntryNotFound
			}
			return nil, nil, err
		}
		cpEntries, err := s.txnRepo.ListTransactionsByAccount(ctx, counterpart.AccountID)
		if err != nil {
			return nil, nil, err
		}
		return counterpart, cpEntries, nil
	}

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	var candidates []domain.Transaction
	for _, acc := range accounts {
		if acc.AccountID == txn.AccountID {
			continue
		}
		peer, err := s.txnRepo.ListTransactionsByAccount(ctx, acc.AccountID)
		if err != nil {
			return nil, nil, err
		}
		candidates = append(candidates, peer...)
	}

	counterpart := ledger.ResolveCounterpart(txn, candidates)
	if counterpart == nil {
		return nil, nil, apperrors.ErrLinkedEntryNotFound
	}
	cpEntries, err := s.txnRepo.ListTransactionsByAccount(ctx, counterpart.AccountID)
	if err != nil {
		return nil, nil, err
	}
	return counterpart, cpEntries, nil
}
