package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/core/services"
	"github.com/arvindks/spendtrack/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockPrefRepo    *MockPreferenceRepository
	backup          *stubBackupNotifier
	service         portssvc.TransactionSvcFacade
	ctx             context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPrefRepo = new(MockPreferenceRepository)
	suite.backup = new(stubBackupNotifier)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockPrefRepo, suite.backup)
	suite.ctx = context.Background()
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pastDay(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func txnOn(id, accountID, amount string, d int) domain.Transaction {
	return domain.Transaction{
		TransactionID:   id,
		AccountID:       accountID,
		Amount:          amt(amount),
		TransactionDate: pastDay(d),
	}
}

// --- Deposit ---

func (suite *TransactionServiceTestSuite) TestDeposit_Success() {
	account := &domain.Account{AccountID: "acc-1", Type: domain.Expenses}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockTxnRepo.On("SaveTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		return len(batch) == 1 && batch[0].Amount.Equal(amt("250")) && !batch[0].IsDeleted
	})).Return(nil)

	txn, err := suite.service.Deposit(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("250"), Remark: "salary", Date: pastDay(10),
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "acc-1", txn.AccountID)
	assert.Equal(suite.T(), 0, txn.EditCount)
	assert.Empty(suite.T(), txn.EditHistory)
	assert.Equal(suite.T(), 1, suite.backup.notified)
}

func (suite *TransactionServiceTestSuite) TestDeposit_FutureDateRejected() {
	_, err := suite.service.Deposit(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("250"), Date: time.Now().Add(48 * time.Hour),
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestDeposit_NonPositiveRejected() {
	_, err := suite.service.Deposit(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("0"), Date: pastDay(10),
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)

	_, err = suite.service.Deposit(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("-10"), Date: pastDay(10),
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

// --- Withdraw ---

func (suite *TransactionServiceTestSuite) TestWithdraw_Success() {
	account := &domain.Account{AccountID: "acc-1", Type: domain.Earning}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{txnOn("t1", "acc-1", "1000", 1)}, nil)
	suite.mockTxnRepo.On("SaveTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		return len(batch) == 1 && batch[0].Amount.Equal(amt("-400"))
	})).Return(nil)

	txn, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("400"), Date: pastDay(5),
	})

	suite.Require().NoError(err)
	assert.True(suite.T(), txn.Amount.IsNegative())
}

func (suite *TransactionServiceTestSuite) TestWithdraw_EarningCannotOverdraw() {
	account := &domain.Account{AccountID: "acc-1", Type: domain.Earning}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{txnOn("t1", "acc-1", "1000", 1)}, nil)

	_, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("1500"), Date: pastDay(5),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNegativeBalance)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_ShortfallAsksByDefault() {
	account := &domain.Account{AccountID: "acc-1", Name: "Wallet", Type: domain.Expenses}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{txnOn("t1", "acc-1", "1000", 1)}, nil)
	suite.mockPrefRepo.On("GetPreference", suite.ctx, services.LowBalanceModeKey("acc-1")).Return("", nil)

	_, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("1500"), Date: pastDay(5),
	})

	var shortfallErr *apperrors.ShortfallConfirmationError
	suite.Require().ErrorAs(err, &shortfallErr)
	assert.True(suite.T(), shortfallErr.Shortfall.Equal(amt("500")), "got %s", shortfallErr.Shortfall)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_ShortfallNeverRejects() {
	account := &domain.Account{AccountID: "acc-1", Name: "Wallet", Type: domain.Expenses}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{txnOn("t1", "acc-1", "1000", 1)}, nil)
	suite.mockPrefRepo.On("GetPreference", suite.ctx, services.LowBalanceModeKey("acc-1")).
		Return(services.CoverModeNever, nil)

	_, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("1500"), Date: pastDay(5),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNegativeBalance)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_ShortfallAutoCovers() {
	account := &domain.Account{AccountID: "acc-1", Name: "Wallet", Type: domain.Expenses}
	primary := domain.Account{AccountID: "acc-main", Name: "Salary", Type: domain.Earning, IsPrimary: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockAccountRepo.On("ListAccountsByType", suite.ctx, domain.Earning).
		Return([]domain.Account{primary}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{txnOn("t1", "acc-1", "1000", 1)}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-main").
		Return([]domain.Transaction{txnOn("t2", "acc-main", "5000", 1)}, nil)
	suite.mockPrefRepo.On("GetPreference", suite.ctx, services.LowBalanceModeKey("acc-1")).
		Return(services.CoverModeAuto, nil)

	suite.mockTxnRepo.On("SaveTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		if len(batch) != 3 {
			return false
		}
		debit, credit, withdrawal := batch[0], batch[1], batch[2]
		return debit.AccountID == "acc-main" && debit.Amount.Equal(amt("-500")) &&
			credit.AccountID == "acc-1" && credit.Amount.Equal(amt("500")) &&
			debit.LinkedTransactionID != nil && *debit.LinkedTransactionID == credit.TransactionID &&
			credit.LinkedTransactionID != nil && *credit.LinkedTransactionID == debit.TransactionID &&
			withdrawal.Amount.Equal(amt("-1500"))
	})).Return(nil)

	txn, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("1500"), Date: pastDay(5),
	})

	suite.Require().NoError(err)
	assert.True(suite.T(), txn.Amount.Equal(amt("-1500")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestWithdraw_ConfirmedCoverProceeds() {
	account := &domain.Account{AccountID: "acc-1", Name: "Wallet", Type: domain.Expenses}
	primary := domain.Account{AccountID: "acc-main", Name: "Salary", Type: domain.Earning, IsPrimary: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockAccountRepo.On("ListAccountsByType", suite.ctx, domain.Earning).
		Return([]domain.Account{primary}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-main").
		Return([]domain.Transaction{txnOn("t2", "acc-main", "5000", 1)}, nil)
	suite.mockPrefRepo.On("GetPreference", suite.ctx, services.LowBalanceModeKey("acc-1")).Return("", nil)
	suite.mockTxnRepo.On("SaveTransactions", suite.ctx, mock.Anything).Return(nil)

	_, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("300"), Date: pastDay(5), ConfirmCover: true,
	})

	suite.Require().NoError(err)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_CoverBlockedWhenPrimaryShort() {
	account := &domain.Account{AccountID: "acc-1", Name: "Wallet", Type: domain.Expenses}
	primary := domain.Account{AccountID: "acc-main", Name: "Salary", Type: domain.Earning, IsPrimary: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockAccountRepo.On("ListAccountsByType", suite.ctx, domain.Earning).
		Return([]domain.Account{primary}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return([]domain.Transaction{}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-main").
		Return([]domain.Transaction{txnOn("t2", "acc-main", "100", 1)}, nil)
	suite.mockPrefRepo.On("GetPreference", suite.ctx, services.LowBalanceModeKey("acc-1")).
		Return(services.CoverModeAuto, nil)

	_, err := suite.service.Withdraw(suite.ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1", Amount: amt("300"), Date: pastDay(5),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNegativeBalance)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
}

// --- Transfer ---

func (suite *TransactionServiceTestSuite) TestTransfer_Success() {
	from := &domain.Account{AccountID: "acc-a", Name: "Salary", Type: domain.Earning}
	to := &domain.Account{AccountID: "acc-b", Name: "Savings", Type: domain.Saving}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-a").Return(from, nil)
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-b").Return(to, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-a").
		Return([]domain.Transaction{txnOn("t1", "acc-a", "1000", 1)}, nil)

	suite.mockTxnRepo.On("SaveTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		if len(batch) != 2 {
			return false
		}
		src, dst := batch[0], batch[1]
		return src.Amount.Equal(amt("-200")) && dst.Amount.Equal(amt("200")) &&
			src.Remark == domain.RemarkTransferredTo+"Savings" &&
			dst.Remark == domain.RemarkTransferredFrom+"Salary" &&
			src.LinkedTransactionID != nil && *src.LinkedTransactionID == dst.TransactionID &&
			dst.LinkedTransactionID != nil && *dst.LinkedTransactionID == src.TransactionID
	})).Return(nil)

	txn, err := suite.service.Transfer(suite.ctx, dto.TransferRequest{
		FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: amt("200"), Date: pastDay(5),
	})

	suite.Require().NoError(err)
	assert.True(suite.T(), txn.Amount.IsNegative(), "the source half is returned")
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestTransfer_SameAccountRejected() {
	_, err := suite.service.Transfer(suite.ctx, dto.TransferRequest{
		FromAccountID: "acc-a", ToAccountID: "acc-a", Amount: amt("200"), Date: pastDay(5),
	})
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestTransfer_InsufficientSourceRejected() {
	from := &domain.Account{AccountID: "acc-a", Name: "Salary", Type: domain.Earning}
	to := &domain.Account{AccountID: "acc-b", Name: "Savings", Type: domain.Saving}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-a").Return(from, nil)
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-b").Return(to, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-a").
		Return([]domain.Transaction{txnOn("t1", "acc-a", "100", 1)}, nil)

	_, err := suite.service.Transfer(suite.ctx, dto.TransferRequest{
		FromAccountID: "acc-a", ToAccountID: "acc-b", Amount: amt("200"), Date: pastDay(5),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNegativeBalance)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactions", mock.Anything, mock.Anything)
}

// --- Request ---

func (suite *TransactionServiceTestSuite) TestRequest_Success() {
	target := &domain.Account{AccountID: "acc-b", Name: "Wallet", Type: domain.Expenses}
	primary := domain.Account{AccountID: "acc-main", Name: "Salary", Type: domain.Earning, IsPrimary: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-b").Return(target, nil)
	suite.mockAccountRepo.On("ListAccountsByType", suite.ctx, domain.Earning).
		Return([]domain.Account{primary}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-main").
		Return([]domain.Transaction{txnOn("t1", "acc-main", "5000", 1)}, nil)

	suite.mockTxnRepo.On("SaveTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		if len(batch) != 2 {
			return false
		}
		debit, credit := batch[0], batch[1]
		return debit.AccountID == "acc-main" && debit.Amount.Equal(amt("-750")) &&
			debit.Remark == domain.RemarkRequestedBy+"Wallet" &&
			credit.AccountID == "acc-b" && credit.Remark == domain.RemarkRequestedFrom+"Salary"
	})).Return(nil)

	txn, err := suite.service.Request(suite.ctx, dto.RequestFundsRequest{
		TargetAccountID: "acc-b", Amount: amt("750"), Date: pastDay(5),
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "acc-b", txn.AccountID, "the credited half is returned")
	assert.True(suite.T(), txn.Amount.Equal(amt("750")))
}

func (suite *TransactionServiceTestSuite) TestRequest_NoPrimaryFails() {
	target := &domain.Account{AccountID: "acc-b", Name: "Wallet", Type: domain.Expenses}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-b").Return(target, nil)
	suite.mockAccountRepo.On("ListAccountsByType", suite.ctx, domain.Earning).
		Return([]domain.Account{}, nil)

	_, err := suite.service.Request(suite.ctx, dto.RequestFundsRequest{
		TargetAccountID: "acc-b", Amount: amt("750"), Date: pastDay(5),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

// --- AmendAmount ---

func (suite *TransactionServiceTestSuite) TestAmendAmount_PreservesSign() {
	target := txnOn("t2", "acc-1", "-300", 5)
	entries := []domain.Transaction{txnOn("t1", "acc-1", "1000", 1), target}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t2").Return(&target, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").Return(entries, nil)
	suite.mockTxnRepo.On("AmendTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		return len(batch) == 1 && batch[0].Amount.Equal(amt("-450")) && batch[0].EditCount == 1
	})).Return(nil)

	txn, err := suite.service.AmendAmount(suite.ctx, dto.AmendTransactionRequest{
		TransactionID: "t2", Amount: amt("450"),
	})

	suite.Require().NoError(err)
	assert.True(suite.T(), txn.Amount.Equal(amt("-450")), "a debit stays a debit")
	suite.Require().Len(txn.EditHistory, 1)
	assert.True(suite.T(), txn.EditHistory[0].Amount.Equal(amt("300")), "history keeps the previous absolute value")
}

func (suite *TransactionServiceTestSuite) TestAmendAmount_EditLimitEnforced() {
	target := txnOn("t2", "acc-1", "-300", 5)
	target.EditCount = domain.MaxEditCount

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t2").Return(&target, nil)

	_, err := suite.service.AmendAmount(suite.ctx, dto.AmendTransactionRequest{
		TransactionID: "t2", Amount: amt("450"),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrEditLimitExceeded)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "AmendTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAmendAmount_OnlyLatestIsEditable() {
	target := txnOn("t1", "acc-1", "1000", 1)
	entries := []domain.Transaction{target, txnOn("t2", "acc-1", "-300", 5)}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t1").Return(&target, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").Return(entries, nil)

	_, err := suite.service.AmendAmount(suite.ctx, dto.AmendTransactionRequest{
		TransactionID: "t1", Amount: amt("900"),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrStaleEditTarget)
}

func (suite *TransactionServiceTestSuite) TestAmendAmount_DeletedEntryRejected() {
	target := txnOn("t2", "acc-1", "-300", 5)
	target.IsDeleted = true

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t2").Return(&target, nil)

	_, err := suite.service.AmendAmount(suite.ctx, dto.AmendTransactionRequest{
		TransactionID: "t2", Amount: amt("450"),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestAmendAmount_LinkedAmendsBothHalves() {
	srcID, dstID := "t-src", "t-dst"
	src := txnOn(srcID, "acc-a", "-200", 5)
	src.Remark = domain.RemarkTransferredTo + "Savings"
	src.LinkedTransactionID = &dstID
	dst := txnOn(dstID, "acc-b", "200", 5)
	dst.Remark = domain.RemarkTransferredFrom + "Salary"
	dst.LinkedTransactionID = &srcID

	srcEntries := []domain.Transaction{txnOn("t0", "acc-a", "1000", 1), src}
	dstEntries := []domain.Transaction{dst}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, srcID).Return(&src, nil)
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, dstID).Return(&dst, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-a").Return(srcEntries, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-b").Return(dstEntries, nil)
	suite.mockTxnRepo.On("AmendTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		return len(batch) == 2 &&
			batch[0].Amount.Equal(amt("-350")) && batch[1].Amount.Equal(amt("350")) &&
			batch[0].EditCount == 1 && batch[1].EditCount == 1
	})).Return(nil)

	txn, err := suite.service.AmendAmount(suite.ctx, dto.AmendTransactionRequest{
		TransactionID: srcID, Amount: amt("350"),
	})

	suite.Require().NoError(err)
	assert.True(suite.T(), txn.Amount.Equal(amt("-350")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestAmendAmount_CounterpartEditLimitBlocks() {
	srcID, dstID := "t-src", "t-dst"
	src := txnOn(srcID, "acc-a", "-200", 5)
	src.Remark = domain.RemarkTransferredTo + "Savings"
	src.LinkedTransactionID = &dstID
	dst := txnOn(dstID, "acc-b", "200", 5)
	dst.EditCount = domain.MaxEditCount
	dst.LinkedTransactionID = &srcID

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, srcID).Return(&src, nil)
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, dstID).Return(&dst, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-a").
		Return([]domain.Transaction{txnOn("t0", "acc-a", "1000", 1), src}, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-b").
		Return([]domain.Transaction{dst}, nil)

	_, err := suite.service.AmendAmount(suite.ctx, dto.AmendTransactionRequest{
		TransactionID: srcID, Amount: amt("350"),
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrEditLimitExceeded)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "AmendTransactions", mock.Anything, mock.Anything)
}

// --- SetRemark ---

func (suite *TransactionServiceTestSuite) TestSetRemark_Success() {
	target := txnOn("t1", "acc-1", "100", 1)
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t1").Return(&target, nil)
	suite.mockTxnRepo.On("UpdateRemark", suite.ctx, "t1", "groceries").Return(nil)

	err := suite.service.SetRemark(suite.ctx, "t1", "groceries")
	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- DeleteTransaction ---

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Success() {
	target := txnOn("t2", "acc-1", "-300", 5)
	entries := []domain.Transaction{txnOn("t1", "acc-1", "1000", 1), target}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t2").Return(&target, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").Return(entries, nil)
	suite.mockTxnRepo.On("SoftDeleteTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		return len(batch) == 1 && batch[0].IsDeleted && len(batch[0].EditHistory) == 0
	}), mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.DeleteTransaction(suite.ctx, "t2")
	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_SentinelAppendedAfterEdits() {
	target := txnOn("t2", "acc-1", "-300", 5)
	target.EditCount = 1
	target.EditHistory = domain.EditHistory{}.WithAmount(amt("250"))
	entries := []domain.Transaction{txnOn("t1", "acc-1", "1000", 1), target}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t2").Return(&target, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").Return(entries, nil)
	suite.mockTxnRepo.On("SoftDeleteTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		if len(batch) != 1 || len(batch[0].EditHistory) != 2 {
			return false
		}
		return batch[0].EditHistory[1].Kind == domain.EditRecordDeleted
	}), mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.DeleteTransaction(suite.ctx, "t2")
	suite.Require().NoError(err)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_OnlyLatestIsDeletable() {
	target := txnOn("t1", "acc-1", "1000", 1)
	entries := []domain.Transaction{target, txnOn("t2", "acc-1", "-300", 5)}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "t1").Return(&target, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").Return(entries, nil)

	err := suite.service.DeleteTransaction(suite.ctx, "t1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrStaleEditTarget)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_LinkedDeletesBothOrNeither() {
	srcID, dstID := "t-src", "t-dst"
	src := txnOn(srcID, "acc-a", "-200", 5)
	src.Remark = domain.RemarkTransferredTo + "Savings"
	src.LinkedTransactionID = &dstID
	dst := txnOn(dstID, "acc-b", "200", 5)
	dst.Remark = domain.RemarkTransferredFrom + "Salary"
	dst.LinkedTransactionID = &srcID

	// The counterpart funds a later withdrawal on its account, so removing
	// it would break that account's timeline. Nothing may be written.
	dstEntries := []domain.Transaction{dst, txnOn("t-after", "acc-b", "-150", 6)}
	srcEntries := []domain.Transaction{txnOn("t0", "acc-a", "1000", 1), src}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, srcID).Return(&src, nil)
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, dstID).Return(&dst, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-a").Return(srcEntries, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-b").Return(dstEntries, nil)

	err := suite.service.DeleteTransaction(suite.ctx, srcID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrStaleEditTarget)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SoftDeleteTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_LinkedDeletesCounterpartToo() {
	srcID, dstID := "t-src", "t-dst"
	src := txnOn(srcID, "acc-a", "-200", 5)
	src.Remark = domain.RemarkTransferredTo + "Savings"
	src.LinkedTransactionID = &dstID
	dst := txnOn(dstID, "acc-b", "200", 5)
	dst.Remark = domain.RemarkTransferredFrom + "Salary"
	dst.LinkedTransactionID = &srcID

	srcEntries := []domain.Transaction{txnOn("t0", "acc-a", "1000", 1), src}
	dstEntries := []domain.Transaction{dst}

	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, srcID).Return(&src, nil)
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, dstID).Return(&dst, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-a").Return(srcEntries, nil)
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-b").Return(dstEntries, nil)
	suite.mockTxnRepo.On("SoftDeleteTransactions", suite.ctx, mock.MatchedBy(func(batch []domain.Transaction) bool {
		// Both halves of the pair go to storage in one batch.
		if len(batch) != 2 || batch[0].TransactionID != srcID || batch[1].TransactionID != dstID {
			return false
		}
		return batch[0].IsDeleted && batch[1].IsDeleted
	}), mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.DeleteTransaction(suite.ctx, srcID)
	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.Equal(1, suite.backup.notified)
}

// --- ListByAccount ---

func (suite *TransactionServiceTestSuite) TestListByAccount_DegradesToEmpty() {
	suite.mockTxnRepo.On("ListTransactionsByAccount", suite.ctx, "acc-1").
		Return(nil, errors.New("disk failure"))

	entries, err := suite.service.ListByAccount(suite.ctx, "acc-1")

	suite.Require().NoError(err)
	assert.NotNil(suite.T(), entries)
	assert.Empty(suite.T(), entries)
}

// --- Low-balance mode ---

func (suite *TransactionServiceTestSuite) TestGetLowBalanceMode_DefaultsToAsk() {
	account := &domain.Account{AccountID: "acc-1", Type: domain.Expenses}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockPrefRepo.On("GetPreference", suite.ctx, services.LowBalanceModeKey("acc-1")).Return("", nil)

	mode, err := suite.service.GetLowBalanceMode(suite.ctx, "acc-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), services.CoverModeAsk, mode)
}

func (suite *TransactionServiceTestSuite) TestSetLowBalanceMode_RejectsUnknown() {
	err := suite.service.SetLowBalanceMode(suite.ctx, "acc-1", "sometimes")
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockPrefRepo.AssertNotCalled(suite.T(), "SetPreference", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestSetLowBalanceMode_Stores() {
	account := &domain.Account{AccountID: "acc-1", Type: domain.Expenses}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)
	suite.mockPrefRepo.On("SetPreference", suite.ctx, services.LowBalanceModeKey("acc-1"), services.CoverModeAuto).Return(nil)

	err := suite.service.SetLowBalanceMode(suite.ctx, "acc-1", services.CoverModeAuto)

	suite.Require().NoError(err)
	suite.mockPrefRepo.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
