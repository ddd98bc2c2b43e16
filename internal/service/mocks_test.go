// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) Rebind(query string) string {
	return query
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) InsertUserIfAbsent(ctx context.Context, q repository.DBExecutor, user *domain.User) (bool, error) {
	args := m.Called(ctx, q, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateUserProfile(ctx context.Context, q repository.DBExecutor, id int64, displayName, handle string, at time.Time) error {
	args := m.Called(ctx, q, id, displayName, handle, at)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByReferralCode(ctx context.Context, q repository.DBExecutor, code string) (*domain.User, error) {
	args := m.Called(ctx, q, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Credit(ctx context.Context, q repository.DBExecutor, id int64, amount decimal.Decimal) error {
	args := m.Called(ctx, q, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) TryDebit(ctx context.Context, q repository.DBExecutor, id int64, amount decimal.Decimal) error {
	args := m.Called(ctx, q, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) SetLastBonusClaimedAt(ctx context.Context, q repository.DBExecutor, id int64, at, notAfter time.Time) (bool, error) {
	args := m.Called(ctx, q, id, at, notAfter)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) LinkReferrer(ctx context.Context, q repository.DBExecutor, id, referrerID int64) (bool, error) {
	args := m.Called(ctx, q, id, referrerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListUserIDs(ctx context.Context, q repository.DBExecutor) ([]int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context, q repository.DBExecutor) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SumBalances(ctx context.Context, q repository.DBExecutor) (decimal.Decimal, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockReferralRepository is a mock implementation of repository.ReferralRepository.
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) InsertReferralIfAbsent(ctx context.Context, q repository.DBExecutor, referral *domain.Referral) (bool, error) {
	args := m.Called(ctx, q, referral)
	return args.Bool(0), args.Error(1)
}

func (m *MockReferralRepository) CountByReferrer(ctx context.Context, q repository.DBExecutor, referrerID int64) (int64, error) {
	args := m.Called(ctx, q, referrerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of repository.WithdrawalRepository.
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, request *domain.WithdrawalRequest) error {
	args := m.Called(ctx, q, request)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.WithdrawalRequest, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockWithdrawalRepository) CountWithdrawalsByStatus(ctx context.Context, q repository.DBExecutor, status domain.WithdrawalStatus) (int64, error) {
	args := m.Called(ctx, q, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// mockEnv bundles the mocks behind one set of service dependencies.
type mockEnv struct {
	users       *MockUserRepository
	referrals   *MockReferralRepository
	withdrawals *MockWithdrawalRepository
	beginner    *MockDBBeginner
	executor    *MockDBExecutor
	tx          *MockTxController
	begins      int
}

func newMockEnv() *mockEnv {
	return &mockEnv{
		users:       new(MockUserRepository),
		referrals:   new(MockReferralRepository),
		withdrawals: new(MockWithdrawalRepository),
		beginner:    new(MockDBBeginner),
		executor:    new(MockDBExecutor),
		tx:          new(MockTxController),
	}
}

func (e *mockEnv) deps() Deps {
	return Deps{
		DBBeginner:  e.beginner,
		DBExecutor:  e.executor,
		Users:       e.users,
		Referrals:   e.referrals,
		Withdrawals: e.withdrawals,
		BeginTx: func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			e.begins++
			return e.tx, nil
		},
		CommitTx: func(tx db.TxController) error {
			return e.tx.Commit()
		},
		RollbackTx: func(tx db.TxController) {
			_ = e.tx.Rollback()
		},
		Retry: db.RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
	}
}

func (e *mockEnv) assertExpectations(t mock.TestingT) {
	mock.AssertExpectationsForObjects(t, e.users, e.referrals, e.withdrawals, e.beginner, e.executor, e.tx)
}
