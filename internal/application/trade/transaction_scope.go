package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories touched
// by an order save. When a function is executed within a transaction scope,
// all repository operations will be part of the same database transaction and
// will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories participating
// in an order save. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// HistoryRepo returns the order history repository scoped to the current transaction
	HistoryRepo() trade.OrderHistoryRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// LockProduct reads a product with a row lock held for the remainder of
	// the transaction, so a stock check and the following write cannot race
	// with a concurrent confirmation
	LockProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	orderRepo   trade.OrderRepository
	historyRepo trade.OrderHistoryRepository
	productRepo catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	historyRepo trade.OrderHistoryRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// HistoryRepo returns the order history repository.
func (s *NoOpTransactionScope) HistoryRepo() trade.OrderHistoryRepository {
	return s.historyRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// LockProduct reads the product without locking; there is no transaction to
// hold a lock in.
func (s *NoOpTransactionScope) LockProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
