package groupkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// Authorizer is the read-only decision surface. Satisfied by *Service.
type Authorizer interface {
	CanPerform(ctx context.Context, userID string, action Action, resource ResourceType, instance Resource) (bool, error)
	Explain(ctx context.Context, userID string, action Action, resource ResourceType, instance Resource) (Decision, error)
	GetChecker(ctx context.Context, userID string) (*Checker, error)
}

// MembershipWorkflow drives membership state transitions. Satisfied by
// *Service.
type MembershipWorkflow interface {
	RequestJoin(ctx context.Context, userID, groupID string) (JoinResult, error)
	Approve(ctx context.Context, approverID, groupID, targetUserID string) (ApproveResult, error)
	PendingRequests(ctx context.Context, groupID string) ([]Membership, error)
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(tx *Service) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(tx *Service) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(tx *Service) error) error
}

// MigrationManager defines the migration management interface
type MigrationManager interface {
	Migrations() []dbkit.Migration
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	OptimizeConnectionPool() error
	ResetConnectionPool() error
}

// QueryHelper defines the query helper interface
type QueryHelper interface {
	MembershipExists(ctx context.Context, userID, groupID string) bool
	CountMembers(ctx context.Context, groupID string) (int, error)
	CountPendingRequests(ctx context.Context, groupID string) (int, error)
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}
