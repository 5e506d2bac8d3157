package groupkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes a function within a database transaction with automatic
// commit/rollback. The function receives a Service bound to the transaction;
// nested calls use savepoints.
//
// Example:
//
//	err := service.Transaction(ctx, func(tx *groupkit.Service) error {
//	    if _, err := tx.RequestJoin(ctx, userA, groupID); err != nil {
//	        return err // rollback
//	    }
//	    if _, err := tx.RequestJoin(ctx, userB, groupID); err != nil {
//	        return err // rollback
//	    }
//	    return nil // commit
//	})
func (s *Service) Transaction(ctx context.Context, fn func(tx *Service) error) error {
	start := time.Now()
	err := s.runInTransaction(ctx, fn)
	s.txMonitor.recordTransaction(time.Since(start), err == nil)
	return err
}

func (s *Service) runInTransaction(ctx context.Context, fn func(tx *Service) error) error {
	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Already in a transaction, use a savepoint.
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(s.withDB(tx))
		})
	case *dbkit.DBKit:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(s.withDB(tx))
		})
	default:
		return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}
}

// TransactionWithOptions executes a function within a database transaction
// with custom options. Supports read-only transactions and isolation levels;
// nested transactions fall back to savepoints without option support.
//
// Example:
//
//	err := service.TransactionWithOptions(ctx, dbkit.SerializableTxOptions(), func(tx *groupkit.Service) error {
//	    _, err := tx.Approve(ctx, approver, groupID, target)
//	    return err
//	})
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(tx *Service) error) error {
	switch db := s.db.(type) {
	case *dbkit.Tx:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(s.withDB(tx))
		})
	case *dbkit.DBKit:
		return db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(s.withDB(tx))
		})
	default:
		return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}
}

// ReadOnlyTransaction executes a function within a read-only database
// transaction. Useful when several reads must observe one consistent
// snapshot, e.g. resolving identity facts and resource ownership for a single
// decision.
//
// Example:
//
//	err := service.ReadOnlyTransaction(ctx, func(tx *groupkit.Service) error {
//	    pending, err := tx.PendingRequests(ctx, groupID)
//	    if err != nil {
//	        return err
//	    }
//	    members, err = tx.ListMembers(ctx, groupID)
//	    return err
//	})
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(tx *Service) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}
