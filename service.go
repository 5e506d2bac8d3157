package groupkit

import (
	"github.com/fernandezvara/dbkit"
)

// Service ties the rule engine, the identity facts provider and the
// membership store together. It integrates with the database through dbkit
// with enhanced error handling.
//
// Error Handling:
// Expected workflow outcomes (already a member, request pending, not
// authorized) are returned as result values, never as errors. Errors are
// reserved for infrastructure failures and contract violations, and wrap
// dbkit's chainable error context where a store operation is involved.
//
// Example:
//
//	result, err := service.RequestJoin(ctx, userID, groupID)
//	if err != nil {
//	    // store failure or nonexistent group; membership state unknown
//	    return err
//	}
//	switch result {
//	case groupkit.JoinJoined:
//	    // public group, immediately approved
//	case groupkit.JoinRequestSubmitted:
//	    // restricted group, awaiting approval
//	case groupkit.JoinAlreadyMember:
//	    // duplicate request, nothing changed
//	}
type Service struct {
	db        dbkit.IDB
	policy    *Policy
	identity  IdentityProvider
	txMonitor *transactionMonitor
}

// NewService creates a new GroupKit service.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	identity := groupkit.NewStaticIdentityProvider()
//	service := groupkit.NewService(groupkit.DefaultPolicy(), identity, db)
func NewService(policy *Policy, identity IdentityProvider, db dbkit.IDB) *Service {
	return &Service{
		db:        db,
		policy:    policy,
		identity:  identity,
		txMonitor: newTransactionMonitor(),
	}
}

// Policy returns the capability policy.
func (s *Service) Policy() *Policy {
	return s.policy
}

// Identity returns the identity facts provider.
func (s *Service) Identity() IdentityProvider {
	return s.identity
}

// withDB returns a copy of the service bound to a different database handle.
// Used to run service operations inside a transaction.
func (s *Service) withDB(db dbkit.IDB) *Service {
	return &Service{
		db:        db,
		policy:    s.policy,
		identity:  s.identity,
		txMonitor: s.txMonitor,
	}
}
