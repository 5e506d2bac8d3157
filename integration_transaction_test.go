package groupkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernandezvara/dbkit"
)

// TestIntegrationTransactionCommit tests that work inside a transaction lands
// atomically
func TestIntegrationTransactionCommit(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	group, _ := helper.CreateTestGroup("tx-commit", VisibilityPublic)
	userA := helper.CreateTestUser("tx-a", TierBasic)
	userB := helper.CreateTestUser("tx-b", TierBasic)

	err := service.Transaction(ctx, func(tx *Service) error {
		if _, err := tx.RequestJoin(ctx, userA, group.ID); err != nil {
			return err
		}
		_, err := tx.RequestJoin(ctx, userB, group.ID)
		return err
	})
	require.NoError(t, err)

	helper.AssertMembershipStatus(userA, group.ID, StatusApproved)
	helper.AssertMembershipStatus(userB, group.ID, StatusApproved)
}

// TestIntegrationTransactionRollback tests that a failing callback rolls back
// everything
func TestIntegrationTransactionRollback(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	group, _ := helper.CreateTestGroup("tx-rollback", VisibilityPublic)
	userID := helper.CreateTestUser("tx-roll", TierBasic)

	boom := errors.New("boom")
	err := service.Transaction(ctx, func(tx *Service) error {
		if _, err := tx.RequestJoin(ctx, userID, group.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The join inside the failed transaction never happened
	helper.AssertNoMembership(userID, group.ID)
}

// TestIntegrationTransactionNested tests savepoint behavior for nested
// transactions
func TestIntegrationTransactionNested(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	group, _ := helper.CreateTestGroup("tx-nested", VisibilityPublic)
	outerUser := helper.CreateTestUser("tx-outer", TierBasic)
	innerUser := helper.CreateTestUser("tx-inner", TierBasic)

	err := service.Transaction(ctx, func(tx *Service) error {
		if _, err := tx.RequestJoin(ctx, outerUser, group.ID); err != nil {
			return err
		}

		// The inner failure only rolls back to the savepoint
		inner := tx.Transaction(ctx, func(tx2 *Service) error {
			if _, err := tx2.RequestJoin(ctx, innerUser, group.ID); err != nil {
				return err
			}
			return errors.New("inner boom")
		})
		assert.Error(t, inner)

		return nil
	})
	require.NoError(t, err)

	helper.AssertMembershipStatus(outerUser, group.ID, StatusApproved)
	helper.AssertNoMembership(innerUser, group.ID)
}

// TestIntegrationReadOnlyTransaction tests snapshot reads
func TestIntegrationReadOnlyTransaction(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	group, _ := helper.CreateTestGroup("tx-readonly", VisibilityRestricted)
	userID := helper.CreateTestUser("tx-ro", TierBasic)

	_, err := service.RequestJoin(ctx, userID, group.ID)
	require.NoError(t, err)

	var pending []Membership
	var members []Membership
	err = service.ReadOnlyTransaction(ctx, func(tx *Service) error {
		var err error
		if pending, err = tx.PendingRequests(ctx, group.ID); err != nil {
			return err
		}
		members, err = tx.ListMembers(ctx, group.ID)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Len(t, members, 1) // creator only
}

// TestIntegrationTransactionWithOptions tests serializable approve
func TestIntegrationTransactionWithOptions(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	group, creatorID := helper.CreateTestGroup("tx-opts", VisibilityRestricted)
	userID := helper.CreateTestUser("tx-opt", TierBasic)

	_, err := service.RequestJoin(ctx, userID, group.ID)
	require.NoError(t, err)

	err = service.TransactionWithOptions(ctx, dbkit.SerializableTxOptions(), func(tx *Service) error {
		outcome, err := tx.Approve(ctx, creatorID, group.ID, userID)
		if err != nil {
			return err
		}
		assert.Equal(t, ApproveApproved, outcome)
		return nil
	})
	require.NoError(t, err)

	helper.AssertMembershipStatus(userID, group.ID, StatusApproved)
}

// TestIntegrationTransactionMetrics tests that the monitor observes real
// transactions
func TestIntegrationTransactionMetrics(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service := helper.GetService()
	ctx := helper.GetContext()

	service.ResetTransactionMetrics()

	group, _ := helper.CreateTestGroup("tx-metrics", VisibilityPublic)
	userID := helper.CreateTestUser("tx-m", TierBasic)

	err := service.Transaction(ctx, func(tx *Service) error {
		_, err := tx.RequestJoin(ctx, userID, group.ID)
		return err
	})
	require.NoError(t, err)

	_ = service.Transaction(ctx, func(tx *Service) error {
		return errors.New("deliberate failure")
	})

	metrics := service.GetTransactionMetrics()
	// CreateTestGroup's transaction plus the two above
	assert.GreaterOrEqual(t, metrics.TotalTransactions, int64(3))
	assert.GreaterOrEqual(t, metrics.FailedTransactions, int64(1))
	assert.GreaterOrEqual(t, metrics.MaxDuration, metrics.MinDuration)
}
