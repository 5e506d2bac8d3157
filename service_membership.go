package groupkit

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// MEMBERSHIP WORKFLOW
// ============================================================================

// JoinResult is the outcome of a join request. All values are expected
// outcomes; persistence failures surface as errors instead.
type JoinResult string

const (
	// JoinJoined: public group, membership created already approved.
	JoinJoined JoinResult = "joined"

	// JoinRequestSubmitted: restricted group, membership created pending.
	JoinRequestSubmitted JoinResult = "request_submitted"

	// JoinAlreadyMember: a record already exists for this (user, group) pair,
	// approved or pending. Nothing was changed.
	JoinAlreadyMember JoinResult = "already_member"
)

// ApproveResult is the outcome of an approval.
type ApproveResult string

const (
	// ApproveApproved: the membership is approved. Also returned when it
	// already was (approve is idempotent).
	ApproveApproved ApproveResult = "approved"

	// ApproveMembershipNotFound: the target user never requested to join.
	ApproveMembershipNotFound ApproveResult = "membership_not_found"

	// ApproveUnauthorized: the approver is neither the group's creator nor
	// allowed to manage the group.
	ApproveUnauthorized ApproveResult = "unauthorized"
)

// RequestJoin moves a user from non-member towards membership. Public groups
// are joined in a single step; restricted groups leave the record pending
// until approved.
//
// The duplicate check and the insert form one atomic unit: the memberships
// table carries UNIQUE(user_id, group_id) and the insert runs with ON
// CONFLICT DO NOTHING, so of two concurrent requests for the same pair
// exactly one creates the row and the other observes JoinAlreadyMember.
//
// A nonexistent group is a contract violation (ErrGroupNotFound). On a store
// failure the caller must not assume the membership exists.
func (s *Service) RequestJoin(ctx context.Context, userID, groupID string) (JoinResult, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return "", err
	}

	status := StatusPending
	if group.IsPublic() {
		status = StatusApproved
	}

	membership := &Membership{
		ID:      uuid.NewString(),
		UserID:  userID,
		GroupID: groupID,
		Status:  status,
	}

	result, err := s.db.NewInsert().
		Model(membership).
		On("CONFLICT (user_id, group_id) DO NOTHING").
		Exec(ctx)
	err = dbkit.WithErr(result, err, "CreateMembership").Err()
	if err != nil {
		return "", NewError(ErrDatabaseError, "failed to create membership").
			WithGroup(groupID).
			WithUser(userID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return "", NewError(ErrDatabaseError, "failed to read insert result").
			WithGroup(groupID).
			WithUser(userID)
	}
	if rows == 0 {
		// Lost the race or repeated request; the existing record is untouched.
		return JoinAlreadyMember, nil
	}

	if status == StatusApproved {
		return JoinJoined, nil
	}
	return JoinRequestSubmitted, nil
}

// Approve flips a pending membership to approved. The approver must be the
// group's creator or pass the manage-on-group check (administrators always
// do); anyone else gets ApproveUnauthorized.
//
// Approve is idempotent: approving an already approved membership is a no-op
// success, and concurrent approvals converge on the same terminal state.
// There is no transition back from approved.
func (s *Service) Approve(ctx context.Context, approverID, groupID, targetUserID string) (ApproveResult, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return "", err
	}

	if approverID != group.CreatorID {
		ok, err := s.CanPerform(ctx, approverID, ActionManage, ResourceGroup, group)
		if err != nil {
			return "", err
		}
		if !ok {
			return ApproveUnauthorized, nil
		}
	}

	membership, err := s.GetMembership(ctx, targetUserID, groupID)
	if err != nil {
		if IsNotFound(err) {
			return ApproveMembershipNotFound, nil
		}
		return "", err
	}
	if membership.Approved() {
		return ApproveApproved, nil
	}

	result, err := s.db.NewUpdate().
		Table("memberships").
		Set("status = ?", StatusApproved).
		Set("updated_at = current_timestamp").
		Where("user_id = ? AND group_id = ? AND status = ?", targetUserID, groupID, StatusPending).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "ApproveMembership").Err()
	if err != nil {
		return "", NewError(ErrDatabaseError, "failed to approve membership").
			WithGroup(groupID).
			WithUser(targetUserID).
			WithActor(approverID)
	}

	// Zero rows means a concurrent approve got there first; same terminal
	// state either way.
	return ApproveApproved, nil
}

// PendingRequests lists the memberships awaiting approval for a group, in
// insertion order. Each call is a fresh query.
func (s *Service) PendingRequests(ctx context.Context, groupID string) ([]Membership, error) {
	var memberships []Membership
	err := dbkit.WithErr1(s.db.NewSelect().
		Model(&memberships).
		Where("group_id = ? AND status = ?", groupID, StatusPending).
		Order("created_at ASC").
		Scan(ctx), "PendingRequests").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to list pending requests").
			WithGroup(groupID)
	}
	return memberships, nil
}
