package groupkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// DATA RETRIEVAL
// ============================================================================

// GetGroup retrieves a group by ID. A missing group is ErrGroupNotFound.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var group Group
	err := dbkit.WithErr1(s.db.NewSelect().
		Model(&group).
		Where("id = ?", groupID).
		Limit(1).
		Scan(ctx), "GetGroup").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrGroupNotFound, "").WithGroup(groupID)
		}
		return nil, NewError(ErrDatabaseError, "failed to load group").WithGroup(groupID)
	}
	return &group, nil
}

// GetPost retrieves a post by ID. A missing post is ErrPostNotFound.
func (s *Service) GetPost(ctx context.Context, postID string) (*Post, error) {
	var post Post
	err := dbkit.WithErr1(s.db.NewSelect().
		Model(&post).
		Where("id = ?", postID).
		Limit(1).
		Scan(ctx), "GetPost").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrPostNotFound, "")
		}
		return nil, NewError(ErrDatabaseError, "failed to load post")
	}
	return &post, nil
}

// GetMembership retrieves the membership record for a (user, group) pair.
// Absence is ErrMembershipNotFound.
func (s *Service) GetMembership(ctx context.Context, userID, groupID string) (*Membership, error) {
	var membership Membership
	err := dbkit.WithErr1(s.db.NewSelect().
		Model(&membership).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Limit(1).
		Scan(ctx), "GetMembership").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrMembershipNotFound, "").
				WithGroup(groupID).
				WithUser(userID)
		}
		return nil, NewError(ErrDatabaseError, "failed to load membership").
			WithGroup(groupID).
			WithUser(userID)
	}
	return &membership, nil
}

// GetUserMemberships retrieves all membership records for a user, indexed by
// group.
func (s *Service) GetUserMemberships(ctx context.Context, userID string) (*UserMemberships, error) {
	var memberships []Membership
	err := dbkit.WithErr1(s.db.NewSelect().
		Model(&memberships).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx), "GetUserMemberships").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to load memberships").WithUser(userID)
	}
	return NewUserMemberships(userID, memberships), nil
}

// ListMembers retrieves the approved memberships of a group in insertion
// order, creator first.
func (s *Service) ListMembers(ctx context.Context, groupID string) ([]Membership, error) {
	var memberships []Membership
	err := dbkit.WithErr1(s.db.NewSelect().
		Model(&memberships).
		Where("group_id = ? AND status = ?", groupID, StatusApproved).
		Order("created_at ASC").
		Scan(ctx), "ListMembers").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to list members").WithGroup(groupID)
	}
	return memberships, nil
}

// ListMemberships retrieves membership records matching a filter.
func (s *Service) ListMemberships(ctx context.Context, filter MembershipFilter) ([]Membership, error) {
	var memberships []Membership
	q := s.db.NewSelect().Model(&memberships)
	q = filter.apply(q)

	err := dbkit.WithErr1(q.Scan(ctx), "ListMemberships").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to list memberships")
	}
	return memberships, nil
}

// ListPosts retrieves posts matching a filter, newest first.
func (s *Service) ListPosts(ctx context.Context, filter PostFilter) ([]Post, error) {
	var posts []Post
	q := s.db.NewSelect().Model(&posts)
	q = filter.apply(q)

	err := dbkit.WithErr1(q.Scan(ctx), "ListPosts").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to list posts")
	}
	return posts, nil
}

// GroupsForUser returns the IDs of all groups where the user holds an
// approved membership.
func (s *Service) GroupsForUser(ctx context.Context, userID string) ([]string, error) {
	var groupIDs []string
	err := dbkit.WithErr1(s.db.NewRaw(
		"SELECT group_id FROM memberships WHERE user_id = ? AND status = ? ORDER BY created_at ASC",
		userID, StatusApproved).Scan(ctx, &groupIDs), "GroupsForUser").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to list groups").WithUser(userID)
	}
	return groupIDs, nil
}

// MembershipExists checks whether any record exists for a (user, group)
// pair. More efficient than GetMembership when only existence matters.
func (s *Service) MembershipExists(ctx context.Context, userID, groupID string) bool {
	exists, err := dbkit.Exists[Membership](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ? AND group_id = ?", userID, groupID)
	})
	if err != nil {
		return false
	}
	return exists
}

// CountMembers returns the number of approved members in a group.
func (s *Service) CountMembers(ctx context.Context, groupID string) (int, error) {
	return dbkit.Count[Membership](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("group_id = ? AND status = ?", groupID, StatusApproved)
	})
}

// CountPendingRequests returns the number of requests awaiting approval.
func (s *Service) CountPendingRequests(ctx context.Context, groupID string) (int, error) {
	return dbkit.Count[Membership](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("group_id = ? AND status = ?", groupID, StatusPending)
	})
}
