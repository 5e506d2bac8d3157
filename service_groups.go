package groupkit

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// GROUP OPERATIONS
// ============================================================================

// CreateGroup creates a group and its creator's membership in one
// transaction. The creator's record is approved immediately and flagged
// IsCreator, making them the group's first member.
//
// Requires the create-on-group capability: premium users and administrators
// pass, basic users are explicitly denied.
func (s *Service) CreateGroup(ctx context.Context, creatorID, name, description string, visibility Visibility) (*Group, error) {
	ok, err := s.CanPerform(ctx, creatorID, ActionCreate, ResourceGroup, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewError(ErrUnauthorized, "cannot create groups").
			WithActor(creatorID).
			WithAction(ActionCreate, ResourceGroup)
	}

	group := &Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Visibility:  visibility,
		CreatorID:   creatorID,
	}
	membership := &Membership{
		ID:        uuid.NewString(),
		UserID:    creatorID,
		GroupID:   group.ID,
		Status:    StatusApproved,
		IsCreator: true,
	}

	err = s.Transaction(ctx, func(tx *Service) error {
		result, err := tx.db.NewInsert().Model(group).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateGroup").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to create group").
				WithActor(creatorID)
		}

		result, err = tx.db.NewInsert().Model(membership).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateCreatorMembership").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to create creator membership").
				WithGroup(group.ID).
				WithUser(creatorID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup destroys a group and everything it owns: posts and memberships
// go in the same transaction. Requires manage-on-group.
func (s *Service) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	ok, err := s.CanPerform(ctx, actorID, ActionDelete, ResourceGroup, group)
	if err != nil {
		return err
	}
	if !ok {
		return NewError(ErrUnauthorized, "cannot delete this group").
			WithActor(actorID).
			WithGroup(groupID).
			WithAction(ActionDelete, ResourceGroup)
	}

	return s.Transaction(ctx, func(tx *Service) error {
		// The schema cascades on group deletion; the explicit deletes keep
		// stores without FK enforcement consistent.
		result, err := tx.db.NewDelete().Table("posts").
			Where("group_id = ?", groupID).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteGroupPosts").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to delete group posts").WithGroup(groupID)
		}

		result, err = tx.db.NewDelete().Table("memberships").
			Where("group_id = ?", groupID).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteGroupMemberships").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to delete group memberships").WithGroup(groupID)
		}

		result, err = tx.db.NewDelete().Table("groups").
			Where("id = ?", groupID).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteGroup").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to delete group").WithGroup(groupID)
		}
		return nil
	})
}

// UpdateGroup changes a group's name, description or visibility. Requires
// update-on-group.
func (s *Service) UpdateGroup(ctx context.Context, actorID string, group *Group) error {
	ok, err := s.CanPerform(ctx, actorID, ActionUpdate, ResourceGroup, group)
	if err != nil {
		return err
	}
	if !ok {
		return NewError(ErrUnauthorized, "cannot update this group").
			WithActor(actorID).
			WithGroup(group.ID).
			WithAction(ActionUpdate, ResourceGroup)
	}

	result, err := s.db.NewUpdate().
		Table("groups").
		Set("name = ?", group.Name).
		Set("description = ?", group.Description).
		Set("visibility = ?", group.Visibility).
		Set("updated_at = current_timestamp").
		Where("id = ?", group.ID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "UpdateGroup").Err()
	if err != nil {
		return NewError(ErrDatabaseError, "failed to update group").WithGroup(group.ID)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return NewError(ErrGroupNotFound, "nothing to update").WithGroup(group.ID)
	}
	return nil
}
