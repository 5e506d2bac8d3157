package groupkit

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// POST OPERATIONS
// ============================================================================

// CreatePost publishes a post in a group. The authorization check receives
// the post being created, so the owner-only create rule matches the author;
// the author must additionally hold an approved membership in the group.
func (s *Service) CreatePost(ctx context.Context, authorID, groupID, title, description string) (*Post, error) {
	post := &Post{
		ID:          uuid.NewString(),
		GroupID:     groupID,
		AuthorID:    authorID,
		Title:       title,
		Description: description,
	}

	ok, err := s.CanPerform(ctx, authorID, ActionCreate, ResourcePost, post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewError(ErrUnauthorized, "cannot create posts").
			WithActor(authorID).
			WithAction(ActionCreate, ResourcePost)
	}

	membership, err := s.GetMembership(ctx, authorID, groupID)
	if err != nil {
		if IsNotFound(err) {
			return nil, NewError(ErrNotMember, "posting requires an approved membership").
				WithGroup(groupID).
				WithActor(authorID)
		}
		return nil, err
	}
	if !membership.Approved() {
		return nil, NewError(ErrNotMember, "membership still pending").
			WithGroup(groupID).
			WithActor(authorID)
	}

	result, err := s.db.NewInsert().Model(post).Exec(ctx)
	err = dbkit.WithErr(result, err, "CreatePost").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to create post").
			WithGroup(groupID).
			WithActor(authorID)
	}
	return post, nil
}

// UpdatePost changes a post's title and description. The concrete post is
// passed into the check so only the author (or an administrator) passes.
func (s *Service) UpdatePost(ctx context.Context, actorID, postID, title, description string) (*Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanPerform(ctx, actorID, ActionUpdate, ResourcePost, post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewError(ErrUnauthorized, "cannot update this post").
			WithActor(actorID).
			WithAction(ActionUpdate, ResourcePost)
	}

	result, err := s.db.NewUpdate().
		Table("posts").
		Set("title = ?", title).
		Set("description = ?", description).
		Set("updated_at = current_timestamp").
		Where("id = ?", postID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "UpdatePost").Err()
	if err != nil {
		return nil, NewError(ErrDatabaseError, "failed to update post").WithActor(actorID)
	}

	post.Title = title
	post.Description = description
	return post, nil
}

// DeletePost removes a post. Same ownership rules as UpdatePost.
func (s *Service) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	ok, err := s.CanPerform(ctx, actorID, ActionDelete, ResourcePost, post)
	if err != nil {
		return err
	}
	if !ok {
		return NewError(ErrUnauthorized, "cannot delete this post").
			WithActor(actorID).
			WithAction(ActionDelete, ResourcePost)
	}

	result, err := s.db.NewDelete().
		Table("posts").
		Where("id = ?", postID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "DeletePost").Err()
	if err != nil {
		return NewError(ErrDatabaseError, "failed to delete post").WithActor(actorID)
	}
	return nil
}
