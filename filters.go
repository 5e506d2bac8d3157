package groupkit

import "github.com/uptrace/bun"

// MembershipFilter provides options for filtering membership queries.
type MembershipFilter struct {
	// Filter by group
	GroupID string

	// Filter by user
	UserID string

	// Filter by status ("pending" or "approved")
	Status MembershipStatus

	// Only creator records
	CreatorOnly bool

	// Pagination
	Limit  int
	Offset int
}

// NewMembershipFilter creates a MembershipFilter with default values.
func NewMembershipFilter() MembershipFilter {
	return MembershipFilter{
		Limit: 100,
	}
}

// WithGroup sets the group filter.
func (f MembershipFilter) WithGroup(groupID string) MembershipFilter {
	f.GroupID = groupID
	return f
}

// WithUser sets the user filter.
func (f MembershipFilter) WithUser(userID string) MembershipFilter {
	f.UserID = userID
	return f
}

// WithStatus sets the status filter.
func (f MembershipFilter) WithStatus(status MembershipStatus) MembershipFilter {
	f.Status = status
	return f
}

// OnlyCreators restricts results to creator records.
func (f MembershipFilter) OnlyCreators() MembershipFilter {
	f.CreatorOnly = true
	return f
}

// WithLimit sets the result limit.
func (f MembershipFilter) WithLimit(limit int) MembershipFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the result offset.
func (f MembershipFilter) WithOffset(offset int) MembershipFilter {
	f.Offset = offset
	return f
}

func (f MembershipFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.GroupID != "" {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CreatorOnly {
		q = q.Where("is_creator")
	}

	limit := f.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	return q.Order("created_at ASC")
}

// PostFilter provides options for filtering post queries.
type PostFilter struct {
	// Filter by group
	GroupID string

	// Filter by author
	AuthorID string

	// Pagination
	Limit  int
	Offset int
}

// NewPostFilter creates a PostFilter with default values.
func NewPostFilter() PostFilter {
	return PostFilter{
		Limit: 100,
	}
}

// WithGroup sets the group filter.
func (f PostFilter) WithGroup(groupID string) PostFilter {
	f.GroupID = groupID
	return f
}

// WithAuthor sets the author filter.
func (f PostFilter) WithAuthor(authorID string) PostFilter {
	f.AuthorID = authorID
	return f
}

// WithLimit sets the result limit.
func (f PostFilter) WithLimit(limit int) PostFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the result offset.
func (f PostFilter) WithOffset(offset int) PostFilter {
	f.Offset = offset
	return f
}

func (f PostFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.GroupID != "" {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}

	limit := f.Limit
	if limit == 0 {
		limit = 100
	}
	q = q.Limit(limit)

	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	return q.Order("created_at DESC")
}
