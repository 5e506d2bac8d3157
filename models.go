package groupkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Tier is a user's subscription level. It controls which capability rules
// apply to the user. Unknown values are treated as TierNone, the most
// restrictive non-administrative tier.
type Tier string

const (
	TierNone    Tier = "none"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// Known reports whether the tier is one of the defined values.
func (t Tier) Known() bool {
	switch t {
	case TierNone, TierBasic, TierPremium:
		return true
	}
	return false
}

// NormalizeTier maps unknown or empty tiers to TierNone.
func NormalizeTier(t Tier) Tier {
	if !t.Known() {
		return TierNone
	}
	return t
}

// Visibility controls how a user joins a group: public groups are joined
// immediately, restricted groups require approval.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityRestricted Visibility = "restricted"
)

// MembershipStatus is the approval state of a membership record. It is a
// string enum rather than a boolean to leave room for future states
// (e.g. "rejected") without reinterpreting existing rows.
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusApproved MembershipStatus = "approved"
)

// Actor carries the identity facts the rule engine needs: who the user is,
// their tier, and whether they are an administrator. Actors are resolved
// through an IdentityProvider and passed explicitly into every check.
type Actor struct {
	ID            string
	Tier          Tier
	Administrator bool
}

// Resource is implemented by entities the rule engine can reason over.
// OwnerID feeds the owner-only rules (a post is owned by its author, a group
// by its creator).
type Resource interface {
	ResourceType() ResourceType
	OwnerID() string
}

// Group is a user-created group. The creator holds the first membership
// record, flagged IsCreator. Deleting a group removes its memberships and
// posts.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID          string     `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name        string     `bun:"name,notnull"`
	Description string     `bun:"description"`
	Visibility  Visibility `bun:"visibility,notnull"`
	CreatorID   string     `bun:"creator_id,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// ResourceType implements Resource.
func (g *Group) ResourceType() ResourceType { return ResourceGroup }

// OwnerID implements Resource. A group is owned by its creator.
func (g *Group) OwnerID() string { return g.CreatorID }

// IsPublic reports whether joining this group requires no approval.
func (g *Group) IsPublic() bool { return g.Visibility == VisibilityPublic }

// Membership records a user's relationship to a group. At most one row exists
// per (user, group) pair; the table enforces it with a unique constraint.
type Membership struct {
	bun.BaseModel `bun:"table:memberships,alias:m"`

	ID        string           `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID    string           `bun:"user_id,notnull"`
	GroupID   string           `bun:"group_id,notnull"`
	Status    MembershipStatus `bun:"status,notnull"`
	IsCreator bool             `bun:"is_creator,notnull,default:false"`
	CreatedAt time.Time        `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time        `bun:"updated_at,notnull,default:current_timestamp"`
}

// Approved reports whether the membership is active.
func (m *Membership) Approved() bool { return m.Status == StatusApproved }

// Pending reports whether the membership awaits approval.
func (m *Membership) Pending() bool { return m.Status == StatusPending }

// Post is content published by a member inside a group. A post always belongs
// to exactly one group and one author.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	GroupID     string    `bun:"group_id,notnull"`
	AuthorID    string    `bun:"author_id,notnull"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ResourceType implements Resource.
func (p *Post) ResourceType() ResourceType { return ResourcePost }

// OwnerID implements Resource. A post is owned by its author.
func (p *Post) OwnerID() string { return p.AuthorID }

// UserMemberships holds all memberships for a user, indexed by group for fast
// lookup.
type UserMemberships struct {
	UserID      string
	Memberships []Membership

	byGroup map[string]*Membership
}

// NewUserMemberships builds a UserMemberships from a list of records.
func NewUserMemberships(userID string, memberships []Membership) *UserMemberships {
	um := &UserMemberships{
		UserID:      userID,
		Memberships: memberships,
		byGroup:     make(map[string]*Membership, len(memberships)),
	}
	for i := range memberships {
		um.byGroup[memberships[i].GroupID] = &memberships[i]
	}
	return um
}

// In returns the membership for a group, or nil if the user has none.
func (um *UserMemberships) In(groupID string) *Membership {
	return um.byGroup[groupID]
}

// MemberOf reports whether the user is an approved member of the group.
func (um *UserMemberships) MemberOf(groupID string) bool {
	m := um.In(groupID)
	return m != nil && m.Approved()
}

// PendingIn reports whether the user has a pending request for the group.
func (um *UserMemberships) PendingIn(groupID string) bool {
	m := um.In(groupID)
	return m != nil && m.Pending()
}

// GroupIDs returns the IDs of all groups the user has any record in.
func (um *UserMemberships) GroupIDs() []string {
	ids := make([]string, 0, len(um.Memberships))
	for _, m := range um.Memberships {
		ids = append(ids, m.GroupID)
	}
	return ids
}
