// Package groupkit provides tier-based authorization and membership workflows
// for user groups.
//
// GroupKit answers two questions for applications built around groups and
// user-generated content: "may this user perform this action on this
// resource?" and "how does this user become a member of this group?". The
// first is decided by an ordered list of capability rules parameterized by
// subscription tier and resource ownership; the second by a small state
// machine over membership records (pending/approved) that branches on group
// visibility (public vs. restricted).
//
// # Core Concepts
//
// Tier: a user's subscription level (none, basic, premium). Each tier maps to
// an ordered list of grant/deny rules. Administrators bypass tier rules.
//
// Rule: a (effect, action, resource type, owner-only) tuple. Actions form a
// small closed set where "manage" covers create/read/update/delete. A deny
// rule is final: it overrides any grant matched earlier in the list, which is
// how the basic tier can manage groups it can see but still be refused group
// creation.
//
// Membership: the record of a user's relationship to a group. At most one
// record exists per (user, group) pair, enforced with a unique constraint so
// concurrent duplicate join requests collapse into a single row.
//
// Visibility: public groups are joined immediately; restricted groups put the
// requester into pending until the group's creator (or anyone who may manage
// the group) approves.
//
// # Basic Usage
//
//	// 1. Create the service with the stock policy
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	identity := groupkit.NewStaticIdentityProvider()
//	service := groupkit.NewService(groupkit.DefaultPolicy(), identity, db)
//
//	// 2. Run migrations
//	db.Migrate(ctx, groupkit.NewMigrationService(service).Migrations())
//
//	// 3. Create a group (premium users and administrators may)
//	group, err := service.CreateGroup(ctx, userID, "gophers", "a place to talk Go", groupkit.VisibilityRestricted)
//
//	// 4. Membership workflow
//	result, err := service.RequestJoin(ctx, otherUserID, group.ID)
//	// result == groupkit.JoinRequestSubmitted for restricted groups
//
//	outcome, err := service.Approve(ctx, userID, group.ID, otherUserID)
//	// outcome == groupkit.ApproveApproved
//
//	// 5. Authorization checks
//	ok, err := service.CanPerform(ctx, otherUserID, groupkit.ActionUpdate, groupkit.ResourcePost, post)
//
// Expected outcomes such as "already a member" or "not authorized" are result
// values, not errors; errors are reserved for infrastructure failures and
// contract violations. Decisions can be explained:
//
//	decision, _ := service.Explain(ctx, userID, groupkit.ActionCreate, groupkit.ResourceGroup, nil)
//	fmt.Println(decision) // e.g. "deny create on group: denied by rule (tier basic)"
//
// # Middleware Usage
//
//	mw := groupkit.NewMiddleware(service)
//
//	router.Handle("/groups/{groupID}/posts",
//	    mw.RequireAction(groupkit.ActionCreate, groupkit.TypeOnly(groupkit.ResourcePost))(createPostHandler))
//
// GroupKit is storage-backed through dbkit/bun and performs no retries,
// caching, or logging of its own; every operation takes the acting user
// explicitly.
package groupkit
