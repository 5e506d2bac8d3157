package groupkit

import "context"

// ============================================================================
// AUTHORIZATION
// ============================================================================

// resolveActor turns a user ID into the identity facts the rule engine needs.
// Unknown tiers are normalized to TierNone.
func (s *Service) resolveActor(ctx context.Context, userID string) (Actor, error) {
	tier, err := s.identity.Tier(ctx, userID)
	if err != nil {
		return Actor{}, NewError(ErrDatabaseError, "failed to resolve tier").WithActor(userID)
	}
	admin, err := s.identity.IsAdministrator(ctx, userID)
	if err != nil {
		return Actor{}, NewError(ErrDatabaseError, "failed to resolve administrator flag").WithActor(userID)
	}
	return Actor{ID: userID, Tier: NormalizeTier(tier), Administrator: admin}, nil
}

// GetChecker creates a Checker for a user. This can be stored in context for
// repeated permission checking in handlers.
func (s *Service) GetChecker(ctx context.Context, userID string) (*Checker, error) {
	actor, err := s.resolveActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewChecker(actor, s.policy), nil
}

// GetCheckerFromContext creates a Checker using the user ID from context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	userID := GetUserID(ctx)
	if userID == "" {
		return nil, ErrNoUserID
	}
	return s.GetChecker(ctx, userID)
}

// CanPerform reports whether a user may perform an action on a resource.
// Denial is a false value, not an error; errors indicate identity lookup
// failures or contract violations (undefined action, resource instance not
// matching the resource type).
//
// Ownership-scoped rules require the concrete instance:
//
//	ok, err := service.CanPerform(ctx, userID, ActionUpdate, ResourcePost, post)
//
// Type-only checks pass nil:
//
//	ok, err := service.CanPerform(ctx, userID, ActionCreate, ResourceGroup, nil)
func (s *Service) CanPerform(ctx context.Context, userID string, action Action, resource ResourceType, instance Resource) (bool, error) {
	d, err := s.Explain(ctx, userID, action, resource, instance)
	if err != nil {
		return false, err
	}
	return d.Allowed, nil
}

// Explain runs the same check as CanPerform but returns the full decision,
// including the rule that produced it.
func (s *Service) Explain(ctx context.Context, userID string, action Action, resource ResourceType, instance Resource) (Decision, error) {
	checker, err := s.GetChecker(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	return checker.Evaluate(action, resource, instance)
}
