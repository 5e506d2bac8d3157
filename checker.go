package groupkit

import "fmt"

// Decision is the outcome of one authorization check, including the rule that
// produced it. It exists so callers can explain a denial without any audit
// trail.
type Decision struct {
	Allowed  bool
	ActorID  string
	Tier     Tier
	Action   Action
	Resource ResourceType
	Rule     *Rule // matched rule, nil for administrator or no-match decisions
	Reason   string
}

// String renders the decision for humans.
//
// Examples:
//
//	"allow create on group: administrator"
//	"deny create on group: denied by rule (tier basic)"
func (d Decision) String() string {
	verdict := "deny"
	if d.Allowed {
		verdict = "allow"
	}
	if d.Tier != "" {
		return fmt.Sprintf("%s %s on %s: %s (tier %s)", verdict, d.Action, d.Resource, d.Reason, d.Tier)
	}
	return fmt.Sprintf("%s %s on %s: %s", verdict, d.Action, d.Resource, d.Reason)
}

// Checker answers authorization questions for a single actor. It is created
// by the Service once the actor's identity facts are resolved, and can be
// stored in context for use in handlers.
type Checker struct {
	actor  Actor
	policy *Policy
}

// NewChecker creates a Checker for an actor.
func NewChecker(actor Actor, policy *Policy) *Checker {
	return &Checker{actor: actor, policy: policy}
}

// Actor returns the actor this checker is for.
func (c *Checker) Actor() Actor {
	return c.actor
}

// Evaluate validates the inputs and runs the policy, returning the full
// decision. A resource instance whose type disagrees with the stated resource
// type is a contract violation and fails fast with ErrInvalidResource; it is
// never reported as a mere denial.
func (c *Checker) Evaluate(action Action, resource ResourceType, instance Resource) (Decision, error) {
	if err := ValidateAction(action); err != nil {
		return Decision{}, err
	}
	if err := ValidateResourceType(resource); err != nil {
		return Decision{}, err
	}
	if instance != nil && instance.ResourceType() != resource {
		return Decision{}, NewError(ErrInvalidResource,
			fmt.Sprintf("got %s, want %s", instance.ResourceType(), resource)).
			WithActor(c.actor.ID).
			WithAction(action, resource)
	}
	return c.policy.Evaluate(c.actor, action, resource, instance), nil
}

// Can reports whether the actor may perform the action. Contract violations
// also come back as false; use Evaluate when the distinction matters.
//
// Ownership-scoped rules need the concrete instance: a type-only check
// (nil instance) cannot authorize updating an existing post.
//
// Example:
//
//	if checker.Can(ActionUpdate, ResourcePost, post) {
//	    // actor may edit this post
//	}
func (c *Checker) Can(action Action, resource ResourceType, instance Resource) bool {
	d, err := c.Evaluate(action, resource, instance)
	if err != nil {
		return false
	}
	return d.Allowed
}

// CanAny reports whether the actor may perform any of the listed actions.
func (c *Checker) CanAny(actions []Action, resource ResourceType, instance Resource) bool {
	for _, a := range actions {
		if c.Can(a, resource, instance) {
			return true
		}
	}
	return false
}

// CanAll reports whether the actor may perform all of the listed actions.
func (c *Checker) CanAll(actions []Action, resource ResourceType, instance Resource) bool {
	for _, a := range actions {
		if !c.Can(a, resource, instance) {
			return false
		}
	}
	return true
}

// CanManage is shorthand for a manage check.
func (c *Checker) CanManage(resource ResourceType, instance Resource) bool {
	return c.Can(ActionManage, resource, instance)
}

// CanCreateGroup reports whether the actor may create groups. This is where
// the basic tier's explicit denial bites even though it can otherwise manage
// groups.
func (c *Checker) CanCreateGroup() bool {
	return c.Can(ActionCreate, ResourceGroup, nil)
}
