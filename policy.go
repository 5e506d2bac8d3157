package groupkit

import (
	"fmt"
	"sync"
)

// Effect is what a rule does when it matches.
type Effect string

const (
	EffectGrant Effect = "grant"
	EffectDeny  Effect = "deny"
)

// Rule is one entry in a tier's ordered capability list. OwnerOnly rules only
// match when a concrete resource instance owned by the actor is supplied; a
// type-only check never satisfies them.
type Rule struct {
	Effect    Effect
	Action    Action
	Resource  ResourceType
	OwnerOnly bool
}

// String returns a short description of the rule, used in decision output.
func (r Rule) String() string {
	s := fmt.Sprintf("%s %s on %s", r.Effect, r.Action, r.Resource)
	if r.OwnerOnly {
		s += " (owner only)"
	}
	return s
}

func (r Rule) matches(actorID string, action Action, resource ResourceType, instance Resource) bool {
	if r.Resource != resource {
		return false
	}
	if !r.Action.Covers(action) {
		return false
	}
	if r.OwnerOnly {
		if instance == nil {
			return false
		}
		return instance.OwnerID() == actorID
	}
	return true
}

// Policy holds the ordered capability rules for each tier. It is created at
// startup and should be treated as immutable after initialization.
// Administrators are decided before any tier rules apply.
type Policy struct {
	mu    sync.RWMutex
	tiers map[Tier]*TierRules
}

// TierRules is the ordered rule list for one tier. It doubles as the fluent
// builder returned by Policy.ForTier.
type TierRules struct {
	tier   Tier
	rules  []Rule
	policy *Policy
}

// NewPolicy creates an empty policy.
func NewPolicy() *Policy {
	return &Policy{
		tiers: make(map[Tier]*TierRules),
	}
}

// ForTier starts (or continues) defining rules for a tier.
// Returns a TierRules builder for fluent configuration.
//
// Example:
//
//	policy.ForTier(TierBasic).
//	    Grant(ActionManage, ResourceGroup).
//	    Deny(ActionCreate, ResourceGroup)
func (p *Policy) ForTier(tier Tier) *TierRules {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tr, ok := p.tiers[tier]; ok {
		return tr
	}
	tr := &TierRules{tier: tier, policy: p}
	p.tiers[tier] = tr
	return tr
}

// Rules returns the rule list for a tier. Unknown tiers fall back to
// TierNone's rules, the most restrictive non-administrative policy.
func (p *Policy) Rules(tier Tier) []Rule {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if tr, ok := p.tiers[NormalizeTier(tier)]; ok {
		return tr.rules
	}
	return nil
}

// Tiers returns all tiers the policy has rules for.
func (p *Policy) Tiers() []Tier {
	p.mu.RLock()
	defer p.mu.RUnlock()

	tiers := make([]Tier, 0, len(p.tiers))
	for t := range p.tiers {
		tiers = append(tiers, t)
	}
	return tiers
}

// Evaluate runs the actor through the rule list for their tier and returns
// the decision. Rules are scanned in order: a matching grant marks the
// decision allowed, a matching deny is final and stops evaluation. With no
// matching rule the decision is a denial.
//
// Evaluate performs no validation; Checker.Evaluate is the checked entry
// point.
func (p *Policy) Evaluate(actor Actor, action Action, resource ResourceType, instance Resource) Decision {
	d := Decision{
		ActorID:  actor.ID,
		Action:   action,
		Resource: resource,
	}

	if actor.Administrator {
		d.Allowed = true
		d.Reason = "administrator"
		return d
	}

	tier := NormalizeTier(actor.Tier)
	d.Tier = tier
	d.Reason = "no matching rule"

	for _, r := range p.Rules(tier) {
		if !r.matches(actor.ID, action, resource, instance) {
			continue
		}
		rule := r
		if rule.Effect == EffectDeny {
			d.Allowed = false
			d.Rule = &rule
			d.Reason = "denied by rule"
			return d
		}
		d.Allowed = true
		d.Rule = &rule
		d.Reason = "granted by rule"
	}
	return d
}

// Grant appends a grant rule for this tier.
func (tr *TierRules) Grant(action Action, resource ResourceType) *TierRules {
	tr.rules = append(tr.rules, Rule{Effect: EffectGrant, Action: action, Resource: resource})
	return tr
}

// GrantOwned appends a grant rule that only matches resources the actor owns.
//
// Example:
//
//	tier.GrantOwned(ActionManage, ResourcePost) // manage own posts only
func (tr *TierRules) GrantOwned(action Action, resource ResourceType) *TierRules {
	tr.rules = append(tr.rules, Rule{Effect: EffectGrant, Action: action, Resource: resource, OwnerOnly: true})
	return tr
}

// Deny appends a deny rule for this tier. Denies placed after a grant
// override it for the actions they cover.
func (tr *TierRules) Deny(action Action, resource ResourceType) *TierRules {
	tr.rules = append(tr.rules, Rule{Effect: EffectDeny, Action: action, Resource: resource})
	return tr
}

// ForTier continues defining rules for another tier (fluent API).
func (tr *TierRules) ForTier(tier Tier) *TierRules {
	return tr.policy.ForTier(tier)
}

// Rules returns a copy of the rules defined so far for this tier.
func (tr *TierRules) Rules() []Rule {
	out := make([]Rule, len(tr.rules))
	copy(out, tr.rules)
	return out
}

// Tier returns the tier these rules belong to.
func (tr *TierRules) Tier() Tier {
	return tr.tier
}

// DefaultPolicy returns the stock capability table:
//
//   - administrators manage every resource type (decided before tier rules)
//   - basic: manage any group, manage and create own posts, but group
//     creation is explicitly denied
//   - premium: like basic without the denial, plus group creation
//   - none (and unknown tiers): manage and create own posts, read anything
func DefaultPolicy() *Policy {
	p := NewPolicy()

	p.ForTier(TierBasic).
		Grant(ActionManage, ResourceGroup).
		GrantOwned(ActionManage, ResourcePost).
		GrantOwned(ActionCreate, ResourcePost).
		Deny(ActionCreate, ResourceGroup)

	p.ForTier(TierPremium).
		Grant(ActionManage, ResourceGroup).
		Grant(ActionCreate, ResourceGroup).
		GrantOwned(ActionManage, ResourcePost).
		GrantOwned(ActionCreate, ResourcePost)

	p.ForTier(TierNone).
		GrantOwned(ActionManage, ResourcePost).
		GrantOwned(ActionCreate, ResourcePost).
		Grant(ActionRead, ResourceGroup).
		Grant(ActionRead, ResourcePost)

	return p
}
