package groupkit

// Action is a capability the rule engine can grant or deny. ActionManage is a
// superset: a rule granting manage covers create, read, update and delete.
type Action string

const (
	ActionManage Action = "manage"
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceType identifies the kind of entity an action targets.
type ResourceType string

const (
	ResourceGroup ResourceType = "group"
	ResourcePost  ResourceType = "post"
)

// Valid reports whether the action is one of the defined values.
func (a Action) Valid() bool {
	switch a {
	case ActionManage, ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Covers reports whether a rule written for this action applies to the
// requested one. Manage covers everything; other actions only cover
// themselves.
//
// Examples:
//
//	ActionManage.Covers(ActionUpdate) // true
//	ActionCreate.Covers(ActionCreate) // true
//	ActionCreate.Covers(ActionManage) // false - create does not imply manage
func (a Action) Covers(requested Action) bool {
	if a == requested {
		return true
	}
	return a == ActionManage
}

// Valid reports whether the resource type is one of the defined values.
func (rt ResourceType) Valid() bool {
	switch rt {
	case ResourceGroup, ResourcePost:
		return true
	}
	return false
}

// CRUDActions returns the concrete actions covered by ActionManage.
func CRUDActions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
}

// ValidateAction checks that an action is defined.
func ValidateAction(a Action) error {
	if !a.Valid() {
		return NewError(ErrInvalidAction, string(a))
	}
	return nil
}

// ValidateResourceType checks that a resource type is defined.
func ValidateResourceType(rt ResourceType) error {
	if !rt.Valid() {
		return NewError(ErrInvalidResourceType, string(rt))
	}
	return nil
}
