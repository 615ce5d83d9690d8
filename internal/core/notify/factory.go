package notify

import (
	"fmt"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/validate"
)

// Module is the business area a notification originates from.
type Module string

const (
	ModuleInventory Module = "inventory"
	ModuleOrders    Module = "orders"
	ModuleCustomers Module = "customers"
	ModuleProducts  Module = "products"
	ModuleEmployees Module = "employees"
	ModuleSystem    Module = "system"
)

var Modules = []Module{
	ModuleInventory,
	ModuleOrders,
	ModuleCustomers,
	ModuleProducts,
	ModuleEmployees,
	ModuleSystem,
}

// Action is what happened to the entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionAlert   Action = "alert"
	ActionInfo    Action = "info"
)

var Actions = []Action{ActionCreated, ActionUpdated, ActionDeleted, ActionAlert, ActionInfo}

// ParseModule converts user input into a Module.
func ParseModule(s string) (Module, error) {
	m := Module(s)
	if err := validate.OneOf(Modules...)(m); err != nil {
		return "", fmt.Errorf("module: %w", err)
	}
	return m, nil
}

// ParseAction converts user input into an Action. Callers accepting
// untrusted input must parse before calling SystemNotification.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if err := validate.OneOf(Actions...)(a); err != nil {
		return "", fmt.Errorf("action: %w", err)
	}
	return a, nil
}

// SystemNotification builds the title, message and type for a domain event.
// details overrides the default message for alert and info actions.
// It panics on an action outside Actions.
func SystemNotification(module Module, action Action, entityName, details string) Input {
	switch action {
	case ActionCreated:
		return Input{
			Title:   fmt.Sprintf("New %s Created", module),
			Message: fmt.Sprintf("%s has been successfully created.", entityName),
			Type:    TypeSuccess,
		}
	case ActionUpdated:
		return Input{
			Title:   fmt.Sprintf("%s Updated", module),
			Message: fmt.Sprintf("%s has been successfully updated.", entityName),
			Type:    TypeInfo,
		}
	case ActionDeleted:
		return Input{
			Title:   fmt.Sprintf("%s Deleted", module),
			Message: fmt.Sprintf("%s has been successfully deleted.", entityName),
			Type:    TypeWarning,
		}
	case ActionAlert:
		msg := details
		if msg == "" {
			msg = fmt.Sprintf("There is an alert regarding %s.", entityName)
		}
		return Input{
			Title:   fmt.Sprintf("%s Alert", module),
			Message: msg,
			Type:    TypeError,
		}
	case ActionInfo:
		msg := details
		if msg == "" {
			msg = fmt.Sprintf("Information about %s.", entityName)
		}
		return Input{
			Title:   fmt.Sprintf("%s Information", module),
			Message: msg,
			Type:    TypeInfo,
		}
	default:
		panic(fmt.Sprintf("notify: unknown action %q", action))
	}
}
