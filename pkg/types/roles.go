package types

// ClassRole identifies which injection strategy applies to a class.
// The zero value is RoleService, the fallback for classes whose parent
// is unknown.
type ClassRole int

const (
	RoleService ClassRole = iota
	RoleController
	RoleForm
	RoleBlock
	RolePlugin
	RoleFieldFormatter
	RoleFieldWidget
	RoleQueueWorker
)

// String returns the string representation of ClassRole
func (r ClassRole) String() string {
	switch r {
	case RoleService:
		return "service"
	case RoleController:
		return "controller"
	case RoleForm:
		return "form"
	case RoleBlock:
		return "block"
	case RolePlugin:
		return "plugin"
	case RoleFieldFormatter:
		return "field_formatter"
	case RoleFieldWidget:
		return "field_widget"
	case RoleQueueWorker:
		return "queue_worker"
	default:
		return "unknown"
	}
}

// RoleFromString parses a role name as used on command lines and in tool
// arguments. An empty string maps to RoleService, which the engine treats
// as "detect from the class's parent".
func RoleFromString(name string) (ClassRole, bool) {
	switch name {
	case "", "service":
		return RoleService, true
	case "controller":
		return RoleController, true
	case "form":
		return RoleForm, true
	case "block":
		return RoleBlock, true
	case "plugin":
		return RolePlugin, true
	case "field_formatter":
		return RoleFieldFormatter, true
	case "field_widget":
		return RoleFieldWidget, true
	case "queue_worker":
		return RoleQueueWorker, true
	default:
		return RoleService, false
	}
}
