package analysis

import "github.com/mamaar/drupalrefactor/pkg/types"

// parentRoles maps well-known base class short names to injection roles.
var parentRoles = map[string]types.ClassRole{
	"ControllerBase":  types.RoleController,
	"FormBase":        types.RoleForm,
	"ConfigFormBase":  types.RoleForm,
	"BlockBase":       types.RoleBlock,
	"FormatterBase":   types.RoleFieldFormatter,
	"WidgetBase":      types.RoleFieldWidget,
	"QueueWorkerBase": types.RoleQueueWorker,
	"PluginBase":      types.RolePlugin,
}

// DetectRole maps a class to its injection role by the short name of its
// parent class. Classes without a recognized parent are treated as plain
// services.
func DetectRole(skeleton *types.ClassSkeleton) types.ClassRole {
	if skeleton == nil {
		return types.RoleService
	}
	if role, ok := parentRoles[skeleton.ParentClass]; ok {
		return role
	}
	return types.RoleService
}
