package shared

// Service plan and scheduling permissions.
const (
	PermRequestServices    = "request:services"
	PermViewServicePlans   = "view:service-plans"
	PermManageServicePlans = "manage:service-plans"
	PermManageAvailability = "manage:availability"
)

// ServicePlanScopes lists all permissions related to service plans.
func ServicePlanScopes() []string {
	return []string{
		PermRequestServices,
		PermViewServicePlans,
		PermManageServicePlans,
		PermManageAvailability,
	}
}
