package shared

// Care plan permissions.
const (
	PermViewOwnCarePlan  = "view:own-care-plan"
	PermViewCarePlans    = "view:care-plans"
	PermCreateCarePlans  = "create:care-plans"
	PermEditCarePlans    = "edit:care-plans"
	PermApproveCarePlans = "approve:care-plans"
)

// CarePlanScopes lists all permissions related to care plans.
func CarePlanScopes() []string {
	return []string{
		PermViewOwnCarePlan,
		PermViewCarePlans,
		PermCreateCarePlans,
		PermEditCarePlans,
		PermApproveCarePlans,
	}
}
