package routes

const (
	// Health
	Health = "/health"

	// Inventory
	Properties           = "/api/v1/properties"
	Units                = "/api/v1/units"
	Unit                 = "/api/v1/units/{id}"
	UnitsEligible        = "/api/v1/units/eligible"
	UnitBedroomsEligible = "/api/v1/units/{id}/bedrooms/eligible"
	UnitSwitchMode       = "/api/v1/units/switch-mode"
	UnitCanSwitchMode    = "/api/v1/units/{id}/can-switch-mode"
	UnitDraftLease       = "/api/v1/units/{id}/draft-lease"

	// Leases
	Leases        = "/api/v1/leases"
	Lease         = "/api/v1/leases/{id}"
	LeaseDraft    = "/api/v1/leases/draft"
	LeaseActivate = "/api/v1/leases/{id}/activate"
	LeaseCancel   = "/api/v1/leases/{id}/cancel"
	LeaseEnd      = "/api/v1/leases/{id}/end"

	// Tenants
	Tenants         = "/api/v1/tenants"
	Tenant          = "/api/v1/tenants/{id}"
	TenantResidents = "/api/v1/tenants/residents"

	// Insurance
	InsurancePolicies       = "/api/v1/insurance/policies"
	InsurancePolicy         = "/api/v1/insurance/policies/{id}"
	InsurancePolicyApprove  = "/api/v1/insurance/policies/{id}/approve"
	InsurancePolicyReject   = "/api/v1/insurance/policies/{id}/reject"
	InsuranceTenantPolicies = "/api/v1/insurance/tenants/{id}/policies"
	InsuranceStats          = "/api/v1/insurance/stats"
)
