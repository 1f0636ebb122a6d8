package dto

// DashboardCounts summarises the organizational entities visible to the caller.
type DashboardCounts struct {
	Schools       int64 `json:"schools"`
	Classes       int64 `json:"classes"`
	Students      int64 `json:"students"`
	Practitioners int64 `json:"practitioners"`
}
