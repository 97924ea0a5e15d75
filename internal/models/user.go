package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleManager    UserRole = "MANAGER"
	RoleAdvisor    UserRole = "ADVISOR"
	RoleTechnician UserRole = "TECHNICIAN"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// NewPagination derives next/prev flags from page*pageSize against the total.
func NewPagination(page, pageSize, total int) *Pagination {
	return &Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  total,
		HasNextPage: page*pageSize < total,
		HasPrevPage: page > 1,
	}
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string
	Name string
}
