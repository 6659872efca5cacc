package domain

import "time"

// TenantKind distinguishes the two account types a user code can resolve to.
type TenantKind string

const (
	TenantUser    TenantKind = "user"
	TenantCompany TenantKind = "company"
)

// Tenant is a User or Company account owning a user code, under which
// workers and jobs are scoped.
type Tenant struct {
	UserCode  string     `db:"user_code"`
	Kind      TenantKind `db:"kind"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Phone     string     `db:"phone"`
	PushToken string     `db:"push_token"`
	CreatedAt time.Time  `db:"created_at"`
}

// PrincipalKind identifies the authenticated caller type.
type PrincipalKind string

const (
	PrincipalUser    PrincipalKind = "user"
	PrincipalCompany PrincipalKind = "company"
	PrincipalWorker  PrincipalKind = "worker"
)

// Principal is the authenticated identity passed explicitly into every
// engine call. Never stored globally.
type Principal struct {
	Kind     PrincipalKind
	ID       string
	UserCode string
}

// IsTenant reports whether the principal is a job-owning account.
func (p Principal) IsTenant() bool {
	return p.Kind == PrincipalUser || p.Kind == PrincipalCompany
}

// IsWorker reports whether the principal is a worker account.
func (p Principal) IsWorker() bool {
	return p.Kind == PrincipalWorker
}
