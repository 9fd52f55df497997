// Package tenant provides multi-tenant database scoping for GORM.
//
// Every repository query in this codebase is constrained to a single tenant.
// Rather than reading the tenant from ambient state, repositories receive the
// tenant id explicitly and apply it through Scope, so a query without a
// tenant filter cannot be written by accident.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantRequired is returned when a repository is called with a nil tenant id
var ErrTenantRequired = errors.New("tenant: tenant id is required")

// Scope applies tenant filtering to a GORM query
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// Require rejects the nil tenant id before a query runs. Repositories call it
// first so a missing tenant surfaces as ErrTenantRequired instead of an
// accidental cross-tenant query.
func Require(tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return ErrTenantRequired
	}
	return nil
}
