package domain

import "strings"

// Role is caller identity data handed down by the upstream auth layer. This
// service only narrows what a caller sees; row-level enforcement lives
// upstream.
type Role string

const (
	RoleEmployee    Role = "Employee"
	RoleGeneralUser Role = "General User"
	RoleTeamLead    Role = "Team Lead"
	RoleQAAnalyst   Role = "QA Analyst"
	RoleQALead      Role = "QA Lead"
	RoleCQCAnalyst  Role = "CQC Analyst"
	RoleManager     Role = "Manager"
	RoleAdmin       Role = "Admin"
	RoleSuperAdmin  Role = "Super Admin"
)

var unrestrictedRoles = map[Role]bool{
	RoleTeamLead:   true,
	RoleQAAnalyst:  true,
	RoleQALead:     true,
	RoleCQCAnalyst: true,
	RoleManager:    true,
	RoleAdmin:      true,
	RoleSuperAdmin: true,
}

type Caller struct {
	Email string
	Role  Role
}

// Restricted reports whether the caller may only see disputes involving
// themselves. Unknown or missing roles are restricted.
func (c Caller) Restricted() bool {
	return !unrestrictedRoles[c.Role]
}

// CanSee applies the visibility predicate for restricted callers: the caller
// must be the requester, the disputed employee on the ledger, or the employee
// on the underlying audit (a supervisor may file on an employee's behalf).
func (c Caller) CanSee(d *ReconciledDispute) bool {
	if !c.Restricted() {
		return true
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return false
	}
	for _, candidate := range []string{d.RequestedByEmail, d.EmployeeEmail, d.AuditEmployeeEmail} {
		if strings.EqualFold(strings.TrimSpace(candidate), email) {
			return true
		}
	}
	return false
}
