package override

// severityRank orders tiers for comparisons. Unknown strings rank below low.
func severityRank(severity string) int {
	switch severity {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Permission is a role's fixed override capability. MaxSeverity is the
// highest tier the role may override at all; ApprovalFrom is the lowest
// tier at which a second clinician's approval is required. The table is
// data, not branching code, so it can be audited and extended in place.
type Permission struct {
	Role         string `json:"role"`
	CanOverride  bool   `json:"can_override"`
	MaxSeverity  string `json:"max_severity"`
	ApprovalFrom string `json:"approval_from,omitempty"`
}

// Allows reports whether the role may override an action of the given
// severity at all.
func (p Permission) Allows(severity string) bool {
	return p.CanOverride && severityRank(severity) <= severityRank(p.MaxSeverity)
}

// NeedsApproval reports whether an override at the given severity requires
// a second clinician's approval for this role.
func (p Permission) NeedsApproval(severity string) bool {
	if !p.CanOverride || p.ApprovalFrom == "" {
		return false
	}
	return severityRank(severity) >= severityRank(p.ApprovalFrom)
}

var permissionTable = []Permission{
	{Role: RoleConsultant, CanOverride: true, MaxSeverity: SeverityCritical},
	{Role: RoleSeniorDoctor, CanOverride: true, MaxSeverity: SeverityCritical, ApprovalFrom: SeverityCritical},
	{Role: RoleSpecialist, CanOverride: true, MaxSeverity: SeverityHigh, ApprovalFrom: SeverityHigh},
	{Role: RoleJuniorDoctor, CanOverride: true, MaxSeverity: SeverityMedium, ApprovalFrom: SeverityMedium},
	{Role: RoleNurse, CanOverride: true, MaxSeverity: SeverityLow, ApprovalFrom: SeverityLow},
}

// ResolvePermission returns the fixed permission record for a clinician
// role. Unknown roles degrade to a default-deny permission rather than an
// error.
func ResolvePermission(role string) Permission {
	for _, p := range permissionTable {
		if p.Role == role {
			return p
		}
	}
	return Permission{Role: role, CanOverride: false}
}
