package authz

import (
	"praxis-api/internal/domain"
)

// rule is one entry in an evaluator's ordered rule list. Point checks and
// bulk filters walk the same rule objects, which is what guarantees the two
// can never disagree.
type rule[R any] struct {
	name Reason

	// appliesTo reports whether the rule is applicable to the resource at
	// all, independent of the requested capability.
	appliesTo func(res R, snap *principalSnapshot) bool

	// capabilitiesIf returns the capabilities the rule confers when it
	// applies.
	capabilitiesIf func(res R, snap *principalSnapshot) domain.CapabilitySet
}

// decide walks the rule list in priority order and stops at the first rule
// that applies to the resource and covers the requested capability. Rules
// that apply but confer a weaker capability set are skipped, letting a later
// rule satisfy the request.
func decide[R any](rules []rule[R], res R, snap *principalSnapshot, capability domain.Capability) Decision {
	for _, r := range rules {
		if !r.appliesTo(res, snap) {
			continue
		}
		if r.capabilitiesIf(res, snap).Has(capability) {
			return Decision{Granted: true, Reason: reasonFor(r.name, capability)}
		}
	}
	return Decision{Granted: false, Reason: ReasonNoPermission}
}

// reasonFor maps a rule name to the reason reported for the requested
// capability. Matter inheritance and sharing groups distinguish their edit
// outcomes in the reason enum.
func reasonFor(name Reason, capability domain.Capability) Reason {
	if capability != domain.CapabilityEdit {
		return name
	}
	switch name {
	case ReasonMatterPermission:
		return ReasonMatterPermissionEdit
	case ReasonSharingGroup:
		return ReasonSharingGroupEdit
	default:
		return name
	}
}
