// Package algorithms holds the pure matching logic of the customization
// subsystem, kept free of persistence so each fallback tier can be tested
// in isolation.
package algorithms

import (
	"strings"

	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
)

// MatchTier names the predicate that produced a match, in priority order.
type MatchTier int

const (
	TierNone MatchTier = iota
	// TierRuleAndComponent: normalized rule ids equal and embedded
	// component ids equal.
	TierRuleAndComponent
	// TierRuleNoComponent: a component id was submitted but the stored
	// record predates component scoping and has none.
	TierRuleNoComponent
	// TierRuleSingle: no component id submitted and exactly one record
	// carries the rule.
	TierRuleSingle
	// TierTitle: case-insensitive title equality, with component ids
	// required to agree when both sides have one.
	TierTitle
)

// NormalizeRuleID truncates a rule identifier at the first qualifier
// separator. "rule:component" composite keys scope a rule to one
// component; the bare rule id is what identity matching compares.
func NormalizeRuleID(id string) string {
	if idx := strings.IndexByte(id, ':'); idx >= 0 {
		return id[:idx]
	}
	return id
}

// SplitRuleID returns the bare rule id and the component qualifier, if
// the identifier carries one.
func SplitRuleID(id string) (ruleID, componentID string) {
	if idx := strings.IndexByte(id, ':'); idx >= 0 {
		return id[:idx], id[idx+1:]
	}
	return id, ""
}

// StoredIdentity is the identity facet of an existing customization
// record: rule id from the foreign key or from payload-embedded fields,
// plus the embedded component id and title.
type StoredIdentity struct {
	Record      *models.OrderItemCustomization
	RuleID      string
	ComponentID string
	Title       string
}

// IdentityOf extracts the identity facet of a stored record. The foreign
// key wins over payload-embedded fields when both are present.
func IdentityOf(rec *models.OrderItemCustomization) StoredIdentity {
	p := payload.Decode(rec.Payload)
	id := StoredIdentity{
		Record:      rec,
		ComponentID: p.ComponentID,
		Title:       p.Title,
	}
	if rec.RuleID != nil && *rec.RuleID != "" {
		id.RuleID = NormalizeRuleID(*rec.RuleID)
	} else {
		id.RuleID = NormalizeRuleID(p.RuleID)
	}
	return id
}

// ResolveExisting decides which stored record a submitted customization
// updates, or nil to signal "create new". ruleID may carry a component
// qualifier; componentID, when empty, is taken from that qualifier.
func ResolveExisting(ruleID, componentID, title string, existing []models.OrderItemCustomization) (*models.OrderItemCustomization, MatchTier) {
	bareRule, qualifier := SplitRuleID(ruleID)
	if componentID == "" {
		componentID = qualifier
	}

	identities := make([]StoredIdentity, 0, len(existing))
	for i := range existing {
		identities = append(identities, IdentityOf(&existing[i]))
	}

	var sameRule []StoredIdentity
	if bareRule != "" {
		for _, id := range identities {
			if id.RuleID == bareRule {
				sameRule = append(sameRule, id)
			}
		}
	}

	// Tier 1: exact (rule, component) pair.
	for _, id := range sameRule {
		if id.ComponentID == componentID && componentID != "" {
			return id.Record, TierRuleAndComponent
		}
		if componentID == "" && id.ComponentID == "" {
			return id.Record, TierRuleAndComponent
		}
	}

	// Tier 2: component submitted, record predates component scoping.
	if componentID != "" {
		for _, id := range sameRule {
			if id.ComponentID == "" {
				return id.Record, TierRuleNoComponent
			}
		}
	}

	// Tier 3: no component submitted, the rule appears exactly once.
	if componentID == "" && len(sameRule) == 1 {
		return sameRule[0].Record, TierRuleSingle
	}

	// Tier 4: title fallback. Component ids must agree when both sides
	// specify one.
	if title != "" {
		for _, id := range identities {
			if !strings.EqualFold(id.Title, title) {
				continue
			}
			if componentID != "" && id.ComponentID != "" && id.ComponentID != componentID {
				continue
			}
			return id.Record, TierTitle
		}
	}

	return nil, TierNone
}

// RequiredRule describes one required customization slot derived from a
// product component or an additional. ComponentID is synthetic for
// additionals but still distinguishes same-rule-different-owner cases.
type RequiredRule struct {
	RuleID      string
	ComponentID string
	Name        string
	Type        string
}

// MatchesRequired reports whether a filled customization satisfies a
// required rule: normalized rule ids equal (component ids must also agree
// when both sides carry one), or the stored title/label equals the rule
// name case-insensitively. The name fallback is a known false-positive
// risk when two rules share a display name.
func MatchesRequired(req RequiredRule, stored StoredIdentity, storedLabel string) bool {
	if stored.RuleID != "" && stored.RuleID == NormalizeRuleID(req.RuleID) {
		if stored.ComponentID != "" && req.ComponentID != "" {
			return stored.ComponentID == req.ComponentID
		}
		return true
	}
	if req.Name == "" {
		return false
	}
	if strings.EqualFold(stored.Title, req.Name) || strings.EqualFold(storedLabel, req.Name) {
		return true
	}
	return false
}
