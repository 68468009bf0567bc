package iam

import (
	"strings"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
)

// escalationRule pairs a finding with the actions an identity must hold
// for the primitive to apply. All listed actions must be allowed.
type escalationRule struct {
	Actions []string
	Finding string
}

// escalationRules is the fixed, ordered privilege escalation rule table.
// Order is part of the contract: findings are reported in table order.
var escalationRules = []escalationRule{
	{
		Actions: []string{"iam:passrole", "ec2:runinstances"},
		Finding: "Privilege Escalation: PassRole + RunInstances (Can create Admin EC2)",
	},
	{
		Actions: []string{"iam:createpolicyversion"},
		Finding: "Privilege Escalation: CreatePolicyVersion (Can edit managed policies)",
	},
	{
		Actions: []string{"iam:setdefaultpolicyversion"},
		Finding: "Privilege Escalation: SetDefaultPolicyVersion (Can restore vulnerable policy versions)",
	},
	{
		Actions: []string{"iam:createaccesskey"},
		Finding: "Privilege Escalation: CreateAccessKey (Can create backdoor credentials)",
	},
	{
		Actions: []string{"iam:putuserpolicy"},
		Finding: "Privilege Escalation: PutUserPolicy (Can add Admin inline policy)",
	},
	{
		Actions: []string{"iam:updateloginprofile"},
		Finding: "Privilege Escalation: UpdateLoginProfile (Can reset passwords)",
	},
}

// CheckPrivilegeEscalation inspects an identity's aggregated policy
// documents for known privilege escalation primitives and returns the
// matching findings in rule-table order. An empty result means no
// primitive matched, not an error.
func CheckPrivilegeEscalation(policies []domain.PolicyDocument) []string {
	allowed := unionAllowedActions(policies)

	findings := make([]string, 0)
	for _, rule := range escalationRules {
		matched := true
		for _, action := range rule.Actions {
			if !allowsAction(allowed, action) {
				matched = false
				break
			}
		}
		if matched {
			findings = append(findings, rule.Finding)
		}
	}
	return findings
}

// unionAllowedActions aggregates the case-folded Allow actions across all
// policy documents. Deny statements are ignored: this surfaces what an
// identity could do through at least one grant, not effective access.
func unionAllowedActions(policies []domain.PolicyDocument) map[string]bool {
	actions := make(map[string]bool)
	for _, policy := range policies {
		for _, stmt := range policy.Document.Statement {
			if stmt.Effect != "Allow" {
				continue
			}
			for _, action := range stmt.Action {
				actions[strings.ToLower(action)] = true
			}
		}
	}
	return actions
}

// allowsAction reports whether the action set grants the given action,
// either literally or through a "*" / "service:*" wildcard.
func allowsAction(allowed map[string]bool, action string) bool {
	if allowed["*"] || allowed[action] {
		return true
	}
	if idx := strings.Index(action, ":"); idx > 0 {
		return allowed[action[:idx]+":*"]
	}
	return false
}
