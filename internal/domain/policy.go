package domain

import "encoding/json"

// PolicyDocument is one IAM policy attached to an identity, with its
// parsed statement list.
type PolicyDocument struct {
	Name     string         `json:"Name"`
	Type     string         `json:"Type"` // "Managed" or "Inline"
	Document StatementBlock `json:"Document"`
}

// StatementBlock is the Statement container of an IAM policy document.
// AWS serializes a single statement as either an object or a one-element
// array, so unmarshalling accepts both.
type StatementBlock struct {
	Statement []Statement `json:"Statement"`
}

// Statement is one IAM policy statement.
type Statement struct {
	Sid       string         `json:"Sid,omitempty"`
	Effect    string         `json:"Effect"`
	Action    StringList     `json:"Action,omitempty"`
	Resource  StringList     `json:"Resource,omitempty"`
	Principal map[string]any `json:"Principal,omitempty"`
}

// FederatedPrincipals returns the Federated entries of the statement's
// Principal block, tolerating both string and list forms.
func (s Statement) FederatedPrincipals() []string {
	if s.Principal == nil {
		return nil
	}
	return NormalizeToList(s.Principal["Federated"])
}

// StringList is a JSON field that AWS emits as either a bare string or a
// list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

func (b *StatementBlock) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Statement json.RawMessage `json:"Statement"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Statement) == 0 {
		return nil
	}
	var single Statement
	if err := json.Unmarshal(wrapper.Statement, &single); err == nil {
		b.Statement = []Statement{single}
		return nil
	}
	var many []Statement
	if err := json.Unmarshal(wrapper.Statement, &many); err != nil {
		return err
	}
	b.Statement = many
	return nil
}

// NormalizeToList normalizes a decoded JSON value to a list of strings.
func NormalizeToList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return []string{}
	}
}

// PoliciesFromMetadata extracts the policy documents stored by discovery
// under the asset's "Policies" metadata key. Unrecognized shapes are
// skipped; a missing or malformed entry yields an empty list.
func PoliciesFromMetadata(metadata map[string]any) []PolicyDocument {
	if metadata == nil {
		return nil
	}
	raw, ok := metadata["Policies"]
	if !ok {
		return nil
	}

	// Round-trip through JSON so free-form discovery output and typed
	// fixtures decode through the same tolerant path.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var policies []PolicyDocument
	if err := json.Unmarshal(encoded, &policies); err != nil {
		return nil
	}
	return policies
}

// AssumeRoleStatementsFromMetadata extracts the parsed trust policy
// statements stored under "AssumeRolePolicyDocument".
func AssumeRoleStatementsFromMetadata(metadata map[string]any) []Statement {
	if metadata == nil {
		return nil
	}
	raw, ok := metadata["AssumeRolePolicyDocument"]
	if !ok {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var block StatementBlock
	if err := json.Unmarshal(encoded, &block); err != nil {
		return nil
	}
	return block.Statement
}
