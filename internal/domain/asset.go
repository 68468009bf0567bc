package domain

import "strconv"

// Asset is the normalized representation of a discovered cloud resource.
// It is produced by the discovery subsystem and consumed read-only here.
type Asset struct {
	ID            string               `json:"id" validate:"required"`
	Hostname      string               `json:"hostname,omitempty"`
	IPAddress     string               `json:"ip_address,omitempty"`
	Provider      string               `json:"provider" validate:"required"`
	Region        string               `json:"region"`
	ResourceType  string               `json:"resource_type" validate:"required"`
	OpenPorts     []int                `json:"open_ports,omitempty"`
	Metadata      map[string]any       `json:"metadata,omitempty"`
	Vulnerability []VulnerabilityGroup `json:"vulnerabilities,omitempty"`
}

// VulnerabilityGroup holds the findings recorded under one category.
type VulnerabilityGroup struct {
	Category FindingCategory `json:"category"`
	Findings []string        `json:"findings"`
}

// FindingCategory is either a port number or a named category such as
// "Identity" or "Secrets". Exactly one of the two fields is meaningful.
type FindingCategory struct {
	Port int    `json:"port,omitempty"`
	Name string `json:"name,omitempty"`
}

// PortCategory returns the category for port-specific findings.
func PortCategory(port int) FindingCategory {
	return FindingCategory{Port: port}
}

// NamedCategory returns the category for a labeled finding group.
func NamedCategory(name string) FindingCategory {
	return FindingCategory{Name: name}
}

// Key returns the string form used in serialized output. Port categories
// are stringified so the interchange format keeps string-only keys.
func (c FindingCategory) Key() string {
	if c.Name != "" {
		return c.Name
	}
	return strconv.Itoa(c.Port)
}

// FindingsFor returns the findings recorded under the given category.
func (a *Asset) FindingsFor(cat FindingCategory) []string {
	for _, group := range a.Vulnerability {
		if group.Category == cat {
			return group.Findings
		}
	}
	return nil
}

// HasCategory reports whether any findings exist under the given category.
func (a *Asset) HasCategory(cat FindingCategory) bool {
	for _, group := range a.Vulnerability {
		if group.Category == cat {
			return true
		}
	}
	return false
}

// AllFindings flattens every category's findings, preserving group order.
func (a *Asset) AllFindings() []string {
	findings := make([]string, 0)
	for _, group := range a.Vulnerability {
		findings = append(findings, group.Findings...)
	}
	return findings
}

// IsVulnerable reports whether the asset carries at least one finding.
func (a *Asset) IsVulnerable() bool {
	for _, group := range a.Vulnerability {
		if len(group.Findings) > 0 {
			return true
		}
	}
	return false
}

// MetadataString returns a string-valued metadata entry, or "" when the key
// is absent or holds a non-string value.
func (a *Asset) MetadataString(key string) string {
	if a.Metadata == nil {
		return ""
	}
	if s, ok := a.Metadata[key].(string); ok {
		return s
	}
	return ""
}

// IsShadow reports whether discovery marked the asset as a shadow resource
// (provisioned but unmanaged attack surface).
func (a *Asset) IsShadow() bool {
	return a.MetadataString("Shadow") == "True"
}
