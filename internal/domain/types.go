package domain

// Severity ranks a finding's impact
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// PersistenceType classifies a persistence analyzer finding
type PersistenceType string

const (
	PersistenceTypePersistence PersistenceType = "Persistence"
	PersistenceTypeC2          PersistenceType = "C2"
)

// PolicyType distinguishes managed from inline policies
const (
	PolicyTypeManaged = "Managed"
	PolicyTypeInline  = "Inline"
)

// LogLevel represents log levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// KillChain is a named multi-asset attack chain surfaced by the attack
// path analyzer.
type KillChain struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AssetIDs    []string `json:"assets"`
	Severity    Severity `json:"severity"`
}

// PersistenceFinding flags a persistence or C2 indicator on one asset.
type PersistenceFinding struct {
	AssetID     string          `json:"asset_id"`
	Type        PersistenceType `json:"type"`
	Description string          `json:"description"`
	Severity    Severity        `json:"severity"`
}
