package persistence

import (
	"fmt"
	"strings"
	"time"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
)

// recentIdentityWindow is how fresh an identity must be to count as a
// potential persistence backdoor.
const recentIdentityWindow = 24 * time.Hour

// suspiciousPort ties a well-known C2/backdoor port to its common use.
type suspiciousPort struct {
	Port  int
	Label string
}

// suspiciousPorts is the fixed table of ports associated with command and
// control tooling.
var suspiciousPorts = []suspiciousPort{
	{Port: 4444, Label: "Metasploit Meterpreter"},
	{Port: 1337, Label: "Leet/Backdoor"},
	{Port: 6667, Label: "IRC (Botnet)"},
	{Port: 8080, Label: "Alternative HTTP (Common C2)"},
	{Port: 44444, Label: "Metasploit"},
	{Port: 31337, Label: "Back Orifice"},
}

// createDateLayouts are the timestamp shapes discovery writes into
// metadata.CreateDate. The naive layout is treated as UTC.
var createDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
}

// Analyze flags persistence and C2 indicators across the asset list,
// evaluated against the given instant. Findings come out in asset order,
// identity findings before port findings per asset.
func Analyze(assets []domain.Asset, now time.Time) []domain.PersistenceFinding {
	findings := make([]domain.PersistenceFinding, 0)

	for _, asset := range assets {
		if strings.Contains(asset.ResourceType, "IAM") {
			if created, ok := parseCreateDate(asset.MetadataString("CreateDate")); ok {
				if now.Sub(created) < recentIdentityWindow {
					findings = append(findings, domain.PersistenceFinding{
						AssetID:     asset.ID,
						Type:        domain.PersistenceTypePersistence,
						Description: "Recently Created Identity (< 24h)",
						Severity:    domain.SeverityMedium,
					})
				}
			}
		}

		for _, port := range asset.OpenPorts {
			for _, suspect := range suspiciousPorts {
				if port == suspect.Port {
					findings = append(findings, domain.PersistenceFinding{
						AssetID:     asset.ID,
						Type:        domain.PersistenceTypeC2,
						Description: fmt.Sprintf("Suspicious Port Open: %d (%s)", port, suspect.Label),
						Severity:    domain.SeverityHigh,
					})
					break
				}
			}
		}
	}

	return findings
}

// parseCreateDate parses a discovery timestamp. Unparseable values are
// reported as not ok and the caller skips the record.
func parseCreateDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range createDateLayouts {
		// time.Parse treats the zone-less layout as UTC, matching how
		// discovery records naive timestamps.
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
