package attackpath

import (
	"reflect"
	"testing"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
)

func exposedEC2(id, profile string) domain.Asset {
	return domain.Asset{
		ID:           id,
		Provider:     "AWS",
		Region:       "us-east-1",
		ResourceType: "EC2 Instance",
		OpenPorts:    []int{22},
		Metadata:     map[string]any{"IamInstanceProfile": profile},
	}
}

func roleWithIdentityFindings(id string, findings ...string) domain.Asset {
	return domain.Asset{
		ID:           id,
		Provider:     "AWS",
		Region:       "global",
		ResourceType: "IAM Role",
		Vulnerability: []domain.VulnerabilityGroup{
			{Category: domain.NamedCategory("Identity"), Findings: findings},
		},
	}
}

func TestAnalyzeGoldenTicket(t *testing.T) {
	assets := []domain.Asset{
		exposedEC2("ec2A", "roleA"),
		roleWithIdentityFindings("roleA", "Excessive Privilege: AdministratorAccess"),
	}

	chains := Analyze(assets)

	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d: %v", len(chains), chains)
	}
	chain := chains[0]
	if chain.Name != ChainGoldenTicket {
		t.Errorf("chain name = %q, want %q", chain.Name, ChainGoldenTicket)
	}
	if chain.Severity != domain.SeverityCritical {
		t.Errorf("severity = %q, want CRITICAL", chain.Severity)
	}
	if !reflect.DeepEqual(chain.AssetIDs, []string{"ec2A", "roleA"}) {
		t.Errorf("members = %v, want [ec2A roleA]", chain.AssetIDs)
	}
}

func TestAnalyzeGoldenTicketRequiresExposure(t *testing.T) {
	ec2 := exposedEC2("ec2A", "roleA")
	ec2.OpenPorts = nil
	assets := []domain.Asset{
		ec2,
		roleWithIdentityFindings("roleA", "Excessive Privilege: AdministratorAccess"),
	}

	if chains := Analyze(assets); len(chains) != 0 {
		t.Errorf("expected no chains for unexposed EC2, got %v", chains)
	}
}

func TestAnalyzeGoldenTicketDanglingProfile(t *testing.T) {
	assets := []domain.Asset{exposedEC2("ec2A", "missing-role")}

	if chains := Analyze(assets); len(chains) != 0 {
		t.Errorf("expected no chains for dangling instance profile, got %v", chains)
	}
}

func TestAnalyzeLeakySecrets(t *testing.T) {
	tests := []struct {
		name  string
		asset domain.Asset
		want  int
	}{
		{
			name: "public bucket with secrets fires",
			asset: domain.Asset{
				ID:           "company-backups",
				Provider:     "AWS",
				ResourceType: "S3 Bucket",
				Vulnerability: []domain.VulnerabilityGroup{
					{Category: domain.PortCategory(443), Findings: []string{"Public Read Access"}},
					{Category: domain.NamedCategory("Secrets"), Findings: []string{"AWS Access Key in config.json"}},
				},
			},
			want: 1,
		},
		{
			name: "public bucket without secrets does not fire",
			asset: domain.Asset{
				ID:           "static-site",
				Provider:     "AWS",
				ResourceType: "S3 Bucket",
				Vulnerability: []domain.VulnerabilityGroup{
					{Category: domain.PortCategory(443), Findings: []string{"Public Read Access"}},
				},
			},
			want: 0,
		},
		{
			name: "private bucket with secrets does not fire",
			asset: domain.Asset{
				ID:           "internal-secrets",
				Provider:     "AWS",
				ResourceType: "S3 Bucket",
				Vulnerability: []domain.VulnerabilityGroup{
					{Category: domain.NamedCategory("Secrets"), Findings: []string{"DB password in dump.sql"}},
				},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chains := Analyze([]domain.Asset{tt.asset})
			if len(chains) != tt.want {
				t.Fatalf("expected %d chains, got %d: %v", tt.want, len(chains), chains)
			}
			if tt.want == 1 {
				if chains[0].Name != ChainLeakySecrets {
					t.Errorf("chain name = %q, want %q", chains[0].Name, ChainLeakySecrets)
				}
				if !reflect.DeepEqual(chains[0].AssetIDs, []string{tt.asset.ID}) {
					t.Errorf("members = %v, want [%s]", chains[0].AssetIDs, tt.asset.ID)
				}
			}
		})
	}
}

func TestAnalyzeShadowAdmin(t *testing.T) {
	assets := []domain.Asset{
		exposedEC2("ec2B", "roleB"),
		roleWithIdentityFindings("roleB", "Privilege Escalation: PassRole + RunInstances (Can create Admin EC2)"),
	}

	chains := Analyze(assets)

	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d: %v", len(chains), chains)
	}
	if chains[0].Name != ChainShadowAdmin {
		t.Errorf("chain name = %q, want %q", chains[0].Name, ChainShadowAdmin)
	}
	if chains[0].Severity != domain.SeverityHigh {
		t.Errorf("severity = %q, want HIGH", chains[0].Severity)
	}
}

func TestAnalyzeMultipleChainsForOneRole(t *testing.T) {
	// A role that is both Admin and PassRole-escalatable puts its instance
	// in two chains.
	assets := []domain.Asset{
		exposedEC2("ec2C", "roleC"),
		roleWithIdentityFindings("roleC",
			"Excessive Privilege: AdministratorAccess",
			"Privilege Escalation: PassRole + RunInstances (Can create Admin EC2)",
		),
	}

	chains := Analyze(assets)

	if len(chains) != 2 {
		t.Fatalf("expected 2 chains, got %d: %v", len(chains), chains)
	}
	if chains[0].Name != ChainGoldenTicket || chains[1].Name != ChainShadowAdmin {
		t.Errorf("chain order = [%s %s], want [Golden Ticket, Shadow Admin]", chains[0].Name, chains[1].Name)
	}
}

func TestAnalyzeEmptyAssetList(t *testing.T) {
	if chains := Analyze(nil); len(chains) != 0 {
		t.Errorf("expected no chains for empty input, got %v", chains)
	}
}
