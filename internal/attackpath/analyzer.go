package attackpath

import (
	"strings"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
)

// Chain names surfaced by Analyze.
const (
	ChainGoldenTicket = "The Golden Ticket"
	ChainLeakySecrets = "Leaky Secrets"
	ChainShadowAdmin  = "Shadow Admin"
)

// Analyze runs the fixed kill chain detectors over the asset list and
// returns every chain found. Detectors are independent; any subset may
// fire, and an asset can be a member of several chains.
func Analyze(assets []domain.Asset) []domain.KillChain {
	assetByID := make(map[string]*domain.Asset, len(assets))
	for i := range assets {
		assetByID[assets[i].ID] = &assets[i]
	}

	chains := make([]domain.KillChain, 0)
	chains = append(chains, detectGoldenTicket(assets, assetByID)...)
	chains = append(chains, detectLeakySecrets(assets)...)
	chains = append(chains, detectShadowAdmin(assets, assetByID)...)
	return chains
}

// detectGoldenTicket finds internet-exposed EC2 instances whose instance
// profile role carries AdministratorAccess.
func detectGoldenTicket(assets []domain.Asset, assetByID map[string]*domain.Asset) []domain.KillChain {
	chains := make([]domain.KillChain, 0)
	for _, asset := range assets {
		role := exposedInstanceRole(asset, assetByID)
		if role == nil {
			continue
		}
		if hasIdentityFinding(role, "AdministratorAccess") {
			chains = append(chains, domain.KillChain{
				Name:        ChainGoldenTicket,
				Description: "Publicly exposed EC2 instance with full Administrator privileges.",
				AssetIDs:    []string{asset.ID, role.ID},
				Severity:    domain.SeverityCritical,
			})
		}
	}
	return chains
}

// detectLeakySecrets finds publicly readable S3 buckets that also carry
// secret findings.
func detectLeakySecrets(assets []domain.Asset) []domain.KillChain {
	chains := make([]domain.KillChain, 0)
	for _, asset := range assets {
		if asset.ResourceType != "S3 Bucket" {
			continue
		}
		isPublic := false
		for _, finding := range asset.FindingsFor(domain.PortCategory(443)) {
			if strings.Contains(finding, "Public") {
				isPublic = true
				break
			}
		}
		if isPublic && asset.HasCategory(domain.NamedCategory("Secrets")) {
			chains = append(chains, domain.KillChain{
				Name:        ChainLeakySecrets,
				Description: "Public S3 bucket exposing hardcoded credentials.",
				AssetIDs:    []string{asset.ID},
				Severity:    domain.SeverityCritical,
			})
		}
	}
	return chains
}

// detectShadowAdmin finds internet-exposed EC2 instances whose instance
// profile role can escalate through PassRole + RunInstances.
func detectShadowAdmin(assets []domain.Asset, assetByID map[string]*domain.Asset) []domain.KillChain {
	chains := make([]domain.KillChain, 0)
	for _, asset := range assets {
		role := exposedInstanceRole(asset, assetByID)
		if role == nil {
			continue
		}
		if hasIdentityFinding(role, "PassRole + RunInstances") {
			chains = append(chains, domain.KillChain{
				Name:        ChainShadowAdmin,
				Description: "Public EC2 can escalate to Admin via PassRole.",
				AssetIDs:    []string{asset.ID, role.ID},
				Severity:    domain.SeverityHigh,
			})
		}
	}
	return chains
}

// exposedInstanceRole resolves the instance profile role of an EC2 asset
// with open ports. Returns nil when the asset does not qualify or the
// referenced role is not in the asset list (dangling profile reference).
func exposedInstanceRole(asset domain.Asset, assetByID map[string]*domain.Asset) *domain.Asset {
	if asset.ResourceType != "EC2 Instance" || len(asset.OpenPorts) == 0 {
		return nil
	}
	profile := asset.MetadataString("IamInstanceProfile")
	if profile == "" {
		return nil
	}
	return assetByID[profile]
}

// hasIdentityFinding reports whether any Identity finding of the asset
// contains the given substring.
func hasIdentityFinding(asset *domain.Asset, substring string) bool {
	for _, finding := range asset.FindingsFor(domain.NamedCategory("Identity")) {
		if strings.Contains(finding, substring) {
			return true
		}
	}
	return false
}
