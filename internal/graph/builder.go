package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/attackpath"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/iam"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/logging"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/metrics"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/oidc"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/persistence"
)

// Well-known synthetic node ids.
const (
	InternetNodeID   = "The_Internet"
	EscalationNodeID = "Privilege_Escalation_Target"
)

// Edge labels emitted by the builder.
const (
	EdgeDeployedIn  = "DEPLOYED_IN"
	EdgeCanEscalate = "CAN_ESCALATE"
	EdgeTrustsOIDC  = "TRUSTS_OIDC"
	EdgePartOfChain = "PART_OF_CHAIN"
)

// Node visualization colors. The resource table is ordered; first
// substring match of the resource type wins.
const (
	colorDefault    = "#ccc"
	colorRegion     = "#555"
	colorInternet   = "#fff"
	colorEscalation = "#ff0000"
	colorKillChain  = "#ff0000"
	colorAlert      = "#ff4500"
	colorTrustEdge  = "#ff00ff"
	colorChainEdge  = "#ff4500"
)

var resourceColors = []struct {
	Match string
	Color string
}{
	{Match: "EC2", Color: "#00f2ff"},
	{Match: "S3", Color: "#ffbd00"},
	{Match: "IAM", Color: "#7000ff"},
	{Match: "OIDC Provider", Color: "#ff00ff"},
}

// Options control which analyzers run during the merge pass. OIDC trust
// edges are always emitted; they are pure visualization of discovered
// trust policy data.
type Options struct {
	AttackPaths         bool
	Persistence         bool
	PrivilegeEscalation bool

	// Metrics defaults to the process-wide registry.
	Metrics *metrics.Registry

	// Now is the evaluation instant handed to the persistence analyzer.
	// Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions enables every analyzer.
func DefaultOptions() Options {
	return Options{
		AttackPaths:         true,
		Persistence:         true,
		PrivilegeEscalation: true,
	}
}

// Builder converts a normalized asset list into the serialized attack
// surface graph. A Builder is stateless across Build calls; each call
// works on its own element set, so independent scans can build
// concurrently on the same Builder.
type Builder struct {
	opts    Options
	metrics *metrics.Registry
	now     func() time.Time
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts Options) *Builder {
	b := &Builder{opts: opts, metrics: opts.Metrics, now: opts.Now}
	if b.metrics == nil {
		b.metrics = metrics.Default()
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// build carries the per-call state of one graph construction.
type build struct {
	elements []*domain.Element
	// nodeByID indexes node elements only; edges are never looked up.
	nodeByID map[string]*domain.Element
	// nodeIDByAsset maps an asset id to the node id it was assigned,
	// which differs from the asset id only after a collision.
	nodeIDByAsset map[string]string
}

// Build converts the asset list into a flat element list: one node per
// asset plus synthetic Internet, region, escalation target, and kill
// chain nodes, connected by the exposure, deployment, and analysis
// edges. The result is deterministic for a given asset list.
func (b *Builder) Build(assets []domain.Asset) []domain.Element {
	start := time.Now()

	state := &build{
		nodeByID:      make(map[string]*domain.Element),
		nodeIDByAsset: make(map[string]string),
	}

	for i := range assets {
		b.addAssetNode(state, &assets[i])
	}

	if b.opts.PrivilegeEscalation {
		b.mergePrivilegeEscalation(state, assets)
	}
	b.mergeOIDCTrust(state, assets)
	if b.opts.AttackPaths {
		b.mergeKillChains(state, assets)
	}
	if b.opts.Persistence {
		b.mergePersistence(state, assets)
	}

	nodes, edges := 0, 0
	elements := make([]domain.Element, 0, len(state.elements))
	for _, el := range state.elements {
		if el.IsEdge() {
			edges++
		} else {
			nodes++
		}
		elements = append(elements, *el)
	}

	b.metrics.GraphBuildsTotal.Inc()
	b.metrics.GraphNodesLast.Set(float64(nodes))
	b.metrics.GraphEdgesLast.Set(float64(edges))
	logging.LogOperationEnd("graph_build", time.Since(start), len(assets), len(elements))

	return elements
}

// addAssetNode emits the asset's node plus its region and exposure edges.
func (b *Builder) addAssetNode(state *build, asset *domain.Asset) {
	nodeID := asset.ID
	if _, taken := state.nodeByID[nodeID]; taken {
		// Another asset already owns this id. Qualify the later one so
		// node ids stay unique per scan.
		nodeID = fmt.Sprintf("%s/%s/%s", asset.Provider, asset.ResourceType, asset.ID)
		logging.LogWarn("Asset id collision, namespacing node id", map[string]any{
			"resource": asset.ID,
			"node_id":  nodeID,
		})
	}
	state.nodeIDByAsset[asset.ID] = firstAssigned(state.nodeIDByAsset[asset.ID], nodeID)

	label := asset.Hostname
	if label == "" || label == "N/A" {
		label = asset.ID
	}

	node := &domain.Element{Data: domain.ElementData{
		ID:              nodeID,
		Label:           label,
		Type:            strings.SplitN(asset.ResourceType, " ", 2)[0],
		Color:           colorForResourceType(asset.ResourceType),
		Provider:        asset.Provider,
		Region:          asset.Region,
		IP:              asset.IPAddress,
		Vulnerable:      asset.IsVulnerable(),
		Vulnerabilities: asset.AllFindings(),
		Ports:           asset.OpenPorts,
		Metadata:        asset.Metadata,
	}}
	state.append(node)

	if asset.Region != "" && asset.Region != "global" {
		regionID := "region_" + asset.Region
		state.ensureNode(regionID, domain.ElementData{
			ID:    regionID,
			Label: asset.Region,
			Type:  "Region",
			Color: colorRegion,
		})
		state.addEdge(nodeID, regionID, EdgeDeployedIn, "", "")
	}

	if len(asset.OpenPorts) > 0 {
		state.ensureNode(InternetNodeID, domain.ElementData{
			ID:    InternetNodeID,
			Label: "Internet",
			Type:  "Network",
			Color: colorInternet,
		})
		state.addEdge(InternetNodeID, nodeID, fmt.Sprintf("EXPOSES %d PORTS", len(asset.OpenPorts)), "", "")
	}
}

// mergePrivilegeEscalation annotates IAM identities whose policies grant
// escalation primitives and links them to the escalation target node.
func (b *Builder) mergePrivilegeEscalation(state *build, assets []domain.Asset) {
	total := 0
	for i := range assets {
		asset := &assets[i]
		if !strings.Contains(asset.ResourceType, "IAM") {
			continue
		}
		findings := iam.CheckPrivilegeEscalation(domain.PoliciesFromMetadata(asset.Metadata))
		if len(findings) == 0 {
			continue
		}
		total += len(findings)

		node := state.assetNode(asset.ID)
		if node != nil {
			node.Data.Vulnerabilities = append(node.Data.Vulnerabilities, findings...)
			node.Data.Vulnerable = true
		}

		state.ensureNode(EscalationNodeID, domain.ElementData{
			ID:    EscalationNodeID,
			Label: "Full Admin Privileges",
			Type:  "Target",
			Color: colorEscalation,
		})
		state.addEdge(state.nodeIDByAsset[asset.ID], EscalationNodeID, EdgeCanEscalate, colorEscalation, "")
	}
	b.metrics.AnalyzerFindingsTotal.WithLabelValues("privilege_escalation").Add(float64(total))
}

// mergeOIDCTrust emits trust edges from IAM roles to the OIDC providers
// their trust policies federate to, and brands provider nodes with the
// identified platform. Trust edges to providers that were never
// discovered dangle on purpose; they are counted so the gap is visible.
func (b *Builder) mergeOIDCTrust(state *build, assets []domain.Asset) {
	for i := range assets {
		asset := &assets[i]

		if strings.Contains(asset.ResourceType, "OIDC Provider") {
			if node := state.assetNode(asset.ID); node != nil {
				node.Data.Metadata = withPlatform(node.Data.Metadata, oidc.IdentifyProvider(asset.ID))
			}
			continue
		}

		if asset.ResourceType != "IAM Role" {
			continue
		}
		for _, providerURL := range oidc.TrustedProviders(*asset) {
			if _, known := state.nodeByID[providerURL]; !known {
				b.metrics.DanglingTrustEdgesTotal.Inc()
				logging.LogDebug("OIDC trust edge targets an undiscovered provider", map[string]any{
					"resource": asset.ID,
					"provider": providerURL,
				})
			}
			state.addDashedEdge(state.nodeIDByAsset[asset.ID], providerURL, EdgeTrustsOIDC, colorTrustEdge)
		}
	}
}

// mergeKillChains materializes each detected kill chain as a node with
// membership edges from every involved asset.
func (b *Builder) mergeKillChains(state *build, assets []domain.Asset) {
	chains := attackpath.Analyze(assets)
	b.metrics.AnalyzerFindingsTotal.WithLabelValues("attack_path").Add(float64(len(chains)))

	for _, chain := range chains {
		chainID := "chain_" + strings.ReplaceAll(chain.Name, " ", "_")
		state.ensureNode(chainID, domain.ElementData{
			ID:       chainID,
			Label:    "KILL CHAIN: " + chain.Name,
			Type:     "KillChain",
			Color:    colorKillChain,
			Metadata: map[string]any{"Description": chain.Description},
		})
		for _, member := range chain.AssetIDs {
			memberID := state.nodeIDByAsset[member]
			if memberID == "" {
				memberID = member
			}
			state.addDashedEdge(memberID, chainID, EdgePartOfChain, colorChainEdge)
		}
	}
}

// mergePersistence appends persistence and C2 findings to the affected
// nodes. HIGH severity findings recolor the node to the alert color.
func (b *Builder) mergePersistence(state *build, assets []domain.Asset) {
	findings := persistence.Analyze(assets, b.now())
	b.metrics.AnalyzerFindingsTotal.WithLabelValues("persistence").Add(float64(len(findings)))

	for _, finding := range findings {
		node := state.assetNode(finding.AssetID)
		if node == nil {
			continue
		}
		node.Data.Vulnerabilities = append(node.Data.Vulnerabilities,
			fmt.Sprintf("%s: %s", finding.Type, finding.Description))
		node.Data.Vulnerable = true
		if finding.Severity == domain.SeverityHigh {
			node.Data.Color = colorAlert
		}
	}
}

func (s *build) append(el *domain.Element) {
	s.elements = append(s.elements, el)
	if el.IsNode() {
		s.nodeByID[el.Data.ID] = el
	}
}

// ensureNode creates a synthetic node once; later calls are no-ops.
func (s *build) ensureNode(id string, data domain.ElementData) {
	if _, ok := s.nodeByID[id]; ok {
		return
	}
	s.append(&domain.Element{Data: data})
}

func (s *build) addEdge(source, target, label, lineColor, lineStyle string) {
	s.append(&domain.Element{Data: domain.ElementData{
		ID:        edgeID(source, target, label),
		Source:    source,
		Target:    target,
		Label:     label,
		LineColor: lineColor,
		LineStyle: lineStyle,
	}})
}

func (s *build) addDashedEdge(source, target, label, lineColor string) {
	s.addEdge(source, target, label, lineColor, "dashed")
}

// assetNode resolves the node element built for an asset id.
func (s *build) assetNode(assetID string) *domain.Element {
	nodeID, ok := s.nodeIDByAsset[assetID]
	if !ok {
		return nil
	}
	return s.nodeByID[nodeID]
}

// edgeID derives a stable edge identifier so repeated builds of the same
// asset list yield identical element sets.
func edgeID(source, target, label string) string {
	return fmt.Sprintf("%s|%s|%s", source, target, label)
}

func colorForResourceType(resourceType string) string {
	for _, rc := range resourceColors {
		if strings.Contains(resourceType, rc.Match) {
			return rc.Color
		}
	}
	return colorDefault
}

// withPlatform returns a copy of the metadata with the Platform entry
// set. The input asset's map is never mutated.
func withPlatform(metadata map[string]any, platform string) map[string]any {
	annotated := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		annotated[k] = v
	}
	annotated["Platform"] = platform
	return annotated
}

func firstAssigned(existing, candidate string) string {
	if existing != "" {
		return existing
	}
	return candidate
}
