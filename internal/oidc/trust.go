package oidc

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
)

const oidcProviderPrefix = "oidc-provider/"

// UnknownProvider is returned when no signature matches the provider URL.
const UnknownProvider = "Unknown OIDC Provider"

// providerSignature maps an external identity platform to the substring
// that identifies it in an OIDC issuer URL.
type providerSignature struct {
	Name      string
	Signature string
}

// providerSignatures is the fixed, ordered platform signature table.
// First match wins.
var providerSignatures = []providerSignature{
	{Name: "GitHub Actions", Signature: "token.actions.githubusercontent.com"},
	{Name: "Google Cloud (GCP)", Signature: "accounts.google.com"},
	{Name: "Azure AD", Signature: "login.microsoftonline.com"},
	{Name: "AWS EKS", Signature: "oidc.eks"},
	{Name: "GitLab CI", Signature: "gitlab.com"},
	{Name: "Terraform Cloud", Signature: "app.terraform.io"},
}

// IdentifyProvider names the external platform behind an OIDC provider
// URL, or UnknownProvider when the URL is empty or matches no signature.
func IdentifyProvider(url string) string {
	if url == "" {
		return UnknownProvider
	}
	for _, p := range providerSignatures {
		if strings.Contains(url, p.Signature) {
			return p.Name
		}
	}
	return UnknownProvider
}

// TrustedProviders returns the OIDC provider URLs an IAM role's trust
// policy federates to. Only Allow statements with a Federated principal
// pointing at an oidc-provider resource count; anything else is skipped.
func TrustedProviders(asset domain.Asset) []string {
	statements := domain.AssumeRoleStatementsFromMetadata(asset.Metadata)

	urls := make([]string, 0)
	for _, stmt := range statements {
		if stmt.Effect != "Allow" {
			continue
		}
		for _, federated := range stmt.FederatedPrincipals() {
			if url, ok := providerURLFromPrincipal(federated); ok {
				urls = append(urls, url)
			}
		}
	}
	return urls
}

// providerURLFromPrincipal extracts the issuer URL from a Federated
// principal ARN such as
// arn:aws:iam::123456789012:oidc-provider/token.actions.githubusercontent.com.
// Values that are not oidc-provider references are rejected.
func providerURLFromPrincipal(principal string) (string, bool) {
	if parsed, err := arn.Parse(principal); err == nil {
		if strings.HasPrefix(parsed.Resource, oidcProviderPrefix) {
			return strings.TrimPrefix(parsed.Resource, oidcProviderPrefix), true
		}
		return "", false
	}
	// Discovery occasionally hands back bare resource strings instead of
	// full ARNs; keep accepting those.
	if idx := strings.LastIndex(principal, ":"+oidcProviderPrefix); idx >= 0 {
		return principal[idx+1+len(oidcProviderPrefix):], true
	}
	return "", false
}
