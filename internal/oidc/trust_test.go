package oidc

import (
	"reflect"
	"testing"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
)

func TestIdentifyProvider(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "github actions",
			url:  "token.actions.githubusercontent.com",
			want: "GitHub Actions",
		},
		{
			name: "github actions with scheme",
			url:  "https://token.actions.githubusercontent.com",
			want: "GitHub Actions",
		},
		{
			name: "gcp",
			url:  "accounts.google.com",
			want: "Google Cloud (GCP)",
		},
		{
			name: "azure ad",
			url:  "login.microsoftonline.com/tenant-id/v2.0",
			want: "Azure AD",
		},
		{
			name: "eks cluster issuer",
			url:  "oidc.eks.us-east-1.amazonaws.com/id/EXAMPLED539D4633E53DE1B71EXAMPLE",
			want: "AWS EKS",
		},
		{
			name: "gitlab ci",
			url:  "gitlab.com",
			want: "GitLab CI",
		},
		{
			name: "terraform cloud",
			url:  "app.terraform.io",
			want: "Terraform Cloud",
		},
		{
			name: "unknown issuer",
			url:  "idp.example.org",
			want: UnknownProvider,
		},
		{
			name: "empty url",
			url:  "",
			want: UnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IdentifyProvider(tt.url); got != tt.want {
				t.Errorf("IdentifyProvider(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func roleWithTrustPolicy(statements []map[string]any) domain.Asset {
	return domain.Asset{
		ID:           "ci-role",
		Provider:     "AWS",
		Region:       "global",
		ResourceType: "IAM Role",
		Metadata: map[string]any{
			"AssumeRolePolicyDocument": map[string]any{"Statement": statements},
		},
	}
}

func TestTrustedProviders(t *testing.T) {
	tests := []struct {
		name  string
		asset domain.Asset
		want  []string
	}{
		{
			name: "federated oidc provider arn",
			asset: roleWithTrustPolicy([]map[string]any{
				{
					"Effect": "Allow",
					"Principal": map[string]any{
						"Federated": "arn:aws:iam::123456789012:oidc-provider/token.actions.githubusercontent.com",
					},
					"Action": "sts:AssumeRoleWithWebIdentity",
				},
			}),
			want: []string{"token.actions.githubusercontent.com"},
		},
		{
			name: "federated list yields every provider",
			asset: roleWithTrustPolicy([]map[string]any{
				{
					"Effect": "Allow",
					"Principal": map[string]any{
						"Federated": []any{
							"arn:aws:iam::123456789012:oidc-provider/gitlab.com",
							"arn:aws:iam::123456789012:oidc-provider/app.terraform.io",
						},
					},
					"Action": "sts:AssumeRoleWithWebIdentity",
				},
			}),
			want: []string{"gitlab.com", "app.terraform.io"},
		},
		{
			name: "deny statements are skipped",
			asset: roleWithTrustPolicy([]map[string]any{
				{
					"Effect": "Deny",
					"Principal": map[string]any{
						"Federated": "arn:aws:iam::123456789012:oidc-provider/gitlab.com",
					},
				},
			}),
			want: []string{},
		},
		{
			name: "saml provider is not an oidc trust",
			asset: roleWithTrustPolicy([]map[string]any{
				{
					"Effect": "Allow",
					"Principal": map[string]any{
						"Federated": "arn:aws:iam::123456789012:saml-provider/corp-adfs",
					},
				},
			}),
			want: []string{},
		},
		{
			name: "service principal is ignored",
			asset: roleWithTrustPolicy([]map[string]any{
				{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": "ec2.amazonaws.com"},
					"Action":    "sts:AssumeRole",
				},
			}),
			want: []string{},
		},
		{
			name: "no trust policy metadata",
			asset: domain.Asset{
				ID:           "plain-role",
				Provider:     "AWS",
				ResourceType: "IAM Role",
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrustedProviders(tt.asset)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TrustedProviders() = %v, want %v", got, tt.want)
			}
		})
	}
}
