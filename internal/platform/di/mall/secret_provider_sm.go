// internal/platform/di/mall/secret_provider_sm.go
package mall

import (
	"context"
	"errors"
	"strings"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
)

var (
	errSecretProviderNotConfigured = errors.New("di.mall: clientSecretProviderSM not configured")
)

// secretAccessor is the part of *secretmanager.Client the provider uses.
type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// clientSecretProviderSM resolves the commercetools client secret from Secret Manager.
type clientSecretProviderSM struct {
	sm        secretAccessor
	projectID string
	version   string
}

func (p *clientSecretProviderSM) ClientSecret(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("clientSecretProviderSM: secretID is empty")
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("clientSecretProviderSM: projectID is empty")
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("clientSecretProviderSM: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("clientSecretProviderSM: empty payload (" + name + ")")
	}
	secret := strings.TrimSpace(string(resp.Payload.Data))
	if secret == "" {
		return "", errors.New("clientSecretProviderSM: empty secret (" + name + ")")
	}
	return secret, nil
}
