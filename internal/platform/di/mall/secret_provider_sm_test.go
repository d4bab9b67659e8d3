package mall

import (
	"context"
	"errors"
	"testing"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccessor struct {
	name string
	data string
	err  error
}

func (f *fakeAccessor) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.name = req.GetName()
	if f.err != nil {
		return nil, f.err
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(f.data)},
	}, nil
}

func TestClientSecretProviderSM(t *testing.T) {
	fa := &fakeAccessor{data: " s3cret\n"}
	p := &clientSecretProviderSM{sm: fa, projectID: "prj"}

	got, err := p.ClientSecret(t.Context(), "ctp-client-secret")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, "projects/prj/secrets/ctp-client-secret/versions/latest", fa.name)

	fa.data = "  "
	_, err = p.ClientSecret(t.Context(), "ctp-client-secret")
	assert.Error(t, err)

	fa.err = errors.New("permission denied")
	_, err = p.ClientSecret(t.Context(), "ctp-client-secret")
	assert.ErrorContains(t, err, "permission denied")

	_, err = p.ClientSecret(t.Context(), "")
	assert.Error(t, err)

	var nilP *clientSecretProviderSM
	_, err = nilP.ClientSecret(t.Context(), "x")
	assert.ErrorIs(t, err, errSecretProviderNotConfigured)
}
