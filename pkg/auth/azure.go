package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/adrianliechti/wingman-soap/pkg/transport"
)

var _ transport.TokenSource = (*Azure)(nil)

// Azure issues Entra ID bearer tokens for SOAP endpoints behind Azure API
// Management or App Service authentication.
type Azure struct {
	creds  azcore.TokenCredential
	scopes []string

	mu    sync.Mutex
	token azcore.AccessToken
}

// NewAzure uses environment credentials, falling back to the Azure CLI login.
func NewAzure(scopes ...string) (*Azure, error) {
	creds := func() azcore.TokenCredential {
		if creds, err := azidentity.NewEnvironmentCredential(nil); err == nil {
			return creds
		}

		if creds, err := azidentity.NewAzureCLICredential(nil); err == nil {
			return creds
		}

		return nil
	}()

	if creds == nil {
		return nil, errors.New("unable to configure azure credentials")
	}

	return NewAzureCredential(creds, scopes...), nil
}

func NewAzureCredential(creds azcore.TokenCredential, scopes ...string) *Azure {
	return &Azure{
		creds:  creds,
		scopes: scopes,
	}
}

// Token returns the cached token until five minutes before it expires.
func (a *Azure) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := time.Now().Add(5 * time.Minute)

	if a.token.Token != "" && a.token.ExpiresOn.After(t) {
		return a.token.Token, nil
	}

	token, err := a.creds.GetToken(ctx, policy.TokenRequestOptions{Scopes: a.scopes})

	if err != nil {
		return "", err
	}

	a.token = token

	return token.Token, nil
}
