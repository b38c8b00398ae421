// Copyright © 2025 Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package keyvault reads a named secret from Azure Key Vault with a given credential.
package keyvault

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/pkg/errors"

	"github.com/Olaffson/data-lake-2/common"
)

// Secret holds secret material. It prints as REDACTED; call Reveal to get the value.
type Secret struct {
	value string
}

func NewSecret(value string) Secret {
	common.RegisterSecret(value)
	return Secret{value: value}
}

func (s Secret) Reveal() string   { return s.value }
func (s Secret) IsEmpty() bool    { return s.value == "" }
func (s Secret) String() string   { return "REDACTED" }
func (s Secret) GoString() string { return "keyvault.Secret{REDACTED}" }

// SecretGetter is the part of *azsecrets.Client the resolver needs.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

var _ SecretGetter = (*azsecrets.Client)(nil)

// ClientFactory opens a SecretGetter for one vault.
type ClientFactory func(vaultURL string, cred azcore.TokenCredential) (SecretGetter, error)

// NewAzureClientFactory returns a ClientFactory backed by azsecrets.
func NewAzureClientFactory(clientOptions azcore.ClientOptions) ClientFactory {
	return func(vaultURL string, cred azcore.TokenCredential) (SecretGetter, error) {
		return azsecrets.NewClient(vaultURL, cred, &azsecrets.ClientOptions{ClientOptions: clientOptions})
	}
}

type Resolver struct {
	// EndpointTemplate is formatted with the vault name; common.DefaultVaultEndpoint when empty.
	EndpointTemplate string
	NewClient        ClientFactory
	Observer         common.Observer
}

func NewResolver(clientOptions azcore.ClientOptions, observer common.Observer) *Resolver {
	return &Resolver{
		EndpointTemplate: common.DefaultVaultEndpoint,
		NewClient:        NewAzureClientFactory(clientOptions),
		Observer:         observer,
	}
}

// GetSecret fetches the latest version of secretName from vaultName using cred.
// Every failure is fatal to a run and comes back as one of
// EIngestError.SecretForbidden, SecretNotFound or SecretUnreachable.
func (r *Resolver) GetSecret(ctx context.Context, cred azcore.TokenCredential, vaultName, secretName string) (Secret, error) {
	observer := common.ObserverOrNop(r.Observer)

	if strings.TrimSpace(vaultName) == "" || strings.TrimSpace(secretName) == "" {
		err := common.NewIngestError(common.EIngestError.InvalidArgument(), "Key Vault name and secret name must not be empty.")
		observer.OnEvent(common.EStage.Secret(), common.EOutcome.Failed(), err.Error())
		return Secret{}, err
	}
	if cred == nil {
		err := common.NewIngestError(common.EIngestError.CredentialMissing(), "No credential to access Key Vault "+vaultName+".")
		observer.OnEvent(common.EStage.Secret(), common.EOutcome.Failed(), err.Error())
		return Secret{}, err
	}

	template := r.EndpointTemplate
	if template == "" {
		template = common.DefaultVaultEndpoint
	}
	vaultURL := common.ServiceURL(template, vaultName)
	where := fmt.Sprintf("Secret %q in %s", secretName, vaultURL)

	client, err := r.NewClient(vaultURL, cred)
	if err != nil {
		wrapped := common.WrapIngestError(common.EIngestError.SecretUnreachable(), errors.Wrap(err, "creating Key Vault client"), where)
		observer.OnEvent(common.EStage.Secret(), common.EOutcome.Failed(), wrapped.Error())
		return Secret{}, wrapped
	}

	// an empty version selects the latest one
	resp, err := client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		wrapped := classify(err, where)
		observer.OnEvent(common.EStage.Secret(), common.EOutcome.Failed(), wrapped.Error())
		return Secret{}, wrapped
	}

	if resp.Value == nil || *resp.Value == "" {
		err := common.NewIngestError(common.EIngestError.SecretNotFound(), where+" has no value.")
		observer.OnEvent(common.EStage.Secret(), common.EOutcome.Failed(), err.Error())
		return Secret{}, err
	}

	observer.OnEvent(common.EStage.Secret(), common.EOutcome.Succeeded(), where+" retrieved.")
	return NewSecret(*resp.Value), nil
}

func classify(err error, where string) common.IngestError {
	var respErr *azcore.ResponseError
	var authErr *azidentity.AuthenticationFailedError

	switch {
	case errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound:
		return common.WrapIngestError(common.EIngestError.SecretNotFound(), err, where)
	case errors.As(err, &respErr) && (respErr.StatusCode == http.StatusForbidden || respErr.StatusCode == http.StatusUnauthorized):
		return common.WrapIngestError(common.EIngestError.SecretForbidden(), err, where)
	case errors.As(err, &authErr):
		// the vault was never asked: Entra ID rejected the credential itself
		return common.WrapIngestError(common.EIngestError.SecretForbidden(), err, where)
	default:
		return common.WrapIngestError(common.EIngestError.SecretUnreachable(), err, where)
	}
}
