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

// Package credential turns a tenant/client/secret triple into a reusable Entra ID credential.
package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/Olaffson/data-lake-2/common"
)

// Options configures NewServicePrincipal. The zero value is usable.
type Options struct {
	// ClientOptions is passed to azidentity, e.g. to reuse the run's HTTP client or target a sovereign cloud.
	ClientOptions azcore.ClientOptions

	// AdditionallyAllowedTenants lets the credential acquire tokens for tenants other than its own.
	AdditionallyAllowedTenants []string

	Observer common.Observer
}

// Credential is an immutable service principal identity. It does not keep the client secret;
// only the token source built from it.
type Credential struct {
	tenantID string
	clientID string
	tc       azcore.TokenCredential
}

var _ azcore.TokenCredential = (*Credential)(nil)

// NewServicePrincipal builds a client secret credential. Nothing is sent over the network:
// a wrong secret only shows up when the credential is first used.
// Empty or malformed identifiers are rejected immediately.
func NewServicePrincipal(tenantID, clientID, clientSecret string, opts *Options) (*Credential, error) {
	if opts == nil {
		opts = &Options{}
	}
	observer := common.ObserverOrNop(opts.Observer)

	// the secret is about to flow into SDK errors; make sure it can never be logged
	common.RegisterSecret(clientSecret)

	missing := make([]string, 0)
	if strings.TrimSpace(tenantID) == "" {
		missing = append(missing, "tenant ID")
	}
	if strings.TrimSpace(clientID) == "" {
		missing = append(missing, "client ID")
	}
	if clientSecret == "" {
		missing = append(missing, "client secret")
	}
	if len(missing) > 0 {
		err := common.NewIngestError(common.EIngestError.CredentialMissing(), "Empty "+strings.Join(missing, ", ")+".")
		observer.OnEvent(common.EStage.Credential(), common.EOutcome.Failed(), err.Error())
		return nil, err
	}

	tc, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, &azidentity.ClientSecretCredentialOptions{
		ClientOptions:              opts.ClientOptions,
		AdditionallyAllowedTenants: opts.AdditionallyAllowedTenants,
	})
	if err != nil {
		wrapped := common.WrapIngestError(common.EIngestError.CredentialInvalid(), err, fmt.Sprintf("Client %s in tenant %s", clientID, tenantID))
		observer.OnEvent(common.EStage.Credential(), common.EOutcome.Failed(), wrapped.Error())
		return nil, wrapped
	}

	c := FromTokenCredential(tenantID, clientID, tc)
	observer.OnEvent(common.EStage.Credential(), common.EOutcome.Succeeded(), "Service principal credential created for "+c.String())
	return c, nil
}

// FromTokenCredential wraps an existing token source, e.g. a managed identity or a test double.
func FromTokenCredential(tenantID, clientID string, tc azcore.TokenCredential) *Credential {
	return &Credential{tenantID: tenantID, clientID: clientID, tc: tc}
}

func (c *Credential) TenantID() string { return c.tenantID }
func (c *Credential) ClientID() string { return c.clientID }

// GetToken implements azcore.TokenCredential.
func (c *Credential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return c.tc.GetToken(ctx, opts)
}

func (c *Credential) String() string {
	return fmt.Sprintf("client %s (tenant %s)", c.clientID, c.tenantID)
}

// Factory creates credentials. Pipelines take one so tests can avoid Entra ID entirely.
type Factory interface {
	NewServicePrincipal(tenantID, clientID, clientSecret string) (*Credential, error)
}

// ServicePrincipalFactory is the production Factory.
type ServicePrincipalFactory struct {
	Options Options
}

func (f ServicePrincipalFactory) NewServicePrincipal(tenantID, clientID, clientSecret string) (*Credential, error) {
	opts := f.Options
	return NewServicePrincipal(tenantID, clientID, clientSecret, &opts)
}
