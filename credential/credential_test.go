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

package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olaffson/data-lake-2/common"
)

const (
	testTenant = "72f988bf-86f1-41af-91ab-2d7cd011db47"
	testClient = "00000000-0000-0000-0000-000000000001"
)

func TestNewServicePrincipal_Valid(t *testing.T) {
	a := assert.New(t)
	obs := &common.RecordingObserver{}

	cred, err := NewServicePrincipal(testTenant, testClient, "a-client-secret", &Options{Observer: obs})
	require.NoError(t, err)
	a.Equal(testTenant, cred.TenantID())
	a.Equal(testClient, cred.ClientID())
	a.NotContains(cred.String(), "a-client-secret")

	events := obs.EventsFor(common.EStage.Credential())
	require.Len(t, events, 1)
	a.Equal(common.EOutcome.Succeeded(), events[0].Outcome)
	a.NotContains(events[0].Detail, "a-client-secret")
}

func TestNewServicePrincipal_Missing(t *testing.T) {
	a := assert.New(t)

	cases := []struct {
		tenant, client, secret string
		mention                string
	}{
		{"", testClient, "secret", "tenant ID"},
		{testTenant, "  ", "secret", "client ID"},
		{testTenant, testClient, "", "client secret"},
	}

	for _, c := range cases {
		obs := &common.RecordingObserver{}
		cred, err := NewServicePrincipal(c.tenant, c.client, c.secret, &Options{Observer: obs})
		a.Nil(cred)
		a.True(errors.Is(err, common.EIngestError.CredentialMissing()))
		a.Contains(err.Error(), c.mention)
		a.True(common.IsFatal(err))

		events := obs.Events()
		if a.Len(events, 1) {
			a.Equal(common.EOutcome.Failed(), events[0].Outcome)
		}
	}
}

func TestNewServicePrincipal_MalformedTenant(t *testing.T) {
	a := assert.New(t)

	cred, err := NewServicePrincipal("not a tenant!", testClient, "a-client-secret", nil)
	a.Nil(cred)
	a.True(errors.Is(err, common.EIngestError.CredentialInvalid()))
	a.True(common.IsFatal(err))
}

type staticTokenCredential struct {
	token string
	calls int
}

func (s *staticTokenCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	s.calls++
	return azcore.AccessToken{Token: s.token, ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func TestFromTokenCredential_DelegatesGetToken(t *testing.T) {
	a := assert.New(t)
	inner := &staticTokenCredential{token: "fake"}

	cred := FromTokenCredential(testTenant, testClient, inner)
	tok, err := cred.GetToken(context.Background(), policy.TokenRequestOptions{Scopes: []string{"https://storage.azure.com/.default"}})
	a.NoError(err)
	a.Equal("fake", tok.Token)
	a.Equal(1, inner.calls)
}

func TestServicePrincipalFactory(t *testing.T) {
	a := assert.New(t)
	obs := &common.RecordingObserver{}

	cred, err := ServicePrincipalFactory{Options: Options{Observer: obs}}.NewServicePrincipal(testTenant, testClient, "another-secret")
	a.NoError(err)
	a.NotNil(cred)
	a.Len(obs.Events(), 1)
}
