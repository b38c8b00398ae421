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

// Package delegation mints short-lived, container-scoped SAS tokens signed with a
// user delegation key, so no storage account key is ever handled.
package delegation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"
	"github.com/pkg/errors"

	"github.com/Olaffson/data-lake-2/common"
)

// DefaultPermissions is read, write and list on the container.
var DefaultPermissions = sas.ContainerPermissions{Read: true, Write: true, List: true}

// ParsePermissions converts a permission string such as "rwl" into container permissions.
func ParsePermissions(s string) (sas.ContainerPermissions, error) {
	p := sas.ContainerPermissions{}
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case 'r':
			p.Read = true
		case 'a':
			p.Add = true
		case 'c':
			p.Create = true
		case 'w':
			p.Write = true
		case 'd':
			p.Delete = true
		case 'x':
			p.DeletePreviousVersion = true
		case 'l':
			p.List = true
		case 't':
			p.Tag = true
		default:
			return sas.ContainerPermissions{}, fmt.Errorf("invalid container permission %q in %q", r, s)
		}
	}
	return p, nil
}

// Issuer obtains a fresh user delegation key for every token it mints. Nothing is cached.
type Issuer struct {
	// EndpointTemplate is formatted with the account name; common.DefaultBlobEndpoint when empty.
	EndpointTemplate string
	ClientOptions    azcore.ClientOptions
	Now              func() time.Time
	Observer         common.Observer
}

func NewIssuer(clientOptions azcore.ClientOptions, observer common.Observer) *Issuer {
	return &Issuer{
		EndpointTemplate: common.DefaultBlobEndpoint,
		ClientOptions:    clientOptions,
		Now:              time.Now,
		Observer:         observer,
	}
}

func (i *Issuer) now() time.Time {
	if i.Now == nil {
		return time.Now().UTC()
	}
	return i.Now().UTC()
}

// IssueContainerToken requests a user delegation key valid for [now, now+window] as cred,
// and signs a container SAS with perms over the same window.
func (i *Issuer) IssueContainerToken(ctx context.Context, accountName, containerName string, cred azcore.TokenCredential, perms sas.ContainerPermissions, window time.Duration) (Token, error) {
	observer := common.ObserverOrNop(i.Observer)
	fail := func(err error) (Token, error) {
		observer.OnEvent(common.EStage.Token(), common.EOutcome.Failed(), err.Error())
		return Token{}, err
	}

	if err := validate(accountName, containerName, cred, perms, window); err != nil {
		return fail(err)
	}

	template := i.EndpointTemplate
	if template == "" {
		template = common.DefaultBlobEndpoint
	}
	serviceURL := common.ServiceURL(template, accountName)
	where := fmt.Sprintf("Container %s in %s", containerName, serviceURL)

	client, err := service.NewClient(serviceURL, cred, &service.ClientOptions{ClientOptions: i.ClientOptions})
	if err != nil {
		return fail(common.WrapIngestError(common.EIngestError.DelegationKeyFailed(), errors.Wrap(err, "creating blob service client"), where))
	}

	// second precision: that is all the service and the SAS format keep
	start := i.now().Truncate(time.Second)
	expiry := start.Add(window)

	observer.OnEvent(common.EStage.Token(), common.EOutcome.Started(), "Requesting a user delegation key for "+where)
	udc, err := client.GetUserDelegationCredential(ctx, service.KeyInfo{
		Start:  to.Ptr(start.Format(sas.TimeFormat)),
		Expiry: to.Ptr(expiry.Format(sas.TimeFormat)),
	}, nil)
	if err != nil {
		return fail(common.WrapIngestError(common.EIngestError.DelegationKeyFailed(), err, where))
	}

	qp, err := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     start,
		ExpiryTime:    expiry,
		Permissions:   to.Ptr(perms).String(),
		ContainerName: containerName,
	}.SignWithUserDelegation(udc)
	if err != nil {
		return fail(common.WrapIngestError(common.EIngestError.SasSigningFailed(), err, where))
	}

	token := Token{
		Container:   containerName,
		Permissions: qp.Permissions(),
		StartsOn:    start,
		ExpiresOn:   expiry,
		query:       qp.Encode(),
	}
	observer.OnEvent(common.EStage.Token(), common.EOutcome.Succeeded(), "Issued "+token.String())
	return token, nil
}

func validate(accountName, containerName string, cred azcore.TokenCredential, perms sas.ContainerPermissions, window time.Duration) error {
	switch {
	case strings.TrimSpace(accountName) == "":
		return common.NewIngestError(common.EIngestError.InvalidArgument(), "Storage account name must not be empty.")
	case strings.TrimSpace(containerName) == "":
		return common.NewIngestError(common.EIngestError.InvalidArgument(), "Container name must not be empty.")
	case cred == nil:
		return common.NewIngestError(common.EIngestError.CredentialMissing(), "No credential to request a user delegation key.")
	case window <= 0:
		return common.NewIngestError(common.EIngestError.InvalidArgument(), fmt.Sprintf("Token validity %s must be positive.", window))
	case window > common.MaxSasValidity:
		return common.NewIngestError(common.EIngestError.InvalidArgument(),
			fmt.Sprintf("Token validity %s exceeds the %s maximum of a user delegation key.", window, common.MaxSasValidity))
	case perms.String() == "":
		return common.NewIngestError(common.EIngestError.InvalidArgument(), "Token permissions must not be empty.")
	}
	return nil
}
