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

// Package ingest runs one ingestion: a chain of two service principals unlocks a
// container-scoped SAS token, then every located file is copied into the container.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Olaffson/data-lake-2/common"
	"github.com/Olaffson/data-lake-2/credential"
	"github.com/Olaffson/data-lake-2/delegation"
	"github.com/Olaffson/data-lake-2/keyvault"
	"github.com/Olaffson/data-lake-2/ste"
	"github.com/Olaffson/data-lake-2/traverser"
)

const tracerName = "github.com/Olaffson/data-lake-2/ingest"

// SecretResolver reads a secret from a named vault.
type SecretResolver interface {
	GetSecret(ctx context.Context, cred azcore.TokenCredential, vaultName, secretName string) (keyvault.Secret, error)
}

// TokenIssuer mints a container-scoped token.
type TokenIssuer interface {
	IssueContainerToken(ctx context.Context, accountName, containerName string, cred azcore.TokenCredential, perms sas.ContainerPermissions, window time.Duration) (delegation.Token, error)
}

// Transferer copies one item into the target container and never fails as a whole.
type Transferer interface {
	Transfer(ctx context.Context, target common.ContainerTarget, item common.TransferItem) common.TransferResult
}

var (
	_ SecretResolver = (*keyvault.Resolver)(nil)
	_ TokenIssuer    = (*delegation.Issuer)(nil)
	_ Transferer     = (*ste.Executor)(nil)
)

// Pipeline is one run. Both the static and the discovery ingestion are a Pipeline with a
// different Locator.
type Pipeline struct {
	Config      Config
	RunID       common.RunID
	Credentials credential.Factory
	Secrets     SecretResolver
	Tokens      TokenIssuer
	Locator     traverser.Locator
	Executor    Transferer
	Observer    common.Observer
	Now         func() time.Time
}

// NewPipeline wires the Azure-backed components around httpClient.
func NewPipeline(cfg Config, locator traverser.Locator, httpClient *http.Client, observer common.Observer) *Pipeline {
	clientOptions := common.ClientOptions(httpClient)
	return &Pipeline{
		Config: cfg,
		RunID:  common.NewRunID(),
		Credentials: credential.ServicePrincipalFactory{Options: credential.Options{
			ClientOptions: clientOptions,
			Observer:      observer,
		}},
		Secrets:  keyvault.NewResolver(clientOptions, observer),
		Tokens:   delegation.NewIssuer(clientOptions, observer),
		Locator:  locator,
		Executor: ste.NewExecutor(ste.ExecutorOptions{HTTPClient: httpClient, Observer: observer}),
		Observer: observer,
		Now:      time.Now,
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Run returns an error only when the run could not get as far as transferring: bad
// configuration, a credential, the secret or the token. Per-item failures are in the summary.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	observer := common.ObserverOrNop(p.Observer)
	if p.RunID.IsEmpty() {
		p.RunID = common.NewRunID()
	}
	summary := newSummary(p.RunID, p.now())

	ctx, span := otel.Tracer(tracerName).Start(ctx, "ingest.run", trace.WithAttributes(
		attribute.String("runID", p.RunID.String()),
		attribute.String("container", p.Config.ContainerName),
	))
	defer span.End()

	observer.OnEvent(common.EStage.Run(), common.EOutcome.Started(), fmt.Sprintf("Run %s into %s/%s", p.RunID, p.Config.AccountName, p.Config.ContainerName))

	if err := p.Config.Validate(); err != nil {
		return p.abort(span, summary, err)
	}

	token, err := p.setup(ctx)
	if err != nil {
		return p.abort(span, summary, err)
	}

	items, err := p.Locator.Locate(ctx)
	if err != nil {
		// a failed discovery is not fatal; the batch is just empty
		observer.OnEvent(common.EStage.Discovery(), common.EOutcome.Failed(), err.Error())
		items = []common.TransferItem{}
	}
	span.SetAttributes(attribute.Int("items", len(items)))

	var results []common.TransferResult
	if p.Config.DryRun {
		results = p.dryRun(items)
	} else {
		results = p.transferAll(ctx, token.Target(p.Config.AccountName), token, items)
	}

	summary.finish(results, p.now())
	observer.OnEvent(common.EStage.Run(), common.EOutcome.Succeeded(), summary.String())
	return summary, nil
}

func (p *Pipeline) abort(span trace.Span, summary *Summary, err error) (*Summary, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "setup failed")
	summary.finish([]common.TransferResult{}, p.now())
	common.ObserverOrNop(p.Observer).OnEvent(common.EStage.Run(), common.EOutcome.Failed(), err.Error())
	return summary, err
}

// setup walks the credential chain: reader -> vault secret -> signer -> token.
func (p *Pipeline) setup(ctx context.Context) (delegation.Token, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ingest.setup")
	defer span.End()

	cfg := p.Config
	reader, err := p.Credentials.NewServicePrincipal(cfg.Reader.TenantID, cfg.Reader.ClientID, cfg.ReaderSecret.Reveal())
	if err != nil {
		return delegation.Token{}, err
	}

	secret, err := p.Secrets.GetSecret(ctx, reader, cfg.KeyVaultName, cfg.SecretName)
	if err != nil {
		return delegation.Token{}, err
	}

	signer, err := p.Credentials.NewServicePrincipal(cfg.Signer.TenantID, cfg.Signer.ClientID, secret.Reveal())
	if err != nil {
		return delegation.Token{}, err
	}

	return p.Tokens.IssueContainerToken(ctx, cfg.AccountName, cfg.ContainerName, signer, cfg.SasPermissions, cfg.SasValidity)
}

func (p *Pipeline) dryRun(items []common.TransferItem) []common.TransferResult {
	observer := common.ObserverOrNop(p.Observer)
	results := make([]common.TransferResult, len(items))
	for i, item := range items {
		results[i] = common.TransferResult{Item: item, Status: common.ETransferStatus.NotStarted()}
		observer.OnEvent(common.EStage.Upload(), common.EOutcome.Skipped(), "Dry run: "+item.String())
	}
	return results
}

// transferAll runs up to Config.Parallelism transfers at once. Results keep the order of items.
// Once ctx is done no further item is started; those items are reported as cancelled.
func (p *Pipeline) transferAll(ctx context.Context, target common.ContainerTarget, token delegation.Token, items []common.TransferItem) []common.TransferResult {
	observer := common.ObserverOrNop(p.Observer)
	results := make([]common.TransferResult, len(items))
	for i, item := range items {
		results[i] = common.TransferResult{Item: item, Status: common.ETransferStatus.NotStarted()}
	}

	parallelism := p.Config.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, item := range items {
		if ctx.Err() != nil {
			results[i].Status = common.ETransferStatus.Cancelled()
			results[i].Err = ctx.Err()
			observer.OnEvent(common.EStage.Upload(), common.EOutcome.Skipped(), "Cancelled: "+item.String())
			continue
		}

		g.Go(func() error {
			results[i] = p.transferOne(ctx, target, token, item)
			return nil
		})
	}
	_ = g.Wait() // transferOne never fails

	return results
}

func (p *Pipeline) transferOne(ctx context.Context, target common.ContainerTarget, token delegation.Token, item common.TransferItem) common.TransferResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ingest.transfer", trace.WithAttributes(
		attribute.String("destination", item.Destination),
	))
	defer span.End()

	// a slot may free up only after cancellation
	if err := ctx.Err(); err != nil {
		common.ObserverOrNop(p.Observer).OnEvent(common.EStage.Upload(), common.EOutcome.Skipped(), "Cancelled: "+item.String())
		return common.TransferResult{Item: item, Status: common.ETransferStatus.Cancelled(), Err: err}
	}

	if token.ExpiresWithin(p.now(), p.Config.ExpiryMargin) {
		err := common.NewIngestError(common.EIngestError.TokenExpired(),
			fmt.Sprintf("Token expires at %s; not starting %s", token.ExpiresOn.UTC().Format(time.RFC3339), item.String()))
		common.ObserverOrNop(p.Observer).OnEvent(common.EStage.Upload(), common.EOutcome.Failed(), err.Error())
		span.SetStatus(codes.Error, "token expired")
		return common.TransferResult{Item: item, Status: common.ETransferStatus.UploadFailed(), Err: err}
	}

	result := p.Executor.Transfer(ctx, target, item)
	span.SetAttributes(
		attribute.String("status", result.Status.String()),
		attribute.Int64("bytes", result.Bytes),
	)
	if result.Status.DidFail() {
		span.SetStatus(codes.Error, result.Status.String())
	}
	return result
}
