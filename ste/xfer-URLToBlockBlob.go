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

// Package ste is the transfer engine: it moves one remote file into a block blob.
package ste

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Olaffson/data-lake-2/common"
)

// ExecutorOptions configures NewExecutor. The zero value is usable.
type ExecutorOptions struct {
	// HTTPClient is shared by the download and the upload; its timeout bounds each of them.
	HTTPClient *http.Client

	// BlobEndpoint is formatted with the account name; common.DefaultBlobEndpoint when empty.
	BlobEndpoint string

	Observer common.Observer
}

// Executor copies a remote file into a container: a single GET of the source,
// then a single Put Blob of the bytes under the container SAS. Nothing is retried.
type Executor struct {
	httpClient   *http.Client
	blobEndpoint string
	observer     common.Observer
}

func NewExecutor(opts ExecutorOptions) *Executor {
	e := &Executor{
		httpClient:   opts.HTTPClient,
		blobEndpoint: opts.BlobEndpoint,
		observer:     common.ObserverOrNop(opts.Observer),
	}
	if e.httpClient == nil {
		e.httpClient = common.NewHTTPClient(common.DefaultHTTPTimeout)
	}
	if e.blobEndpoint == "" {
		e.blobEndpoint = common.DefaultBlobEndpoint
	}
	return e
}

// Transfer never returns an error: every outcome, failures included, is in the result.
func (e *Executor) Transfer(ctx context.Context, target common.ContainerTarget, item common.TransferItem) (result common.TransferResult) {
	start := time.Now()
	result = common.TransferResult{Item: item, Status: common.ETransferStatus.NotStarted()}
	defer func() {
		result.Duration = time.Since(start)
	}()

	// step 1: initial checks
	if err := ctx.Err(); err != nil {
		result.Status = common.ETransferStatus.Cancelled()
		result.Err = err
		return result
	}
	if item.Destination == "" {
		result.Status = common.ETransferStatus.UploadFailed()
		result.Err = common.NewIngestError(common.EIngestError.UploadFailed(), "No blob name for "+item.String())
		e.observer.OnEvent(common.EStage.Upload(), common.EOutcome.Failed(), result.Err.Error())
		return result
	}

	// step 2: read the whole source
	e.observer.OnEvent(common.EStage.Download(), common.EOutcome.Started(), item.String())
	data, dl := e.download(ctx, item.SourceURL)
	if dl.err != nil {
		result.Status = common.ETransferStatus.DownloadFailed()
		result.StatusCode = dl.statusCode
		result.Body = dl.body
		result.Err = dl.err
		e.observer.OnEvent(common.EStage.Download(), common.EOutcome.Failed(), fmt.Sprintf("%s: %v", item.String(), dl.err))
		return result
	}
	result.Bytes = int64(len(data))
	e.observer.OnEvent(common.EStage.Download(), common.EOutcome.Succeeded(),
		fmt.Sprintf("%s: %s read", item.String(), humanize.IBytes(uint64(len(data)))))

	// step 3: put the blob
	destination := common.BlobURL(e.blobEndpoint, target.AccountName, target.ContainerName, item.Destination, target.SASToken)
	e.observer.OnEvent(common.EStage.Upload(), common.EOutcome.Started(), common.URLStringExtension(destination).RedactSecretQueryParamForLogging())
	up := e.upload(ctx, destination, data)
	if up.err != nil {
		result.Status = common.ETransferStatus.UploadFailed()
		result.StatusCode = up.statusCode
		result.Body = up.body
		result.Err = up.err
		e.observer.OnEvent(common.EStage.Upload(), common.EOutcome.Failed(), fmt.Sprintf("%s: %v", item.String(), up.err))
		return result
	}

	result.Status = common.ETransferStatus.Success()
	result.StatusCode = up.statusCode
	e.observer.OnEvent(common.EStage.Upload(), common.EOutcome.Succeeded(),
		fmt.Sprintf("%s/%s: %s written", target.ContainerName, item.Destination, humanize.IBytes(uint64(len(data)))))
	return result
}

// callOutcome describes one failed or succeeded HTTP exchange.
type callOutcome struct {
	statusCode int
	body       string
	err        error
}
