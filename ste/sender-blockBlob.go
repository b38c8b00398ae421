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

package ste

import (
	"bytes"
	"context"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/pkg/errors"

	"github.com/Olaffson/data-lake-2/common"
)

// upload writes data as a block blob with one Put Blob call. The SAS in blobURL is the only
// authorization, and retries are off so a failure is reported exactly as the service gave it.
// Put Blob answers 201 Created on success; the SDK turns anything else into a ResponseError.
func (e *Executor) upload(ctx context.Context, blobURL string, data []byte) callOutcome {
	client, err := blockblob.NewClientWithNoCredential(blobURL, &blockblob.ClientOptions{
		ClientOptions: common.NoRetryClientOptions(e.httpClient),
	})
	if err != nil {
		return callOutcome{err: common.WrapIngestError(common.EIngestError.UploadFailed(), errors.Wrap(err, "creating block blob client"), "")}
	}

	_, err = client.Upload(ctx, streaming.NopCloser(bytes.NewReader(data)), nil)
	if err == nil {
		return callOutcome{statusCode: http.StatusCreated}
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		info := ""
		if bloberror.HasCode(err, bloberror.AuthenticationFailed, bloberror.AuthorizationFailure, bloberror.AuthorizationPermissionMismatch) {
			info = "The blob service rejected the SAS token."
		}
		out := callOutcome{
			statusCode: respErr.StatusCode,
			err:        common.WrapIngestError(common.EIngestError.UploadFailed(), err, info),
		}
		if respErr.RawResponse != nil {
			if payload, perr := runtime.Payload(respErr.RawResponse); perr == nil {
				out.body = excerpt(payload)
			}
		}
		return out
	}
	return callOutcome{err: common.WrapIngestError(common.EIngestError.UploadFailed(), err, "")}
}

func excerpt(b []byte) string {
	if len(b) > common.MaxErrorBodyExcerpt {
		b = b[:common.MaxErrorBodyExcerpt]
	}
	return string(b)
}
