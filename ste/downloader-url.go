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
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/Olaffson/data-lake-2/common"
)

// download reads sourceURL into memory. Any non-2xx answer is a failure.
func (e *Executor) download(ctx context.Context, sourceURL string) ([]byte, callOutcome) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, callOutcome{err: common.WrapIngestError(common.EIngestError.DownloadFailed(), err, "invalid source URL")}
	}
	req.Header.Set("User-Agent", common.UserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, callOutcome{err: common.WrapIngestError(common.EIngestError.DownloadFailed(), err, "")}
	}
	defer resp.Body.Close()

	if !(common.HTTPResponseExtension{Response: resp}).Is2xx() {
		excerpt := readExcerpt(resp.Body)
		return nil, callOutcome{
			statusCode: resp.StatusCode,
			body:       excerpt,
			err:        common.NewIngestError(common.EIngestError.DownloadFailed(), fmt.Sprintf("GET %s answered %s", common.URLStringExtension(sourceURL).RedactSecretQueryParamForLogging(), resp.Status)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, callOutcome{
			statusCode: resp.StatusCode,
			err:        common.WrapIngestError(common.EIngestError.DownloadFailed(), errors.Wrap(err, "reading source body"), ""),
		}
	}
	return data, callOutcome{statusCode: resp.StatusCode}
}

// readExcerpt keeps the start of an error body for the transfer result.
func readExcerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, common.MaxErrorBodyExcerpt))
	return string(b)
}
