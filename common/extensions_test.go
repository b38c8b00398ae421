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

package common

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactSecretQueryParamForLogging(t *testing.T) {
	a := assert.New(t)

	a.Equal("https://acct.blob.core.windows.net/c/b?sig=REDACTED&sp=rwl&sv=2023-11-03",
		URLStringExtension("https://acct.blob.core.windows.net/c/b?sv=2023-11-03&sp=rwl&sig=abc%2Bdef").RedactSecretQueryParamForLogging())

	// no signature: left untouched, including the order of the query
	a.Equal("https://x/a.csv?z=1&a=2", URLStringExtension("https://x/a.csv?z=1&a=2").RedactSecretQueryParamForLogging())
	a.Equal("https://x/a.csv?SIG=REDACTED", URLStringExtension("https://x/a.csv?SIG=abc").RedactSecretQueryParamForLogging())
}

func TestBlobURL(t *testing.T) {
	a := assert.New(t)

	a.Equal("https://okdatalakestoragegen2.blob.core.windows.net/ok-container-part2/parquet/data-00000-of-00105.parquet?sv=1&sig=x",
		BlobURL(DefaultBlobEndpoint, "okdatalakestoragegen2", "ok-container-part2", "parquet/data-00000-of-00105.parquet", "?sv=1&sig=x"))
	a.Equal("https://acct.blob.core.windows.net/c/dir/with%20space%3F.csv",
		BlobURL(DefaultBlobEndpoint, "acct", "c", "dir/with space?.csv", ""))
	a.Equal("http://127.0.0.1:10000/c/a.csv?sv=1",
		BlobURL("http://127.0.0.1:10000/", "ignored", "c", "a.csv", "sv=1"))
}

func TestServiceURL(t *testing.T) {
	a := assert.New(t)
	a.Equal("https://myvault.vault.azure.net/", ServiceURL(DefaultVaultEndpoint, "myvault"))
	a.Equal("https://127.0.0.1:8443/", ServiceURL("https://127.0.0.1:8443/", "myvault"))
}

func TestHTTPResponseExtension(t *testing.T) {
	a := assert.New(t)

	a.True(HTTPResponseExtension{&http.Response{StatusCode: http.StatusCreated}}.IsSuccessStatusCode(http.StatusCreated))
	a.False(HTTPResponseExtension{&http.Response{StatusCode: http.StatusOK}}.IsSuccessStatusCode(http.StatusCreated))
	a.True(HTTPResponseExtension{&http.Response{StatusCode: http.StatusNoContent}}.Is2xx())
	a.False(HTTPResponseExtension{&http.Response{StatusCode: http.StatusNotFound}}.Is2xx())
	a.False(HTTPResponseExtension{}.Is2xx())
}
