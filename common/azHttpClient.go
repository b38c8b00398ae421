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
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/mattn/go-ieproxy"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient returns the client used for every outbound call of a run: source downloads,
// the discovery page, and (through ClientOptions) Entra ID, Key Vault and Blob.
// The timeout covers the whole exchange including reading the body, so every call site
// gets the same bound. A zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 ieproxy.GetProxyFunc(),
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   timeout,
	}
}

// ClientOptions threads httpClient through an Azure SDK client so SDK calls share the
// proxy, timeout and tracing of the rest of the run.
func ClientOptions(httpClient *http.Client) azcore.ClientOptions {
	opts := azcore.ClientOptions{
		Telemetry: policy.TelemetryOptions{ApplicationID: UserAgent},
	}
	if httpClient != nil {
		opts.Transport = httpClient
	}
	return opts
}

// NoRetryClientOptions is ClientOptions with the SDK retry policy turned off: one attempt per call.
func NoRetryClientOptions(httpClient *http.Client) azcore.ClientOptions {
	opts := ClientOptions(httpClient)
	opts.Retry = policy.RetryOptions{MaxRetries: -1}
	return opts
}
