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
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const SigAzure = "sig"

/////////////////////////////////////////////////////////////////////////////////////////////////
type URLStringExtension string

// RedactSecretQueryParamForLogging returns the URL with the value of its SAS signature replaced.
func (s URLStringExtension) RedactSecretQueryParamForLogging() string {
	u, err := url.Parse(string(s))
	if err != nil {
		return string(s)
	}
	ue := &URLExtension{URL: *u}
	return ue.RedactSigQueryParamForLogging().String()
}

/////////////////////////////////////////////////////////////////////////////////////////////////
type URLExtension struct {
	url.URL
}

func (u *URLExtension) RedactSigQueryParamForLogging() *URLExtension {
	if ok, rawQuery := redactSigQueryParam(u.RawQuery, SigAzure); ok {
		u.RawQuery = rawQuery
	}

	return u
}

func redactSigQueryParam(rawQuery, queryKeyNeedRedact string) (bool, string) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false, rawQuery
	}

	found := false
	for name := range values {
		if strings.EqualFold(name, queryKeyNeedRedact) {
			values[name] = []string{"REDACTED"}
			found = true
		}
	}
	if !found {
		return false, rawQuery // no allocation of a re-encoded query
	}
	return true, values.Encode()
}

/////////////////////////////////////////////////////////////////////////////////////////////////

// BlobURL builds https://{account}.blob.core.windows.net/{container}/{blob}?{sas} from an
// endpoint template. Each blob path segment is escaped; "/" is kept as the virtual directory separator.
func BlobURL(endpointTemplate, account, container, blobName, sasToken string) string {
	segments := strings.Split(blobName, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	u := strings.TrimSuffix(ServiceURL(endpointTemplate, account), "/") +
		"/" + url.PathEscape(container) + "/" + strings.Join(segments, "/")
	if sasToken != "" {
		u += "?" + strings.TrimPrefix(sasToken, "?")
	}
	return u
}

// ServiceURL fills the account name into an endpoint template such as DefaultBlobEndpoint.
// A template without a %s verb is a fixed endpoint (emulator, test server) and is returned as is.
func ServiceURL(endpointTemplate, account string) string {
	if !strings.Contains(endpointTemplate, "%s") {
		return endpointTemplate
	}
	return fmt.Sprintf(endpointTemplate, account)
}

/////////////////////////////////////////////////////////////////////////////////////////////////
type HTTPResponseExtension struct {
	*http.Response
}

// IsSuccessStatusCode checks if response's status code is contained in specified success status codes.
func (r HTTPResponseExtension) IsSuccessStatusCode(successStatusCodes ...int) bool {
	if r.Response == nil {
		return false
	}
	for _, i := range successStatusCodes {
		if i == r.StatusCode {
			return true
		}
	}
	return false
}

// Is2xx is true for any 2xx status
func (r HTTPResponseExtension) Is2xx() bool {
	return r.Response != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
