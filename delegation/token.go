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

package delegation

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Olaffson/data-lake-2/common"
)

// Token is a container-scoped user delegation SAS. It prints without its signature.
type Token struct {
	Container   string
	Permissions string
	StartsOn    time.Time
	ExpiresOn   time.Time

	query string
}

// NewToken wraps an already encoded SAS query, e.g. one minted elsewhere or a test token.
func NewToken(container, permissions string, startsOn, expiresOn time.Time, query string) Token {
	return Token{
		Container:   container,
		Permissions: permissions,
		StartsOn:    startsOn,
		ExpiresOn:   expiresOn,
		query:       strings.TrimPrefix(query, "?"),
	}
}

// Encode returns the SAS query string, without a leading '?'.
func (t Token) Encode() string {
	return t.query
}

func (t Token) IsEmpty() bool {
	return t.query == ""
}

// ExpiresWithin reports whether the token is expired at now, or will be within margin.
func (t Token) ExpiresWithin(now time.Time, margin time.Duration) bool {
	return !now.Add(margin).Before(t.ExpiresOn)
}

// Target binds the token to an account for use by a transfer batch.
func (t Token) Target(accountName string) common.ContainerTarget {
	return common.ContainerTarget{
		AccountName:   accountName,
		ContainerName: t.Container,
		SASToken:      t.query,
		ExpiresOn:     t.ExpiresOn,
	}
}

func (t Token) String() string {
	q := t.query
	if values, err := url.ParseQuery(q); err == nil && values.Has(common.SigAzure) {
		values.Set(common.SigAzure, "REDACTED")
		q = values.Encode()
	}
	return fmt.Sprintf("container %s [%s] valid %s to %s (%s)",
		t.Container, t.Permissions,
		t.StartsOn.UTC().Format(time.RFC3339), t.ExpiresOn.UTC().Format(time.RFC3339), q)
}
