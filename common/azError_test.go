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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngestError_Is(t *testing.T) {
	a := assert.New(t)

	cause := errors.New("connection reset")
	err := WrapIngestError(EIngestError.SecretUnreachable(), cause, "Secret \"X\" in https://v.vault.azure.net/")
	wrapped := fmt.Errorf("setup: %w", err)

	a.True(errors.Is(wrapped, EIngestError.SecretUnreachable()))
	a.False(errors.Is(wrapped, EIngestError.SecretNotFound()))
	a.True(errors.Is(wrapped, cause))
	a.True(IsFatal(wrapped))
	a.Equal("Key Vault could not be reached. Secret \"X\" in https://v.vault.azure.net/: connection reset", err.Error())
}

func TestIngestError_Fatality(t *testing.T) {
	a := assert.New(t)

	a.True(IsFatal(NewIngestError(EIngestError.ConfigMissing(), "TENANT_ID1")))
	a.False(IsFatal(NewIngestError(EIngestError.DownloadFailed(), "")))
	a.False(IsFatal(NewIngestError(EIngestError.TokenExpired(), "")))
	a.False(IsFatal(errors.New("plain")))
	a.True(EIngestError.UploadFailed().Equals(NewIngestError(EIngestError.UploadFailed(), "other info")))
}
