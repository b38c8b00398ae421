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

import "time"

// Endpoint templates; %s is the account or vault name.
const (
	DefaultBlobEndpoint  = "https://%s.blob.core.windows.net/"
	DefaultVaultEndpoint = "https://%s.vault.azure.net/"
)

const (
	DefaultSasValidity  = time.Hour
	DefaultHTTPTimeout  = 10 * time.Minute
	DefaultParallelism  = 1
	DefaultExpiryMargin = time.Minute

	// A user delegation key cannot be valid for more than seven days.
	MaxSasValidity = 7 * 24 * time.Hour

	// How much of a failing response body is kept on a TransferResult.
	MaxErrorBodyExcerpt = 4 * 1024
)

// Defaults of the static ingestion: one parquet shard of the Marqo amazon products dataset.
const (
	DefaultStaticSourceURL   = "https://huggingface.co/datasets/Marqo/amazon-products-eval/resolve/main/data/data-00000-of-00105.parquet?download=true"
	DefaultStaticDestination = "parquet/data-00000-of-00105.parquet"
)

// Defaults of the discovery ingestion: every Inside Airbnb listing link mentioning Spain.
const (
	DefaultDiscoveryPageURL = "https://insideairbnb.com/get-the-data/"
	DefaultDiscoveryKeyword = "spain"
)
