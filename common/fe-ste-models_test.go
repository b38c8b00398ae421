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

package common_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olaffson/data-lake-2/common"
)

func TestDestinationFromURL(t *testing.T) {
	a := assert.New(t)

	cases := map[string]string{
		"https://huggingface.co/datasets/x/resolve/main/data-00000-of-00105.parquet?download=true": "data-00000-of-00105.parquet",
		"https://www.data.gouv.fr/fr/datasets/r/spain-data.csv":                                    "spain-data.csv",
		"https://example.com/files/Spain%202.csv#top":                                              "Spain 2.csv",
		"https://example.com/dir/":                                                                 "",
		"https://example.com":                                                                      "",
		"plain-name.csv":                                                                           "plain-name.csv",
	}

	for raw, expected := range cases {
		a.Equal(expected, common.DestinationFromURL(raw), raw)
	}
}

func TestTransferStatus(t *testing.T) {
	a := assert.New(t)

	a.Equal("Success", common.ETransferStatus.Success().String())
	a.Equal("DownloadFailed", common.ETransferStatus.DownloadFailed().String())
	a.True(common.ETransferStatus.UploadFailed().DidFail())
	a.True(common.ETransferStatus.Cancelled().DidFail())
	a.False(common.ETransferStatus.NotStarted().DidFail())
	a.False(common.ETransferStatus.Success().DidFail())

	b, err := json.Marshal(common.ETransferStatus.UploadFailed())
	require.NoError(t, err)
	a.Equal(`"UploadFailed"`, string(b))
}

func TestEnumParse(t *testing.T) {
	a := assert.New(t)

	var of common.OutputFormat
	a.NoError(of.Parse("json"))
	a.Equal(common.EOutputFormat.Json(), of)
	a.NoError(of.Parse("Text"))
	a.Equal(common.EOutputFormat.Text(), of)
	a.Error(of.Parse("yaml"))

	var sk common.SourceKind
	a.NoError(sk.Parse("discovery"))
	a.Equal(common.ESourceKind.Discovery(), sk)
	a.Error(sk.Parse("s3"))

	a.Equal("Token", common.EStage.Token().String())
	a.Equal("Skipped", common.EOutcome.Skipped().String())
	a.Equal("Error", common.EExitCode.Error().String())
}

func TestRunID(t *testing.T) {
	a := assert.New(t)

	id := common.NewRunID()
	a.False(id.IsEmpty())
	a.True(common.RunID{}.IsEmpty())

	parsed, err := common.ParseRunID(id.String())
	require.NoError(t, err)
	a.Equal(id, parsed)

	_, err = common.ParseRunID("not-a-uuid")
	a.Error(err)

	b, err := json.Marshal(id)
	require.NoError(t, err)
	a.Equal(`"`+id.String()+`"`, string(b))
}

func TestTransferItem_StringRedactsSignature(t *testing.T) {
	item := common.TransferItem{SourceURL: "https://x/a.csv?sig=abc", Destination: "a.csv"}
	assert.Equal(t, "https://x/a.csv?sig=REDACTED -> a.csv", item.String())
}
