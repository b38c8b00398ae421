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

package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olaffson/data-lake-2/common"
)

func TestMetrics_ObserveResults(t *testing.T) {
	a := assert.New(t)
	m := NewMetrics()

	m.ObserveResults([]common.TransferResult{
		{Status: common.ETransferStatus.Success(), Bytes: 100, Duration: time.Second},
		{Status: common.ETransferStatus.DownloadFailed(), Duration: time.Second},
		{Status: common.ETransferStatus.Success(), Bytes: 50, Duration: 2 * time.Second},
		{Status: common.ETransferStatus.Cancelled()},
	})

	a.Equal(2.0, testutil.ToFloat64(m.transfers.WithLabelValues("Success")))
	a.Equal(1.0, testutil.ToFloat64(m.transfers.WithLabelValues("DownloadFailed")))
	a.Equal(1.0, testutil.ToFloat64(m.transfers.WithLabelValues("Cancelled")))
	a.Equal(150.0, testutil.ToFloat64(m.bytes))
	a.Equal(1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_SetupFailures(t *testing.T) {
	a := assert.New(t)
	m := NewMetrics()
	var obs common.Observer = m

	obs.OnEvent(common.EStage.Secret(), common.EOutcome.Failed(), "denied")
	obs.OnEvent(common.EStage.Secret(), common.EOutcome.Succeeded(), "ok")
	obs.OnEvent(common.EStage.Upload(), common.EOutcome.Failed(), "counted per result instead")
	obs.OnEvent(common.EStage.Token(), common.EOutcome.Failed(), "no key")

	a.Equal(1.0, testutil.ToFloat64(m.setupFailures.WithLabelValues("Secret")))
	a.Equal(1.0, testutil.ToFloat64(m.setupFailures.WithLabelValues("Token")))
	a.Equal(2, testutil.CollectAndCount(m.setupFailures))
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	a := assert.New(t)
	m := NewMetrics()
	m.ObserveResults([]common.TransferResult{{Status: common.ETransferStatus.Success(), Bytes: 2048, Duration: time.Second}})

	path := filepath.Join(t.TempDir(), "datalake.prom")
	require.NoError(t, m.WriteToTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	a.Contains(string(b), `datalake_transfers_total{status="Success"} 1`)
	a.Contains(string(b), "datalake_transfer_bytes_total 2048")
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
