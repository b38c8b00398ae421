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

package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Olaffson/data-lake-2/common"
)

// Summary is the outcome of a run. Results are in source order.
type Summary struct {
	RunID     common.RunID
	StartTime time.Time
	EndTime   time.Time
	Results   []common.TransferResult

	Succeeded      int
	DownloadFailed int
	UploadFailed   int
	Cancelled      int
	NotStarted     int
	TotalBytes     int64
}

func newSummary(runID common.RunID, start time.Time) *Summary {
	return &Summary{RunID: runID, StartTime: start, Results: make([]common.TransferResult, 0)}
}

func (s *Summary) finish(results []common.TransferResult, end time.Time) {
	s.Results = results
	s.EndTime = end
	s.Succeeded, s.DownloadFailed, s.UploadFailed, s.Cancelled, s.NotStarted, s.TotalBytes = 0, 0, 0, 0, 0, 0

	for _, r := range results {
		switch r.Status {
		case common.ETransferStatus.Success():
			s.Succeeded++
			s.TotalBytes += r.Bytes
		case common.ETransferStatus.DownloadFailed():
			s.DownloadFailed++
		case common.ETransferStatus.UploadFailed():
			s.UploadFailed++
		case common.ETransferStatus.Cancelled():
			s.Cancelled++
		default:
			s.NotStarted++
		}
	}
}

// Failed counts the items that were attempted or guarded and did not make it.
func (s *Summary) Failed() int {
	return s.DownloadFailed + s.UploadFailed
}

func (s *Summary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

func (s *Summary) Statuses() []common.TransferStatus {
	out := make([]common.TransferStatus, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Status
	}
	return out
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d file(s): %d succeeded, %d failed, %d cancelled, %s transferred in %s",
		len(s.Results), s.Succeeded, s.Failed(), s.Cancelled,
		humanize.IBytes(uint64(s.TotalBytes)), s.Duration().Round(time.Millisecond))
}

type resultJSON struct {
	Source      string                `json:"source"`
	Destination string                `json:"destination"`
	Status      common.TransferStatus `json:"status"`
	StatusCode  int                   `json:"statusCode,omitempty"`
	Body        string                `json:"body,omitempty"`
	Bytes       int64                 `json:"bytes"`
	DurationMs  int64                 `json:"durationMs"`
	Error       string                `json:"error,omitempty"`
}

type summaryJSON struct {
	RunID          common.RunID `json:"runId"`
	StartTime      time.Time    `json:"startTime"`
	EndTime        time.Time    `json:"endTime"`
	Succeeded      int          `json:"succeeded"`
	DownloadFailed int          `json:"downloadFailed"`
	UploadFailed   int          `json:"uploadFailed"`
	Cancelled      int          `json:"cancelled"`
	NotStarted     int          `json:"notStarted"`
	TotalBytes     int64        `json:"totalBytes"`
	Results        []resultJSON `json:"results"`
}

// MarshalJSON flattens errors to strings. Source URLs are redacted.
func (s *Summary) MarshalJSON() ([]byte, error) {
	out := summaryJSON{
		RunID:          s.RunID,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Succeeded:      s.Succeeded,
		DownloadFailed: s.DownloadFailed,
		UploadFailed:   s.UploadFailed,
		Cancelled:      s.Cancelled,
		NotStarted:     s.NotStarted,
		TotalBytes:     s.TotalBytes,
		Results:        make([]resultJSON, len(s.Results)),
	}
	for i, r := range s.Results {
		out.Results[i] = resultJSON{
			Source:      common.URLStringExtension(r.Item.SourceURL).RedactSecretQueryParamForLogging(),
			Destination: r.Item.Destination,
			Status:      r.Status,
			StatusCode:  r.StatusCode,
			Body:        r.Body,
			Bytes:       r.Bytes,
			DurationMs:  r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			out.Results[i].Error = common.NewIngestLogSanitizer().SanitizeLogMessage(r.Err.Error())
		}
	}
	return json.Marshal(out)
}
