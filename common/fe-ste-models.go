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
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/JeffreyRichter/enum/enum"
	"github.com/google/uuid"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

type RunID uuid.UUID

func NewRunID() RunID {
	return RunID(uuid.New())
}

func (r RunID) IsEmpty() bool {
	return r == RunID{}
}

func ParseRunID(s string) (RunID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, err
	}
	return RunID(u), nil
}

func (r RunID) String() string {
	return uuid.UUID(r).String()
}

func (r RunID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var EOutputFormat = OutputFormat(0)

type OutputFormat uint32

func (OutputFormat) None() OutputFormat { return OutputFormat(0) }
func (OutputFormat) Text() OutputFormat { return OutputFormat(1) }
func (OutputFormat) Json() OutputFormat { return OutputFormat(2) }

func (of *OutputFormat) Parse(s string) error {
	val, err := enum.Parse(reflect.TypeOf(of), s, true)
	if err == nil {
		*of = val.(OutputFormat)
	}
	return err
}

func (of OutputFormat) String() string {
	return enum.StringInt(of, reflect.TypeOf(of))
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var ESourceKind = SourceKind(0)

// SourceKind selects how the list of files to ingest is produced.
type SourceKind uint8

func (SourceKind) Static() SourceKind    { return SourceKind(0) }
func (SourceKind) Discovery() SourceKind { return SourceKind(1) }

func (sk *SourceKind) Parse(s string) error {
	val, err := enum.Parse(reflect.TypeOf(sk), s, true)
	if err == nil {
		*sk = val.(SourceKind)
	}
	return err
}

func (sk SourceKind) String() string {
	return enum.StringInt(sk, reflect.TypeOf(sk))
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var EStage = Stage(0)

// Stage names the step of a run an event refers to.
type Stage uint8

func (Stage) Run() Stage        { return Stage(0) }
func (Stage) Credential() Stage { return Stage(1) }
func (Stage) Secret() Stage     { return Stage(2) }
func (Stage) Token() Stage      { return Stage(3) }
func (Stage) Discovery() Stage  { return Stage(4) }
func (Stage) Download() Stage   { return Stage(5) }
func (Stage) Upload() Stage     { return Stage(6) }

func (s Stage) String() string {
	return enum.StringInt(s, reflect.TypeOf(s))
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var EOutcome = Outcome(0)

type Outcome uint8

func (Outcome) Started() Outcome   { return Outcome(0) }
func (Outcome) Succeeded() Outcome { return Outcome(1) }
func (Outcome) Failed() Outcome    { return Outcome(2) }
func (Outcome) Skipped() Outcome   { return Outcome(3) }

func (o Outcome) String() string {
	return enum.StringInt(o, reflect.TypeOf(o))
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var ETransferStatus = TransferStatus(0)

// TransferStatus is the outcome of a single item. Negative values are failures.
type TransferStatus int32

func (TransferStatus) NotStarted() TransferStatus { return TransferStatus(0) }

func (TransferStatus) Success() TransferStatus { return TransferStatus(1) }

// The source could not be read: network error or a non-2xx answer.
func (TransferStatus) DownloadFailed() TransferStatus { return TransferStatus(-1) }

// The bytes were read but the blob service did not answer 201 Created.
func (TransferStatus) UploadFailed() TransferStatus { return TransferStatus(-2) }

// The run was cancelled before the item was attempted.
func (TransferStatus) Cancelled() TransferStatus { return TransferStatus(-3) }

func (ts TransferStatus) DidFail() bool { return ts < 0 }

func (ts TransferStatus) String() string {
	return enum.StringInt(ts, reflect.TypeOf(ts))
}

func (ts TransferStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// TransferItem is one unit of work: a remote file and the blob name it is stored under.
type TransferItem struct {
	SourceURL   string
	Destination string
}

func (t TransferItem) String() string {
	return fmt.Sprintf("%s -> %s", URLStringExtension(t.SourceURL).RedactSecretQueryParamForLogging(), t.Destination)
}

// DestinationFromURL returns the last path segment of a URL, ignoring query and fragment.
// It returns "" when the URL has no usable last segment (for example "https://host/dir/").
func DestinationFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	i := strings.LastIndex(p, "/")
	segment := p[i+1:]
	if unescaped, err := url.PathUnescape(segment); err == nil {
		segment = unescaped
	}
	return segment
}

// ContainerTarget is the read-only destination shared by every item of a batch.
type ContainerTarget struct {
	AccountName   string
	ContainerName string
	SASToken      string
	ExpiresOn     time.Time
}

// TransferResult is the outcome of one TransferItem. Results never affect each other.
type TransferResult struct {
	Item       TransferItem
	Status     TransferStatus
	StatusCode int    // HTTP status of the failing call, 0 when no response was received
	Body       string // excerpt of the failing response body
	Bytes      int64
	Duration   time.Duration
	Err        error
}

func (r TransferResult) Succeeded() bool {
	return r.Status == ETransferStatus.Success()
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var EExitCode = ExitCode(0)

// ExitCode is the process status. A run that completes is a success even when some items failed.
type ExitCode uint32

func (ExitCode) Success() ExitCode { return ExitCode(0) }
func (ExitCode) Error() ExitCode   { return ExitCode(1) }

func (ec ExitCode) String() string {
	return enum.StringInt(ec, reflect.TypeOf(ec))
}
