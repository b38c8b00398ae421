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
	"fmt"

	"github.com/Olaffson/data-lake-2/common"
)

// LogObserver writes every event to a logger. The logger sanitizes each line.
type LogObserver struct {
	logger common.ILogger
}

func NewLogObserver(logger common.ILogger) *LogObserver {
	if logger == nil {
		logger = common.NopLogger{}
	}
	return &LogObserver{logger: logger}
}

func (l *LogObserver) OnEvent(stage common.Stage, outcome common.Outcome, detail string) {
	level := levelFor(outcome)
	if !l.logger.ShouldLog(level) {
		return
	}
	l.logger.Log(level, fmt.Sprintf("%s %s: %s", stage, outcome, detail))
}

func levelFor(outcome common.Outcome) common.LogLevel {
	switch outcome {
	case common.EOutcome.Failed():
		return common.ELogLevel.Error()
	case common.EOutcome.Skipped():
		return common.ELogLevel.Warning()
	case common.EOutcome.Succeeded():
		return common.ELogLevel.Info()
	default:
		return common.ELogLevel.Debug()
	}
}
