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

import "sync"

// Observer receives a notice for every step of a run. Detail is human readable and must never
// carry secret material; implementations that persist it still run it through a LogSanitizer.
type Observer interface {
	OnEvent(stage Stage, outcome Outcome, detail string)
}

type nopObserver struct{}

func (nopObserver) OnEvent(Stage, Outcome, string) {}

// NopObserver ignores every event.
var NopObserver Observer = nopObserver{}

// ObserverOrNop returns o, or NopObserver when o is nil.
func ObserverOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver
	}
	return o
}

// MultiObserver fans every event out to all of its members, in order.
type MultiObserver []Observer

func (m MultiObserver) OnEvent(stage Stage, outcome Outcome, detail string) {
	for _, o := range m {
		if o != nil {
			o.OnEvent(stage, outcome, detail)
		}
	}
}

// Event is one recorded notice.
type Event struct {
	Stage   Stage
	Outcome Outcome
	Detail  string
}

// RecordingObserver keeps every event in memory. Safe for concurrent use.
type RecordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (r *RecordingObserver) OnEvent(stage Stage, outcome Outcome, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Stage: stage, Outcome: outcome, Detail: detail})
}

func (r *RecordingObserver) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// EventsFor returns the recorded events of one stage.
func (r *RecordingObserver) EventsFor(stage Stage) []Event {
	out := make([]Event, 0)
	for _, e := range r.Events() {
		if e.Stage == stage {
			out = append(out, e)
		}
	}
	return out
}
