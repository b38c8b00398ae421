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

// Package traverser produces the list of remote files a run transfers.
package traverser

import (
	"context"

	"github.com/Olaffson/data-lake-2/common"
)

// Locator enumerates transfer items, in the order they should be transferred.
type Locator interface {
	Locate(ctx context.Context) ([]common.TransferItem, error)
}

// StaticLocator returns a fixed list of items.
type StaticLocator struct {
	items []common.TransferItem
}

// NewStaticLocator keeps items as given, duplicates included.
func NewStaticLocator(items ...common.TransferItem) *StaticLocator {
	return &StaticLocator{items: append([]common.TransferItem(nil), items...)}
}

// NewStaticURLLocator builds a single-item locator. An empty destination is taken from the URL.
func NewStaticURLLocator(sourceURL, destination string) *StaticLocator {
	if destination == "" {
		destination = common.DestinationFromURL(sourceURL)
	}
	return NewStaticLocator(common.TransferItem{SourceURL: sourceURL, Destination: destination})
}

// DefaultStaticLocator is the product catalogue shard ingested when no URL is given.
func DefaultStaticLocator() *StaticLocator {
	return NewStaticURLLocator(common.DefaultStaticSourceURL, common.DefaultStaticDestination)
}

func (s *StaticLocator) Locate(ctx context.Context) ([]common.TransferItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]common.TransferItem(nil), s.items...), nil
}
