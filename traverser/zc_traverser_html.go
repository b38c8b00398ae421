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

package traverser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/net/html"

	"github.com/Olaffson/data-lake-2/common"
)

// HTMLLocator discovers files by scanning the anchors of a web page.
// A page that cannot be fetched yields no items rather than an error.
type HTMLLocator struct {
	pageURL    string
	filter     linkFilter
	httpClient *http.Client
	observer   common.Observer
}

func NewHTMLLocator(pageURL, keyword string, httpClient *http.Client, observer common.Observer) *HTMLLocator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTMLLocator{
		pageURL:    pageURL,
		filter:     newKeywordFilter(keyword),
		httpClient: httpClient,
		observer:   common.ObserverOrNop(observer),
	}
}

func (h *HTMLLocator) Locate(ctx context.Context) ([]common.TransferItem, error) {
	h.observer.OnEvent(common.EStage.Discovery(), common.EOutcome.Started(), "Scanning "+h.pageURL)

	items, err := h.locate(ctx)
	if err != nil {
		wrapped := common.WrapIngestError(common.EIngestError.DiscoveryFailed(), err, h.pageURL)
		h.observer.OnEvent(common.EStage.Discovery(), common.EOutcome.Failed(), wrapped.Error())
		return []common.TransferItem{}, nil
	}

	h.observer.OnEvent(common.EStage.Discovery(), common.EOutcome.Succeeded(), fmt.Sprintf("Found %d file(s) on %s", len(items), h.pageURL))
	return items, nil
}

func (h *HTMLLocator) locate(ctx context.Context) ([]common.TransferItem, error) {
	base, err := url.Parse(h.pageURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", common.UserAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !(common.HTTPResponseExtension{Response: resp}).Is2xx() {
		return nil, fmt.Errorf("GET %s: %s", h.pageURL, resp.Status)
	}

	hrefs, err := extractHrefs(resp.Body)
	if err != nil {
		return nil, err
	}

	items := make([]common.TransferItem, 0)
	for _, href := range hrefs {
		if !h.filter.DoesPass(href) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			h.observer.OnEvent(common.EStage.Discovery(), common.EOutcome.Skipped(), fmt.Sprintf("Unparseable link %q: %v", href, err))
			continue
		}
		source := base.ResolveReference(ref).String()

		destination := common.DestinationFromURL(source)
		if destination == "" {
			h.observer.OnEvent(common.EStage.Discovery(), common.EOutcome.Skipped(), fmt.Sprintf("Link %q has no file name", href))
			continue
		}

		items = append(items, common.TransferItem{SourceURL: source, Destination: destination})
	}
	return items, nil
}

// extractHrefs returns the href of every <a> element, in document order.
func extractHrefs(r io.Reader) ([]string, error) {
	hrefs := make([]string, 0)
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return hrefs, nil
			}
			return nil, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					hrefs = append(hrefs, string(val))
					break
				}
			}
		}
	}
}
