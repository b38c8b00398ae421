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
	"regexp"
	"strings"
	"sync"
)

type LogSanitizer interface {
	SanitizeLogMessage(msg string) string
}

// ingestLogSanitizer performs string-replacement based log redaction.
// It is a backstop: SAS signatures end up inside URLs and those URLs end up inside
// SDK and HTTP errors, which are logged as a whole.
// On top of the query-string keys it also removes any literal secret registered
// with RegisterSecret (client secrets, the value read from Key Vault).
type ingestLogSanitizer struct {
}

func NewIngestLogSanitizer() LogSanitizer {
	return &ingestLogSanitizer{}
}

const redacted = "-REDACTED-"

var sensitiveQueryStringKeys = []string{
	"sig", // was strings.ToLower(SigAzure), but that isn't init-order-safe, see init() below
	"signature",
	"token",
	"credential",
	"client_secret",
}

// secrets shorter than this are not registered; they would redact ordinary words
const minRegisteredSecretLength = 8

var registeredSecrets = struct {
	sync.RWMutex
	values []string
}{}

// RegisterSecret makes every sanitizer replace the literal value with -REDACTED-.
func RegisterSecret(secret string) {
	if len(secret) < minRegisteredSecretLength {
		return
	}

	registeredSecrets.Lock()
	defer registeredSecrets.Unlock()
	for _, s := range registeredSecrets.values {
		if s == secret {
			return
		}
	}
	registeredSecrets.values = append(registeredSecrets.values, secret)
}

// SanitizeLogMessage removes credentials and credential-like strings from msg.
// The implementation uses a 'to lower' of the raw string because case-insensitive
// regexes on every line are much slower than a Contains pre-check.
func (s *ingestLogSanitizer) SanitizeLogMessage(msg string) string {
	registeredSecrets.RLock()
	for _, secret := range registeredSecrets.values {
		msg = strings.ReplaceAll(msg, secret, redacted)
	}
	registeredSecrets.RUnlock()

	lowerMsg := strings.ToLower(msg)
	for _, key := range sensitiveQueryStringKeys {
		if strings.Contains(lowerMsg, key) {
			msg = sensitiveRegexMap[key].ReplaceAllString(msg, "$1"+redacted) // must redact from the original-case msg
		}
	}

	return msg
}

// safe for concurrent reads once init has run
var sensitiveRegexMap = make(map[string]*regexp.Regexp)

func init() {
	mapContainsAzureSig := false
	for _, key := range sensitiveQueryStringKeys {
		// The value is everything up to a query-string, list or whitespace terminator.
		// : or = is accepted as the delimiter so header-style "Signature: x" is covered too.
		sensitiveRegexMap[key] = regexp.MustCompile("(?i)(?P<key>" + key + "[ \t]*[:=][ \t]*)(?P<value>[^& ,;\t\n\r]+)")

		if key == strings.ToLower(SigAzure) {
			mapContainsAzureSig = true
		}
	}

	if !mapContainsAzureSig {
		panic("sensitiveQueryStringKeys is misconfigured and does not contain the Azure signature key")
	}
}
