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
	"github.com/pkg/errors"
)

// IngestError is a coded error. Two IngestErrors are the same kind when their codes match,
// which lets callers use errors.Is against the EIngestError values.
type IngestError struct {
	code           uint64
	msg            string
	fatal          bool
	additionalInfo string
	cause          error
}

// NewIngestError composes an IngestError with given kind and extra context
func NewIngestError(base IngestError, additionalInfo string) IngestError {
	base.additionalInfo = additionalInfo
	return base
}

// WrapIngestError attaches the underlying cause to an IngestError of the given kind
func WrapIngestError(base IngestError, cause error, additionalInfo string) IngestError {
	base.additionalInfo = additionalInfo
	base.cause = cause
	return base
}

func (err IngestError) ErrorCode() uint64 {
	return err.code
}

// Fatal reports whether the error aborts the whole run rather than a single item.
func (err IngestError) Fatal() bool {
	return err.fatal
}

func (lhs IngestError) Equals(rhs IngestError) bool {
	return lhs.code == rhs.code
}

// Is makes errors.Is(err, EIngestError.SecretNotFound()) work regardless of the additional info.
func (err IngestError) Is(target error) bool {
	var t IngestError
	if !errors.As(target, &t) {
		return false
	}
	return err.Equals(t)
}

func (err IngestError) Unwrap() error {
	return err.cause
}

func (err IngestError) Error() string {
	msg := err.msg + err.additionalInfo
	if err.cause != nil {
		msg += ": " + err.cause.Error()
	}
	return msg
}

var EIngestError IngestError

func (IngestError) ConfigMissing() IngestError {
	return IngestError{code: 1, msg: "Required configuration is missing. ", fatal: true}
}

func (IngestError) CredentialMissing() IngestError {
	return IngestError{code: 2, msg: "Service principal credentials missing. ", fatal: true}
}

func (IngestError) CredentialInvalid() IngestError {
	return IngestError{code: 3, msg: "Service principal credentials are invalid. ", fatal: true}
}

func (IngestError) SecretForbidden() IngestError {
	return IngestError{code: 4, msg: "Access to the Key Vault secret was denied. ", fatal: true}
}

func (IngestError) SecretNotFound() IngestError {
	return IngestError{code: 5, msg: "Key Vault secret not found. ", fatal: true}
}

func (IngestError) SecretUnreachable() IngestError {
	return IngestError{code: 6, msg: "Key Vault could not be reached. ", fatal: true}
}

func (IngestError) DelegationKeyFailed() IngestError {
	return IngestError{code: 7, msg: "Failed to obtain a user delegation key. ", fatal: true}
}

func (IngestError) SasSigningFailed() IngestError {
	return IngestError{code: 8, msg: "Failed to sign the container SAS token. ", fatal: true}
}

func (IngestError) InvalidArgument() IngestError {
	return IngestError{code: 9, msg: "Invalid argument. ", fatal: true}
}

func (IngestError) DownloadFailed() IngestError {
	return IngestError{code: 10, msg: "Failed to download the source file. "}
}

func (IngestError) UploadFailed() IngestError {
	return IngestError{code: 11, msg: "Failed to upload the blob. "}
}

func (IngestError) TokenExpired() IngestError {
	return IngestError{code: 12, msg: "The container SAS token expired before the transfer started. "}
}

func (IngestError) DiscoveryFailed() IngestError {
	return IngestError{code: 13, msg: "Failed to discover source files. "}
}

// IsFatal reports whether err, or anything it wraps, is a fatal IngestError.
func IsFatal(err error) bool {
	var ie IngestError
	if errors.As(err, &ie) {
		return ie.Fatal()
	}
	return false
}
