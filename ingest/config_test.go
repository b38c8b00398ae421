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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olaffson/data-lake-2/common"
	"github.com/Olaffson/data-lake-2/delegation"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("TENANT_ID1", "tenant-1")
	t.Setenv("CLIENT_ID1", "client-1")
	t.Setenv("TENANT_ID2", "tenant-2")
	t.Setenv("CLIENT_ID2", "client-2")
	t.Setenv("CLIENT_SECRET2", "client-secret-two")
	t.Setenv("KEY_VAULT_NAME", "myvault")
}

func TestConfigFromEnvironment_Defaults(t *testing.T) {
	a := assert.New(t)
	setRequiredEnv(t)

	cfg, err := ConfigFromEnvironment()
	require.NoError(t, err)
	a.Equal(Identity{TenantID: "tenant-2", ClientID: "client-2"}, cfg.Reader)
	a.Equal(Identity{TenantID: "tenant-1", ClientID: "client-1"}, cfg.Signer)
	a.Equal("client-secret-two", cfg.ReaderSecret.Reveal())
	a.Equal("myvault", cfg.KeyVaultName)
	a.Equal("CLIENTSECRET1", cfg.SecretName)
	a.Equal("okdatalakestoragegen2", cfg.AccountName)
	a.Equal("ok-container-part2", cfg.ContainerName)
	a.Equal(delegation.DefaultPermissions, cfg.SasPermissions)
	a.Equal(time.Hour, cfg.SasValidity)
	a.Equal(10*time.Minute, cfg.HTTPTimeout)
	a.Equal(1, cfg.Parallelism)
	a.Equal(time.Minute, cfg.ExpiryMargin)
}

func TestConfigFromEnvironment_Overrides(t *testing.T) {
	a := assert.New(t)
	setRequiredEnv(t)
	t.Setenv("DATALAKE_SAS_VALIDITY", "30m")
	t.Setenv("DATALAKE_SAS_PERMISSIONS", "rcwl")
	t.Setenv("DATALAKE_PARALLELISM", "4")
	t.Setenv("DATALAKE_CONTAINER_NAME", "landing")

	cfg, err := ConfigFromEnvironment()
	require.NoError(t, err)
	a.Equal(30*time.Minute, cfg.SasValidity)
	a.Equal("rcwl", cfg.SasPermissions.String())
	a.Equal(4, cfg.Parallelism)
	a.Equal("landing", cfg.ContainerName)
}

func TestConfigFromEnvironment_AllMissingReportedTogether(t *testing.T) {
	a := assert.New(t)
	for _, name := range []string{"TENANT_ID1", "CLIENT_ID1", "TENANT_ID2", "CLIENT_ID2", "CLIENT_SECRET2", "KEY_VAULT_NAME"} {
		t.Setenv(name, "")
	}
	t.Setenv("TENANT_ID2", "tenant-2")

	_, err := ConfigFromEnvironment()
	a.True(errors.Is(err, common.EIngestError.ConfigMissing()))
	for _, name := range []string{"TENANT_ID1", "CLIENT_ID1", "CLIENT_ID2", "CLIENT_SECRET2", "KEY_VAULT_NAME"} {
		a.Contains(err.Error(), name)
	}
	a.NotContains(err.Error(), "TENANT_ID2")
}

func TestConfigFromEnvironment_Invalid(t *testing.T) {
	a := assert.New(t)

	cases := map[string]string{
		"DATALAKE_SAS_VALIDITY":    "an hour",
		"DATALAKE_HTTP_TIMEOUT":    "ten",
		"DATALAKE_SAS_PERMISSIONS": "rwq",
		"DATALAKE_PARALLELISM":     "many",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, value)

			_, err := ConfigFromEnvironment()
			a.True(errors.Is(err, common.EIngestError.InvalidArgument()), "%s=%s: %v", name, value, err)
			a.Contains(err.Error(), name)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	a := assert.New(t)

	cfg := testConfig()
	a.NoError(cfg.Validate())

	cfg.Parallelism = 0
	a.True(errors.Is(cfg.Validate(), common.EIngestError.InvalidArgument()))

	cfg = testConfig()
	cfg.SasValidity = 8 * 24 * time.Hour
	a.True(errors.Is(cfg.Validate(), common.EIngestError.InvalidArgument()))

	cfg = testConfig()
	cfg.ExpiryMargin = 2 * time.Hour
	a.True(errors.Is(cfg.Validate(), common.EIngestError.InvalidArgument()))

	cfg = testConfig()
	cfg.Signer.ClientID = ""
	err := cfg.Validate()
	a.True(errors.Is(err, common.EIngestError.ConfigMissing()))
	a.Contains(err.Error(), "signer client ID")
}
