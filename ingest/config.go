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
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/Olaffson/data-lake-2/common"
	"github.com/Olaffson/data-lake-2/delegation"
	"github.com/Olaffson/data-lake-2/keyvault"
)

// Identity names a service principal.
type Identity struct {
	TenantID string
	ClientID string
}

// Config is everything a run needs besides the list of files.
type Config struct {
	// Reader can read the Key Vault secret. Its own secret comes from the environment.
	Reader       Identity
	ReaderSecret keyvault.Secret

	// Signer requests the user delegation key. Its secret is read from Key Vault.
	Signer Identity

	KeyVaultName string
	SecretName   string

	AccountName   string
	ContainerName string

	SasPermissions sas.ContainerPermissions
	SasValidity    time.Duration

	// ExpiryMargin: an item is not started when the token expires within this margin.
	ExpiryMargin time.Duration

	Parallelism int
	HTTPTimeout time.Duration

	// DryRun resolves credentials, issues the token and locates the files, but transfers nothing.
	DryRun bool
}

// DefaultConfig has every optional setting at its default and no identities.
func DefaultConfig() Config {
	return Config{
		SecretName:     common.EEnvironmentVariable.SecretName().DefaultValue,
		AccountName:    common.EEnvironmentVariable.AccountName().DefaultValue,
		ContainerName:  common.EEnvironmentVariable.ContainerName().DefaultValue,
		SasPermissions: delegation.DefaultPermissions,
		SasValidity:    common.DefaultSasValidity,
		ExpiryMargin:   common.DefaultExpiryMargin,
		Parallelism:    common.DefaultParallelism,
		HTTPTimeout:    common.DefaultHTTPTimeout,
	}
}

// ConfigFromEnvironment reads the process environment. All missing required variables are
// reported together, before anything touches the network.
func ConfigFromEnvironment() (Config, error) {
	if missing := common.MissingEnvironmentVariables(common.VisibleEnvironmentVariables...); len(missing) > 0 {
		return Config{}, common.NewIngestError(common.EIngestError.ConfigMissing(), "Set "+strings.Join(missing, ", ")+".")
	}

	env := common.GetEnvironmentVariable
	cfg := DefaultConfig()
	cfg.Reader = Identity{TenantID: env(common.EEnvironmentVariable.TenantID2()), ClientID: env(common.EEnvironmentVariable.ClientID2())}
	cfg.ReaderSecret = keyvault.NewSecret(env(common.EEnvironmentVariable.ClientSecret2()))
	cfg.Signer = Identity{TenantID: env(common.EEnvironmentVariable.TenantID1()), ClientID: env(common.EEnvironmentVariable.ClientID1())}
	cfg.KeyVaultName = env(common.EEnvironmentVariable.KeyVaultName())
	cfg.SecretName = env(common.EEnvironmentVariable.SecretName())
	cfg.AccountName = env(common.EEnvironmentVariable.AccountName())
	cfg.ContainerName = env(common.EEnvironmentVariable.ContainerName())

	var err error
	if cfg.SasValidity, err = parseDuration(common.EEnvironmentVariable.SasValidity()); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = parseDuration(common.EEnvironmentVariable.HTTPTimeout()); err != nil {
		return Config{}, err
	}
	if cfg.SasPermissions, err = delegation.ParsePermissions(env(common.EEnvironmentVariable.SasPermissions())); err != nil {
		return Config{}, common.WrapIngestError(common.EIngestError.InvalidArgument(), err, common.EEnvironmentVariable.SasPermissions().Name)
	}

	parallelism := env(common.EEnvironmentVariable.Parallelism())
	if cfg.Parallelism, err = strconv.Atoi(parallelism); err != nil {
		return Config{}, common.WrapIngestError(common.EIngestError.InvalidArgument(), err, common.EEnvironmentVariable.Parallelism().Name)
	}

	return cfg, cfg.Validate()
}

func parseDuration(env common.EnvironmentVariable) (time.Duration, error) {
	d, err := time.ParseDuration(common.GetEnvironmentVariable(env))
	if err != nil {
		return 0, common.WrapIngestError(common.EIngestError.InvalidArgument(), err, env.Name)
	}
	return d, nil
}

// Validate checks the settings that do not need the network.
func (c Config) Validate() error {
	missing := make([]string, 0)
	check := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check(c.Reader.TenantID, "reader tenant ID")
	check(c.Reader.ClientID, "reader client ID")
	check(c.Signer.TenantID, "signer tenant ID")
	check(c.Signer.ClientID, "signer client ID")
	check(c.KeyVaultName, "Key Vault name")
	check(c.SecretName, "secret name")
	check(c.AccountName, "storage account name")
	check(c.ContainerName, "container name")
	if c.ReaderSecret.IsEmpty() {
		missing = append(missing, "reader client secret")
	}
	if len(missing) > 0 {
		return common.NewIngestError(common.EIngestError.ConfigMissing(), "Empty "+strings.Join(missing, ", ")+".")
	}

	switch {
	case c.Parallelism < 1:
		return common.NewIngestError(common.EIngestError.InvalidArgument(), fmt.Sprintf("Parallelism must be at least 1, got %d.", c.Parallelism))
	case c.SasValidity <= 0 || c.SasValidity > common.MaxSasValidity:
		return common.NewIngestError(common.EIngestError.InvalidArgument(),
			fmt.Sprintf("SAS validity must be positive and at most %s, got %s.", common.MaxSasValidity, c.SasValidity))
	case c.ExpiryMargin < 0 || c.ExpiryMargin >= c.SasValidity:
		return common.NewIngestError(common.EIngestError.InvalidArgument(),
			fmt.Sprintf("Expiry margin %s must be shorter than the SAS validity %s.", c.ExpiryMargin, c.SasValidity))
	case c.HTTPTimeout < 0:
		return common.NewIngestError(common.EIngestError.InvalidArgument(), "HTTP timeout must not be negative.")
	case c.SasPermissions.String() == "":
		return common.NewIngestError(common.EIngestError.InvalidArgument(), "SAS permissions must not be empty.")
	}
	return nil
}
