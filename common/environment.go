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
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type EnvironmentVariable struct {
	Name         string
	DefaultValue string
	Description  string
	Hidden       bool // secret material; never printed unless explicitly asked for
	Required     bool
}

// This array needs to be updated when a new public environment variable is added
var VisibleEnvironmentVariables = []EnvironmentVariable{
	EEnvironmentVariable.TenantID2(),
	EEnvironmentVariable.ClientID2(),
	EEnvironmentVariable.ClientSecret2(),
	EEnvironmentVariable.KeyVaultName(),
	EEnvironmentVariable.SecretName(),
	EEnvironmentVariable.TenantID1(),
	EEnvironmentVariable.ClientID1(),
	EEnvironmentVariable.AccountName(),
	EEnvironmentVariable.ContainerName(),
	EEnvironmentVariable.SasValidity(),
	EEnvironmentVariable.SasPermissions(),
	EEnvironmentVariable.HTTPTimeout(),
	EEnvironmentVariable.Parallelism(),
	EEnvironmentVariable.LogLevel(),
	EEnvironmentVariable.MetricsFile(),
	EEnvironmentVariable.OtlpEndpoint(),
}

var EEnvironmentVariable = EnvironmentVariable{}

func (EnvironmentVariable) TenantID1() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "TENANT_ID1",
		Description: "Tenant of the service principal that signs the container SAS token.",
		Required:    true,
	}
}

func (EnvironmentVariable) ClientID1() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "CLIENT_ID1",
		Description: "Client ID of the service principal that signs the container SAS token. Its secret is read from Key Vault.",
		Required:    true,
	}
}

func (EnvironmentVariable) TenantID2() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "TENANT_ID2",
		Description: "Tenant of the service principal allowed to read the Key Vault secret.",
		Required:    true,
	}
}

func (EnvironmentVariable) ClientID2() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "CLIENT_ID2",
		Description: "Client ID of the service principal allowed to read the Key Vault secret.",
		Required:    true,
	}
}

func (EnvironmentVariable) ClientSecret2() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "CLIENT_SECRET2",
		Description: "Client secret of the service principal allowed to read the Key Vault secret.",
		Hidden:      true,
		Required:    true,
	}
}

func (EnvironmentVariable) KeyVaultName() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "KEY_VAULT_NAME",
		Description: "Name of the Key Vault holding the secret of the signing service principal.",
		Required:    true,
	}
}

func (EnvironmentVariable) SecretName() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_SECRET_NAME",
		DefaultValue: "CLIENTSECRET1",
		Description:  "Name of the Key Vault secret used as the client secret of the signing service principal.",
	}
}

func (EnvironmentVariable) AccountName() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_ACCOUNT_NAME",
		DefaultValue: "okdatalakestoragegen2",
		Description:  "Storage account receiving the ingested files.",
	}
}

func (EnvironmentVariable) ContainerName() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_CONTAINER_NAME",
		DefaultValue: "ok-container-part2",
		Description:  "Container receiving the ingested files. The SAS token is scoped to it.",
	}
}

func (EnvironmentVariable) SasValidity() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_SAS_VALIDITY",
		DefaultValue: "1h",
		Description:  "Lifetime of the user delegation key and of the container SAS token, as a Go duration. Must cover the whole batch.",
	}
}

func (EnvironmentVariable) SasPermissions() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_SAS_PERMISSIONS",
		DefaultValue: "rwl",
		Description:  "Container SAS permissions, using the service letters (r, a, c, w, d, l, ...).",
	}
}

func (EnvironmentVariable) HTTPTimeout() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_HTTP_TIMEOUT",
		DefaultValue: "10m",
		Description:  "Timeout applied to every outbound HTTP request, including reading the response body.",
	}
}

func (EnvironmentVariable) Parallelism() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_PARALLELISM",
		DefaultValue: "1",
		Description:  "How many files are transferred at the same time. 1 keeps the batch strictly sequential.",
	}
}

func (EnvironmentVariable) LogLevel() EnvironmentVariable {
	return EnvironmentVariable{
		Name:         "DATALAKE_LOG_LEVEL",
		DefaultValue: "info",
		Description:  "Minimum level written to the log: none, error, warning, info or debug.",
	}
}

func (EnvironmentVariable) MetricsFile() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "DATALAKE_METRICS_FILE",
		Description: "If set, Prometheus metrics for the run are written to this file in text exposition format.",
	}
}

func (EnvironmentVariable) OtlpEndpoint() EnvironmentVariable {
	return EnvironmentVariable{
		Name:        "OTEL_EXPORTER_OTLP_ENDPOINT",
		Description: "If set, traces of the run are exported over OTLP/HTTP to this endpoint.",
	}
}

func GetEnvironmentVariable(env EnvironmentVariable) string {
	value := strings.TrimSpace(os.Getenv(env.Name))
	if value == "" {
		return env.DefaultValue
	}
	return value
}

// MissingEnvironmentVariables lists the required variables that currently have no value.
func MissingEnvironmentVariables(envs ...EnvironmentVariable) []string {
	missing := make([]string, 0)
	for _, env := range envs {
		if env.Required && GetEnvironmentVariable(env) == "" {
			missing = append(missing, env.Name)
		}
	}
	return missing
}

// LoadEnvironmentFiles reads .env and then .env.local from the working directory, if present.
// Variables already set in the process environment win over .env; .env.local overrides both.
func LoadEnvironmentFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	return nil
}
