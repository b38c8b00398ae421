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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvironmentVariable(t *testing.T) {
	a := assert.New(t)

	t.Setenv(EEnvironmentVariable.ContainerName().Name, "")
	a.Equal("ok-container-part2", GetEnvironmentVariable(EEnvironmentVariable.ContainerName()))

	t.Setenv(EEnvironmentVariable.ContainerName().Name, "  other  ")
	a.Equal("other", GetEnvironmentVariable(EEnvironmentVariable.ContainerName()))
}

func TestMissingEnvironmentVariables(t *testing.T) {
	a := assert.New(t)

	t.Setenv("TENANT_ID1", "")
	t.Setenv("CLIENT_ID1", "c1")
	t.Setenv("DATALAKE_SECRET_NAME", "")

	missing := MissingEnvironmentVariables(
		EEnvironmentVariable.TenantID1(),
		EEnvironmentVariable.ClientID1(),
		EEnvironmentVariable.SecretName(), // optional, has a default
	)
	a.Equal([]string{"TENANT_ID1"}, missing)
}

func TestLoadEnvironmentFiles(t *testing.T) {
	a := assert.New(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KEY_VAULT_NAME=from-dotenv\nDATALAKE_SECRET_NAME=from-dotenv\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DATALAKE_SECRET_NAME=from-local\n"), 0o600))
	t.Chdir(dir)

	t.Setenv("KEY_VAULT_NAME", "from-process")
	t.Setenv("DATALAKE_SECRET_NAME", "")
	require.NoError(t, os.Unsetenv("DATALAKE_SECRET_NAME"))

	require.NoError(t, LoadEnvironmentFiles())
	a.Equal("from-process", os.Getenv("KEY_VAULT_NAME")) // process environment wins over .env
	a.Equal("from-local", os.Getenv("DATALAKE_SECRET_NAME"))
}
