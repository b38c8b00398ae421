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

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Olaffson/data-lake-2/common"
)

var outputFormatRaw string
var outputFormat common.OutputFormat

var rootCmd = &cobra.Command{
	Version: common.Version, // will enable the user to see the version info in the standard posix way: --version
	Use:     "datalake",
	Short:   rootCmdShortDescription,
	Long:    rootCmdLongDescription,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := outputFormat.Parse(outputFormatRaw); err != nil {
			return fmt.Errorf("invalid --output-type %q: %w", outputFormatRaw, err)
		}

		// process environment wins over .env; .env.local wins over both
		return common.LoadEnvironmentFiles()
	},
	SilenceErrors: true,
}

// Execute runs the command line and returns the process exit code.
func Execute() common.ExitCode {
	if err := rootCmd.Execute(); err != nil {
		msg := common.NewIngestLogSanitizer().SanitizeLogMessage(err.Error())
		_, _ = fmt.Fprintln(os.Stderr, "error: "+msg)
		return common.EExitCode.Error()
	}
	return common.EExitCode.Success()
}

func init() {
	// replace the word "global" to avoid confusion
	rootCmd.SetUsageTemplate(strings.Replace((&cobra.Command{}).UsageTemplate(), "Global Flags", "Flags Applying to All Commands", -1))

	rootCmd.PersistentFlags().StringVar(&outputFormatRaw, "output-type", "text", "Format of the command's output and log. The choices include: text, json. The default value is 'text'.")
}
