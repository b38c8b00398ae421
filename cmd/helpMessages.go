package cmd

import "github.com/Olaffson/data-lake-2/common"

// ===================================== ROOT COMMAND ===================================== //
const rootCmdShortDescription = "datalake copies public datasets into an Azure Storage container through a chain of service principals."

const rootCmdLongDescription = "datalake " + common.Version +
	`
  A first service principal reads the client secret of a second one from Key Vault. The second one
  obtains a user delegation key and signs a container SAS token, which every upload of the run uses.
  No storage account key is ever involved.

  Configuration is read from the environment, then from .env and .env.local in the working directory.
  Run 'datalake env' to see every variable.
`

// ===================================== INGEST COMMAND ===================================== //
const ingestCmdShortDescription = "Copies one or more remote files into the data lake container"

const ingestCmdLongDescription = `
Copies remote files into the configured container. With --source=static a single URL is copied (by default
one parquet shard of the Marqo amazon products dataset). With --source=discovery a web page is scanned and
every link containing the keyword is copied (by default the Inside Airbnb files for Spain).

Each file is downloaded in full and written as a block blob with a single request. A file that fails does
not stop the others; the summary lists the outcome of each one. The command fails only when it cannot get
as far as transferring: missing configuration, rejected credentials, an unreadable secret or no SAS token.
` + environmentVariableNotice

const ingestCmdExample = `Copy the default parquet shard:
` + exampleSnippetStart + `
  - datalake ingest
` + exampleSnippetEnd + `

Copy one file under a chosen name:
` + exampleSnippetStart + `
  - datalake ingest --url "https://example.com/data/file.csv" --destination "raw/file.csv"
` + exampleSnippetEnd + `

Copy every file linked from a page that mentions "spain", four at a time:
` + exampleSnippetStart + `
  - datalake ingest --source=discovery --keyword spain --parallelism 4
` + exampleSnippetEnd + `

Check credentials and list the files without copying anything:
` + exampleSnippetStart + `
  - datalake ingest --source=discovery --dry-run
` + exampleSnippetEnd

// ===================================== ENV COMMAND ===================================== //
const envCmdShortDescription = "Shows the environment variables that configure datalake"

const envCmdLongDescription = `` + environmentVariableNotice

const environmentVariableNotice = `> [!IMPORTANT]
> If you set an environment variable by using the command line, that variable will be readable in your command line history. Consider keeping secrets in .env.local, which is never printed, and clearing variables that contain credentials from your command line history.
`
const exampleSnippetStart = "```bash"
const exampleSnippetEnd = "```"
