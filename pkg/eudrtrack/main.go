package eudrtrack

import (
	"context"
	"io"
)

// Main runs the eudrtrack command line with args, writing results to out.
// Tests call it directly instead of building the binary.
//
// # Configuration
//
// Every setting can come from a flag, an EUDR_ environment variable or a
// config file passed with --config, in that order of precedence:
//
//	EUDR_STORAGE_DRIVER    memory, file, sqlite, postgres or redis (default: file)
//	EUDR_STORAGE_PATH      directory of the file driver, database of sqlite
//	EUDR_REMOTE_URL        base URL of the CMS; calls go to <url>/rpc
//	EUDR_REMOTE_TRANSPORT  http or ws (default: http)
//	EUDR_REMOTE_CODEC      json or cbor (default: json)
//	EUDR_OFFLINE           initial mode before one is stored (default: true)
//
// # Usage
//
//	eudrtrack list origins --filter deforestation_risk=high
//	eudrtrack mode online
//	eudrtrack login --token "$CMS_TOKEN"
//	eudrtrack submit dds-ipe-0002
func Main(ctx context.Context, args []string, out io.Writer) error {
	root := newRootCommand(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
