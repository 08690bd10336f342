package main

import (
	"log"
	"os"

	"github.com/dtnitsch/walrus-sweeper/internal/plancmd"
	"github.com/dtnitsch/walrus-sweeper/internal/report"
	"github.com/dtnitsch/walrus-sweeper/internal/scan"
	"github.com/urfave/cli/v2"
)

// defaultBlobType is the on-chain struct that owned-object
// enumeration filters on.
const defaultBlobType = "0x795d:blob::Blob"

func main() {
	app := &cli.App{
		Name:  "walrus-sweeper",
		Usage: "classify owned storage blobs and plan safe cleanup",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the scan cache database",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "enumerate, classify, and persist an owner's blobs",
				Action: scan.ScanAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML config file; flags override it",
					},
					&cli.StringFlag{
						Name:  "owner",
						Usage: "owner address whose blobs are scanned",
					},
					&cli.StringFlag{
						Name:  "rpc-url",
						Usage: "fullnode RPC endpoint for blob enumeration",
					},
					&cli.StringFlag{
						Name:  "aggregator-url",
						Usage: "aggregator endpoint for blob content; omit to classify from metadata only",
					},
					&cli.StringFlag{
						Name:  "blob-type",
						Usage: "struct type of owned blob objects",
						Value: defaultBlobType,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "number of concurrent classification workers",
					},
					&cli.Uint64Flag{
						Name:  "epoch",
						Usage: "pin the current network epoch instead of deriving it from wall time",
					},
					&cli.BoolFlag{
						Name:  "fetch-content",
						Usage: "fetch blob content even when the declared type suffices",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "reuse classifications from the latest finished scan for blobs already seen",
					},
					&cli.StringSliceFlag{
						Name:  "domain-link",
						Usage: "blobID=domain pair marking a blob as the target of a live domain (repeatable)",
					},
				},
			},
			{
				Name:   "plan",
				Usage:  "build a deletion plan from a persisted scan",
				Action: plancmd.PlanAction,
				Flags: append(scanSelectionFlags(),
					&cli.StringFlag{
						Name:  "include",
						Usage: "comma-separated categories to include",
					},
					&cli.StringFlag{
						Name:  "exclude",
						Usage: "comma-separated categories to exclude",
					},
					&cli.StringFlag{
						Name:  "max-importance",
						Usage: "highest importance level the plan may touch",
					},
					&cli.StringFlag{
						Name:  "min-size",
						Usage: "only plan blobs at least this large (e.g. 10MiB)",
					},
					&cli.StringFlag{
						Name:  "max-size",
						Usage: "only plan blobs at most this large",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "output format: json or yaml",
						Value: "json",
					},
				),
			},
			{
				Name:   "report",
				Usage:  "summarize a persisted scan and recommend cleanup",
				Action: report.ReportAction,
				Flags: append(scanSelectionFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "output format: json, yaml, or csv",
						Value: "json",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// scanSelectionFlags picks which persisted scan a read-only command
// operates on.
func scanSelectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "scan-id",
			Usage: "scan to load; defaults to the latest finished scan",
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "restrict the default latest-scan lookup to this owner",
		},
	}
}
