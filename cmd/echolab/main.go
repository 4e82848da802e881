package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	echolab "github.com/rekahn/pyEcholab"
)

// readFilterFlags is the §6 read-filter surface shared by both commands,
// grounded on the teacher's cmd/main.go flag handling and generalized to
// the engine-configuration fields this format adds (time/ping/sample
// bounds, frequency/channel selection).
var readFilterFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config-uri",
		Usage: "URI or pathname to a TileDB config file.",
	},
	&cli.StringFlag{
		Name:  "outdir-uri",
		Usage: "URI or pathname to an output directory.",
	},
	&cli.BoolFlag{
		Name:  "metadata-only",
		Usage: "Only decode and export the recording summary.",
	},
	&cli.BoolFlag{
		Name:  "store-angles",
		Usage: "Also decode and store split-beam electrical angle samples.",
	},
	&cli.StringFlag{
		Name:  "start-time",
		Usage: "Inclusive start time bound, parsed with --time-format.",
	},
	&cli.StringFlag{
		Name:  "end-time",
		Usage: "Inclusive end time bound, parsed with --time-format.",
	},
	&cli.StringFlag{
		Name:  "time-format",
		Usage: "strftime-style layout for --start-time/--end-time.",
		Value: echolab.DefaultTimeFormat,
	},
	&cli.IntFlag{
		Name:  "start-ping",
		Usage: "Inclusive start ping bound.",
	},
	&cli.IntFlag{
		Name:  "end-ping",
		Usage: "Inclusive end ping bound.",
	},
	&cli.IntFlag{
		Name:  "start-sample",
		Usage: "Inclusive start sample bound.",
	},
	&cli.IntFlag{
		Name:  "end-sample",
		Usage: "Inclusive end sample bound.",
	},
	&cli.IntFlag{
		Name:  "max-sample-count",
		Usage: "Maximum number of samples retained per ping.",
	},
	&cli.Float64SliceFlag{
		Name:  "frequency",
		Usage: "Restrict ingestion to one or more channel frequencies (Hz). Repeatable.",
	},
	&cli.StringSliceFlag{
		Name:  "channel-id",
		Usage: "Restrict ingestion to one or more channel ids. Repeatable.",
	},
}

// optionsFromFlags assembles ConvertOptions from the CLI context shared by
// both the "convert" and "convert-trawl" commands, grounded on the
// teacher's cmd/main.go convert_gsf/convert_gsf_list flag handling.
// start-time/end-time are parsed through echolab.ParseTimeInput against
// --time-format, per §6's "time inputs" surface.
func optionsFromFlags(cCtx *cli.Context) (echolab.ConvertOptions, error) {
	timeFormat := cCtx.String("time-format")

	cfg := echolab.EngineConfig{
		StorePower:       true,
		StoreAngles:      cCtx.Bool("store-angles"),
		Rolling:          false,
		ChunkWidth:       1000,
		Frequencies:      cCtx.Float64Slice("frequency"),
		ChannelIDs:       cCtx.StringSlice("channel-id"),
		MaxSampleCount:   cCtx.Int("max-sample-count"),
		TimeFormatString: timeFormat,
	}

	if v := cCtx.String("start-time"); v != "" {
		ms, err := echolab.ParseTimeInput(v, timeFormat)
		if err != nil {
			return echolab.ConvertOptions{}, err
		}
		cfg.HasStartTime = true
		cfg.StartTime = ms
	}
	if v := cCtx.String("end-time"); v != "" {
		ms, err := echolab.ParseTimeInput(v, timeFormat)
		if err != nil {
			return echolab.ConvertOptions{}, err
		}
		cfg.HasEndTime = true
		cfg.EndTime = ms
	}
	if cCtx.IsSet("start-ping") {
		cfg.HasStartPing = true
		cfg.StartPing = cCtx.Int("start-ping")
	}
	if cCtx.IsSet("end-ping") {
		cfg.HasEndPing = true
		cfg.EndPing = cCtx.Int("end-ping")
	}
	if cCtx.IsSet("start-sample") {
		cfg.HasStartSample = true
		cfg.StartSample = cCtx.Int("start-sample")
	}
	if cCtx.IsSet("end-sample") {
		cfg.HasEndSample = true
		cfg.EndSample = cCtx.Int("end-sample")
	}

	return echolab.ConvertOptions{
		ConfigURI:    cCtx.String("config-uri"),
		OutdirURI:    cCtx.String("outdir-uri"),
		MetadataOnly: cCtx.Bool("metadata-only"),
		OpenRaw:      echolab.OpenRawFile,
		EngineConfig: cfg,
	}, nil
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "Convert a single raw EK60/ES60/ES70/ME70 file to TileDB.",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "raw-uri",
						Usage: "URI or pathname to a raw file.",
					},
				}, readFilterFlags...),
				Action: func(cCtx *cli.Context) error {
					opts, err := optionsFromFlags(cCtx)
					if err != nil {
						return err
					}
					return echolab.ConvertFile(cCtx.String("raw-uri"), opts)
				},
			},
			{
				Name:  "convert-trawl",
				Usage: "Recursively convert every raw file under a directory or object-store prefix.",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing raw files.",
					},
				}, readFilterFlags...),
				Action: func(cCtx *cli.Context) error {
					opts, err := optionsFromFlags(cCtx)
					if err != nil {
						return err
					}
					return echolab.ConvertList(cCtx.String("uri"), opts)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
