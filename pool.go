package echolab

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/alitto/pond"
)

// ConvertOptions configures a single file's conversion to TileDB, the
// per-file unit of work ConvertList fans out over a worker pool.
type ConvertOptions struct {
	ConfigURI    string
	OutdirURI    string
	MetadataOnly bool

	OpenRaw func(rawURI string) (DatagramReader, error)
	NMEA    func() NMEABuffer

	EngineConfig EngineConfig
}

// ConvertFile ingests one raw file plus its BOT/DEP sidecars (if
// OpenRaw resolves them) and writes the resulting channel stores to
// outdirURI/<basename>.tiledb, one group member per channel, mirroring
// the teacher's convert_gsf single-file conversion.
func ConvertFile(rawURI string, opts ConvertOptions) error {
	dir, file := filepath.Split(rawURI)
	outdir := opts.OutdirURI
	if outdir == "" {
		outdir = dir
	}

	log.Println("processing raw file:", rawURI)

	reader, err := opts.OpenRaw(rawURI)
	if err != nil {
		return err
	}

	var nmea NMEABuffer
	if opts.NMEA != nil {
		nmea = opts.NMEA()
	}

	engine := NewEngine(opts.EngineConfig)
	if err := engine.IngestFile(file, dir, reader, nmea); err != nil {
		return err
	}
	engine.FinalizeAll()

	if engine.HasStartTime && engine.HasEndTime {
		start, err := FormatMillis(engine.StartTime, opts.EngineConfig.TimeFormatString)
		if err != nil {
			return err
		}
		end, err := FormatMillis(engine.EndTime, opts.EngineConfig.TimeFormatString)
		if err != nil {
			return err
		}
		log.Printf("recording time extent: %s to %s", start, end)
	}

	summary := NewRecordingSummary(engine)

	log.Println("writing metadata")
	metaURI := filepath.Join(outdir, file+"-metadata.json")
	if _, err := WriteJSON(metaURI, opts.ConfigURI, summary); err != nil {
		return err
	}

	if opts.MetadataOnly {
		log.Println("finished raw file (metadata only):", rawURI)
		return nil
	}

	var config *tiledb.Config
	if opts.ConfigURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(opts.ConfigURI)
	}
	if err != nil {
		return err
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return err
	}
	defer ctx.Free()

	groupURI := filepath.Join(outdir, file+".tiledb")
	grp, err := tiledb.NewGroup(ctx, groupURI)
	if err != nil {
		return err
	}
	defer grp.Free()

	if err := grp.Create(); err != nil {
		return err
	}
	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return err
	}
	defer grp.Close()

	for _, channelID := range engine.ChannelOrder {
		store := engine.Stores[channelID]
		memberName := sanitizeChannelName(channelID) + ".tiledb"
		memberURI := filepath.Join(groupURI, memberName)
		if err := store.ToTileDB(memberURI, ctx); err != nil {
			return err
		}
		if err := grp.AddMember(memberName, channelID, true); err != nil {
			return err
		}
	}

	log.Println("finished raw file:", rawURI)
	return nil
}

// ConvertList submits every file under uri (discovered via FindRaw) to a
// fixed-size worker pool, grounded directly on the teacher's
// convert_gsf_list: 2*NumCPU workers, cancelled on SIGINT via
// signal.NotifyContext, each submission converting one file independently.
// Per-file failures are logged and do not stop the remaining submissions,
// matching the teacher's own "log and move on" TODO-flagged behavior.
func ConvertList(uri string, opts ConvertOptions) error {
	items, err := FindRaw(uri, opts.ConfigURI)
	if err != nil {
		return err
	}
	log.Println("number of raw files to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		rawURI := name
		pool.Submit(func() {
			if err := ConvertFile(rawURI, opts); err != nil {
				log.Println("error converting", rawURI, ":", err)
			}
		})
	}

	return nil
}

func sanitizeChannelName(channelID string) string {
	out := make([]rune, 0, len(channelID))
	for _, r := range channelID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
