// Command carvedump validates carve containers and prints their structure.
//
// Usage:
//
//	carvedump [flags] file...
//
// Each file is read through a memory mapping (or a seekable stream with
// -stream) and parsed as the selected kind. Files are checked concurrently.
// The exit status is 1 if any file is structurally invalid.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/carve/format"
	"github.com/arloliu/carve/internal/collision"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("carvedump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	kindFlag := fs.String("kind", string(KindIndexed), "container kind: header, indexed or table")
	widthFlag := fs.String("width", "32", "address width: 8, 16, 32, 64 or native")
	orderFlag := fs.String("order", "little", "byte order: little, big or native")
	stream := fs.Bool("stream", false, "read through a seekable stream instead of mmap")
	entries := fs.Bool("entries", false, "list records or fields")
	asJSON := fs.Bool("json", false, "print reports as JSON")
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "files checked in parallel")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := parseConfig(*kindFlag, *widthFlag, *orderFlag)
	if err != nil {
		logger.Error("carvedump: bad flags", slog.Any("err", err))
		return 2
	}
	cfg.stream = *stream
	cfg.entries = *entries

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "usage: carvedump [flags] file...")
		fs.PrintDefaults()
		return 2
	}

	reports, err := inspectAll(context.Background(), logger, files, cfg, *jobs)
	if err != nil {
		logger.Error("carvedump: failed", slog.Any("err", err))
		return 1
	}

	if err := printReports(stdout, reports, *asJSON); err != nil {
		logger.Error("carvedump: output failed", slog.Any("err", err))
		return 1
	}

	for _, rep := range reports {
		if rep.Error != "" {
			return 1
		}
	}

	return 0
}

func parseConfig(kind, width, order string) (config, error) {
	var cfg config
	var err error
	if cfg.kind, err = parseKind(kind); err != nil {
		return cfg, err
	}
	if cfg.width, err = format.ParseAddressWidth(width); err != nil {
		return cfg, err
	}
	if cfg.order, err = format.ParseByteOrder(order); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func inspectAll(ctx context.Context, logger *slog.Logger, files []string, cfg config, jobs int) ([]*Report, error) {
	reports := make([]*Report, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			logger.LogAttrs(ctx, slog.LevelDebug, "carvedump: inspecting", slog.String("file", path), slog.String("kind", string(cfg.kind)))
			rep, err := inspectFile(path, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if rep.Error != "" {
				logger.LogAttrs(ctx, slog.LevelWarn, "carvedump: invalid container", slog.String("file", path), slog.String("err", rep.Error))
			}
			reports[i] = rep

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tracker := collision.NewTracker()
	for _, rep := range reports {
		if rep.Digest == "" {
			continue
		}
		dup, err := tracker.Track(rep.File, rep.sum, rep.Size)
		if err != nil {
			return nil, err
		}
		rep.Duplicate = dup
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "carvedump: digests tracked", slog.Int("files", tracker.Count()))
	if tracker.HasCollision() {
		logger.Warn("carvedump: digest collision between files of different sizes")
	}

	return reports, nil
}

func printReports(w io.Writer, reports []*Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(reports)
	}

	for _, rep := range reports {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s: %s %s/%s size=%d digest=%s", rep.File, rep.Kind, rep.Width, rep.Order, rep.Size, rep.Digest)
		if rep.Error != "" {
			fmt.Fprintf(&sb, " INVALID: %s\n", rep.Error)
			if _, err := io.WriteString(w, sb.String()); err != nil {
				return err
			}

			continue
		}

		fmt.Fprintf(&sb, " header=%d body=%d", rep.HeaderSize, rep.BodySize)
		if rep.Duplicate != "" {
			fmt.Fprintf(&sb, " duplicate_of=%s", rep.Duplicate)
		}
		switch rep.Kind {
		case KindIndexed:
			fmt.Fprintf(&sb, " records=%d", rep.Records)
		case KindTable:
			fmt.Fprintf(&sb, " rows=%d columns=%d row_size=%d", rep.Rows, rep.Columns, rep.RowSize)
		}
		sb.WriteByte('\n')
		for _, e := range rep.Entries {
			fmt.Fprintf(&sb, "  %4d  [%d, %d)\n", e.Index, e.Start, e.Start+e.Length)
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}

	return nil
}
