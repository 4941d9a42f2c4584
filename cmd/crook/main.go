// Command crook is a single-file lossless compressor and decompressor
// built on a binary PPM context model and a carry-aware range coder
// (internal/ppm, internal/rc, internal/frame). Argument parsing, file
// I/O, and progress reporting are the "external collaborators" spec.md
// deliberately leaves unspecified in its core.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/valdmann/crook/internal/config"
	"github.com/valdmann/crook/internal/frame"
	"github.com/valdmann/crook/internal/progress"
)

const version = "crook 1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("crook", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <c|d> [options] INPUT OUTPUT\n", "crook")
		fs.PrintDefaults()
	}

	help := fs.BoolP("help", "h", false, "show this help message")
	showVersion := fs.BoolP("version", "V", false, "show version")
	memoryMiB := fs.IntP("memory", "m", config.DefaultMemoryMiB, "memory limit, in MiB")
	orderBytes := fs.IntP("order", "O", config.DefaultOrderBytes, "order limit, in bytes")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *help {
		fs.Usage()
		return 0
	}
	if *showVersion {
		fmt.Println(version)
		return 0
	}

	rest := fs.Args()
	if len(rest) != 3 {
		fs.Usage()
		return 1
	}
	mode, inPath, outPath := rest[0], rest[1], rest[2]
	if mode != "c" && mode != "d" {
		fmt.Fprintf(os.Stderr, "crook: mode must be 'c' or 'd', got %q\n", mode)
		return 1
	}

	cfg := config.Config{MemoryMiB: *memoryMiB, OrderBytes: *orderBytes}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "crook: invalid configuration"))
		return 1
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	reporter := progress.New(logger.Sugar(), 0)

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "crook: open input"))
		return 1
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "crook: open output"))
		return 1
	}
	defer out.Close()

	if mode == "c" {
		err = compress(in, out, cfg, reporter)
	} else {
		err = decompress(in, out, cfg, reporter)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func compress(in *os.File, out io.Writer, cfg config.Config, reporter *progress.Reporter) error {
	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "crook: stat input")
	}
	length := info.Size()
	if length < 0 || length > int64(^uint32(0)) {
		return errors.Errorf("crook: input length %d out of range", length)
	}

	w, err := frame.NewWriter(out, cfg, uint32(length))
	if err != nil {
		return errors.Wrap(err, "crook: start compression")
	}

	buf := make([]byte, 1<<16)
	var done uint64
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return errors.Wrap(werr, "crook: compress")
			}
			done += uint64(n)
			reporter.Update(done, uint64(length), w.UsedMemory())
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errors.Wrap(rerr, "crook: read input")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "crook: finish compression")
	}
	reporter.Done(uint64(length))
	return nil
}

func decompress(in io.Reader, out io.Writer, cfg config.Config, reporter *progress.Reporter) error {
	r, err := frame.NewReader(in, cfg)
	if err != nil {
		return errors.Wrap(err, "crook: start decompression")
	}

	total := uint64(r.Len())
	buf := make([]byte, 1<<16)
	var done uint64
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return errors.Wrap(werr, "crook: write output")
			}
			done += uint64(n)
			reporter.Update(done, total, r.UsedMemory())
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errors.Wrap(rerr, "crook: decompress")
		}
	}
	reporter.Done(total)
	return nil
}
