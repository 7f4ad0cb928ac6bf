// Package main implements dash, a machine code listing tool built on an
// editable assembly listing store.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/redteamcaliber/dash/internal/arch"
	"github.com/redteamcaliber/dash/internal/cli"
	"github.com/redteamcaliber/dash/internal/config"
	"github.com/redteamcaliber/dash/internal/engine"
	"github.com/redteamcaliber/dash/internal/engine/xarch"
	"github.com/redteamcaliber/dash/internal/listing"
	"github.com/redteamcaliber/dash/internal/store"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)

	if err := run(logger, opts); err != nil {
		logger.Error("Building listing failed", log.Err(err))
		os.Exit(1)
	}
}

// printBanner prints application version information
func printBanner(logger *log.Logger, opts cli.Options) {
	if opts.Quiet {
		return
	}
	logger.Info("dash", log.String("version", buildinfo.Version(version, commit, date)))
}

func run(logger *log.Logger, opts cli.Options) error {
	code, err := readCode(opts)
	if err != nil {
		return err
	}

	st, err := buildListing(logger, opts, code)
	if err != nil {
		return err
	}

	var output io.WriteCloser = os.Stdout
	if opts.Output != "" {
		output, err = os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file '%s': %w", opts.Output, err)
		}
		defer func() {
			_ = output.Close()
		}()
	}

	writer := listing.New(st, output, listing.Options{OffsetComments: true})
	if err := writer.Write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// readCode returns the machine code bytes to build the listing from,
// either from the input file or the positional hex string.
func readCode(opts cli.Options) ([]byte, error) {
	if opts.Input != "" {
		code, err := os.ReadFile(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("reading input file '%s': %w", opts.Input, err)
		}
		return code, nil
	}

	code, err := hex.DecodeString(strings.ReplaceAll(opts.Bytes, " ", ""))
	if err != nil {
		return nil, fmt.Errorf("decoding hex bytes: %w", err)
	}
	return code, nil
}

// buildListing decodes the byte stream sequentially into store rows. Bytes
// that do not decode to a valid instruction become single byte data
// definition rows.
func buildListing(logger *log.Logger, opts cli.Options, code []byte) (*store.Store, error) {
	profile, err := arch.Parse(opts.Architecture)
	if err != nil {
		return nil, fmt.Errorf("parsing architecture: %w", err)
	}

	decoder, err := xarch.New(profile, opts.WordSize)
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	st := store.New(logger)
	if err := st.SetArchitecture(profile); err != nil {
		return nil, err
	}
	st.SetWordSize(opts.WordSize)
	st.SetBaseAddress(opts.BaseAddress)

	address := opts.BaseAddress
	index := 0
	for len(code) > 0 {
		size, err := insertNext(st, decoder, index, address, code)
		if err != nil {
			return nil, err
		}
		code = code[size:]
		address += uint64(size)
		index++
	}

	logger.Debug("Listing built",
		log.Int("rows", index),
		log.String("profile", string(profile)))

	return st, nil
}

func insertNext(st *store.Store, decoder engine.Decoder, index int,
	address uint64, code []byte) (int, error) {

	inst, err := decoder.Decode(code, address)
	if err != nil {
		row := store.NewRow(index)
		row.Address = address
		row.SetMnemonic(fmt.Sprintf("db 0x%02x", code[0]))
		row.Opcode = slices.Clone(code[:1])
		if err := st.InsertRowAt(index, row); err != nil {
			return 0, fmt.Errorf("inserting data row: %w", err)
		}
		return 1, nil
	}

	if err := st.InsertDecoded(index, inst); err != nil {
		return 0, fmt.Errorf("inserting decoded row: %w", err)
	}
	return len(inst.Bytes), nil
}
