// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/redteamcaliber/dash/internal/arch"
	"github.com/redteamcaliber/dash/internal/config"
)

// Options contains the program options.
type Options struct {
	Input  string // file with raw machine code bytes
	Output string // output listing file, stdout if empty
	Bytes  string // positional hex byte string, alternative to Input

	Architecture string
	WordSize     int
	BaseAddress  uint64

	Debug bool
	Quiet bool
}

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (Options, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts Options
	var base string
	readOptionFlags(flags, &opts, &base)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts, base); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Bytes = strings.Join(args, " ")
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: dash [options] <hex bytes to disassemble>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after the hex bytes, please pass the bytes as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *Options, base string) error {
	opts.Architecture = strings.ToLower(opts.Architecture)
	if _, err := arch.Parse(opts.Architecture); err != nil {
		return fmt.Errorf("unsupported architecture: %s. Valid options: %s, %s, %s, %s, %s",
			opts.Architecture, arch.X86, arch.X64, arch.ARM, arch.ARM64, arch.MIPS)
	}

	if !arch.ValidWordSize(opts.WordSize) {
		return fmt.Errorf("unsupported word size: %d. Valid options: 16, 32, 64", opts.WordSize)
	}

	address, err := parseAddress(base)
	if err != nil {
		return fmt.Errorf("invalid base address %q", base)
	}
	opts.BaseAddress = address

	return nil
}

func parseAddress(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}

func readOptionFlags(flags *flag.FlagSet, opts *Options, base *string) {
	session := config.DefaultSession()

	flags.StringVar(&opts.Input, "i", "", "name of an input file with raw machine code bytes")
	flags.StringVar(&opts.Output, "o", "", "name of the output listing file, printed on console if no name given")
	flags.StringVar(&opts.Architecture, "a", string(session.Architecture), "architecture profile (x86/x64/arm/arm64/mips)")
	flags.IntVar(&opts.WordSize, "b", session.WordSize, "operating width in bits (16/32/64)")
	flags.StringVar(base, "base", fmt.Sprintf("0x%x", session.BaseAddress), "base address of the listing, decimal or 0x hex")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
