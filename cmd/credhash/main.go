// Command credhash creates, verifies and inspects PBKDF2 credential records.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"library/config"
	domainerrors "library/internal/domain/errors"
	"library/internal/errors"
	"library/internal/infra/auth"
	logs "library/internal/infra/log"
)

// Supported subcommands:
// - hash:       read one password, print its record
// - hash-batch: read one password per stdin line, print one record per line
// - verify:     read a password and check it against a record
// - inspect:    print the parameters embedded in a record

const (
	exitOK        = 0
	exitMismatch  = 1
	exitMalformed = 2
	exitFailure   = 3
	exitUsage     = 64
)

type options struct {
	iterations int
	saltLength int
	keyLength  int
	workers    int
	verbose    bool
}

type app struct {
	pool      *auth.DerivationPool
	passwords *passwordReader
	stdout    io.Writer
	stderr    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)

		return exitUsage
	}

	command := args[0]
	switch command {
	case "hash", "hash-batch", "verify", "inspect":
	case "-h", "--help", "help":
		printUsage(stdout)

		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)

		return exitUsage
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := registerFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}

	a, err := newApp(opts, stdin, stdout, stderr)
	if err != nil {
		return a.fail(err)
	}

	switch command {
	case "hash":
		return a.hash(ctx)
	case "hash-batch":
		return a.hashBatch(ctx)
	case "verify":
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: credhash verify [flags] <record>")

			return exitUsage
		}

		return a.verify(ctx, fs.Arg(0))
	default:
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: credhash inspect [flags] <record>")

			return exitUsage
		}

		return a.inspect(fs.Arg(0))
	}
}

func registerFlags(fs *flag.FlagSet) *options {
	opts := &options{}
	fs.IntVar(&opts.iterations, "iterations", config.DefaultIterations, "PBKDF2 iterations for new records")
	fs.IntVar(&opts.saltLength, "salt", config.DefaultSaltLength, "Salt length in bytes for new records")
	fs.IntVar(&opts.keyLength, "key", config.DefaultKeyLength, "Derived key length in bytes for new records")
	fs.IntVar(&opts.workers, "workers", 0, "Concurrent derivations (0 = CPU count)")
	fs.BoolVar(&opts.verbose, "v", false, "Log derivation timings to stderr")

	return opts
}

func newApp(opts *options, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	a := &app{
		passwords: newPasswordReader(stdin, stderr),
		stdout:    stdout,
		stderr:    stderr,
	}

	cfg := &config.Config{
		Credential: &config.CredentialConfig{
			Iterations: opts.iterations,
			SaltLength: opts.saltLength,
			KeyLength:  opts.keyLength,
			Workers:    opts.workers,
		},
	}
	cfg.Env.Log.Pretty = true
	cfg.Env.Log.Level = "warn"
	if opts.verbose {
		cfg.Env.Log.Level = "debug"
	}
	cfg.ApplyDefaults()

	logger, err := logs.NewWithWriter(cfg, stderr)
	if err != nil {
		return a, err
	}

	hasher, err := auth.NewPBKDF2HasherFromConfig(cfg)
	if err != nil {
		return a, err
	}
	a.pool = auth.NewDerivationPool(hasher, cfg.Credential.Workers, nil, logger)

	return a, nil
}

func (a *app) hash(ctx context.Context) int {
	password, err := a.passwords.ReadPassword()
	if err != nil {
		return a.fail(err)
	}

	record, err := a.pool.Hash(ctx, password)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, record)

	return exitOK
}

func (a *app) hashBatch(ctx context.Context) int {
	passwords, err := a.passwords.ReadAll()
	if err != nil {
		return a.fail(err)
	}

	records, err := a.pool.HashAll(ctx, passwords)
	if err != nil {
		return a.fail(err)
	}
	for _, record := range records {
		fmt.Fprintln(a.stdout, record)
	}

	return exitOK
}

func (a *app) verify(ctx context.Context, record string) int {
	// Reject a corrupt record before asking for a password.
	if _, err := auth.DescribeRecord(record); err != nil {
		return a.fail(err)
	}

	password, err := a.passwords.ReadPassword()
	if err != nil {
		return a.fail(err)
	}

	match, err := a.pool.Verify(ctx, password, record)
	if err != nil {
		return a.fail(err)
	}
	if !match {
		fmt.Fprintln(a.stdout, "mismatch")

		return exitMismatch
	}
	fmt.Fprintln(a.stdout, "match")

	return exitOK
}

func (a *app) inspect(record string) int {
	info, err := auth.DescribeRecord(record)
	if err != nil {
		return a.fail(err)
	}

	rehash, err := a.pool.NeedsRehash(record)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.stdout, "iterations=%d salt=%d key=%d rehash=%t\n",
		info.Iterations, info.SaltLength, info.KeyLength, rehash)

	return exitOK
}

func (a *app) fail(err error) int {
	info := domainerrors.InfoOf(err)
	fmt.Fprintf(a.stderr, "Error [%s]: %v\n", info.Code, err)

	if errors.Is(err, domainerrors.ErrInvalidCredentialRecord) {
		return exitMalformed
	}

	return exitFailure
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: credhash <command> [flags] [record]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  hash        Read a password and print a new credential record")
	fmt.Fprintln(w, "  hash-batch  Read one password per line and print one record per line")
	fmt.Fprintln(w, "  verify      Read a password and check it against <record> (exit 0 match, 1 mismatch, 2 malformed)")
	fmt.Fprintln(w, "  inspect     Print the parameters stored in <record>")
}
