package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"condense/internal/observability/logging"
	condUC "condense/internal/usecase/condense"
	"condense/internal/utils/text"
)

const usage = `Usage: condense [-mode reduce|chunk] [-budget N] [-chunk N] [-output text|json] [FILE]

Reads FILE, or stdin when FILE is omitted or "-", and either reduces it to a
character budget or splits it into chunks. No model is involved.

Examples:
  condense -budget 300 notes.txt
  cat notes.md | condense -mode chunk -chunk 500 -output json
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("condense", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	var (
		mode         string
		budget       int
		chunkSize    int
		outputFormat string
	)
	defaults := condUC.DefaultConfig()
	fs.StringVar(&mode, "mode", "reduce", "Operation: reduce or chunk")
	fs.IntVar(&budget, "budget", defaults.MaxTextLength, "Maximum output length in characters (reduce)")
	fs.IntVar(&chunkSize, "chunk", defaults.MaxChunkSize, "Maximum chunk length in characters (chunk)")
	fs.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if mode != "reduce" && mode != "chunk" {
		fmt.Fprintf(stderr, "Error: Invalid mode '%s' (must be 'reduce' or 'chunk')\n\n", mode)
		fs.Usage()
		return 2
	}
	if outputFormat != "text" && outputFormat != "json" {
		fmt.Fprintf(stderr, "Error: Invalid output '%s' (must be 'text' or 'json')\n\n", outputFormat)
		fs.Usage()
		return 2
	}

	input, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// stdout carries the result, so logs go to stderr
	logger := logging.New(stderr, logging.Options{
		Level:  logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: logging.FormatText,
	})
	slog.SetDefault(logger)

	svc, err := condUC.NewService(nil, defaults)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	switch mode {
	case "chunk":
		res, err := svc.Chunk(ctx, input, chunkSize)
		if err != nil {
			fmt.Fprintf(stderr, "Error: Chunking failed: %v\n", err)
			return 1
		}
		if outputFormat == "json" {
			return writeJSON(stdout, stderr, res)
		}
		outputChunks(stdout, res)
	default:
		res, err := svc.Reduce(ctx, input, budget)
		if err != nil {
			fmt.Fprintf(stderr, "Error: Reduction failed: %v\n", err)
			return 1
		}
		if outputFormat == "json" {
			return writeJSON(stdout, stderr, res)
		}
		fmt.Fprintln(stdout, res.Text)
	}
	return 0
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	// #nosec G304 -- the user names the file to read
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func outputChunks(w io.Writer, res *condUC.ChunkResult) {
	for i, chunk := range res.Chunks {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "--- chunk %d/%d (%d chars) ---\n", i+1, res.Count, text.CountRunes(chunk))
		fmt.Fprintln(w, chunk)
	}
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "Error: Failed to encode JSON: %v\n", err)
		return 1
	}
	return 0
}
