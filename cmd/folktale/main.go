// Command folktale compresses files with LZW followed by Huffman coding,
// reports compression metrics, and serves the compression API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/api"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/config"
	"github.com/gin-gonic/gin"
)

var logger = log.New(os.Stderr, "[folktale] ", log.LstdFlags)

const usage = `usage: folktale <command> [flags]

commands:
  compress   -in FILE -out FILE [-algorithm A] [-max-width W]
  decompress -in FILE -out FILE [-algorithm A]
  report     -in FILE [-dir DIR] [-max-width W]
  serve
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg := config.Load()
	var err error
	switch os.Args[1] {
	case "compress", "decompress":
		err = runCodec(cfg, os.Args[1], os.Args[2:])
	case "report":
		err = runReport(cfg, os.Args[2:])
	case "serve":
		err = runServe(cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("%s: %v", os.Args[1], err)
	}
}

func runCodec(cfg *config.Config, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file")
	algorithm := fs.String("algorithm", compression.DefaultAlgorithm, "one of lzw-huffman, lzw, huffman")
	maxWidth := fs.Uint("max-width", cfg.LZWMaxWidth, "LZW dictionary bound in bits")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("both -in and -out are required")
	}

	data, err := readInput(*in, !*quiet)
	if err != nil {
		return err
	}
	options := compression.Options{Algorithm: *algorithm, MaxWidth: *maxWidth}
	run := compression.Compress
	if command == "decompress" {
		run = compression.Decompress
	}
	output, stats, err := run(data, options)
	if err != nil {
		return err
	}
	if err := writeOutput(*out, output); err != nil {
		return err
	}
	logger.Printf("%s %s: %d -> %d bytes (%.2f%%) in %s, checksum %016x",
		command, stats.Algorithm, stats.OriginalSize, stats.ProcessedSize, stats.CompressionRatio, stats.Elapsed, stats.Checksum)
	return nil
}

func runServe(cfg *config.Config) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h, err := api.NewHandler(cfg)
	if err != nil {
		return err
	}
	router := api.NewRouter(h)
	logger.Printf("listening on :%s (%s)", cfg.Port, cfg.Environment)
	return router.Run(":" + cfg.Port)
}
