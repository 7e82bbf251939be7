// atc - text container CLI tool
//
// Usage:
//
//	atc compress [-backend name] [-binary] in.txt out.atc   Pack a text file
//	atc decompress in.atc out.txt                           Unpack a container
//	atc backends                                            List backends
//
// Containers are written as JSON unless -binary is given. decompress accepts
// either form.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/egonelbre/exp-text-compression/atc"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("atc: ")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "compress":
		cmdCompress(args)
	case "decompress":
		cmdDecompress(args)
	case "backends":
		for _, b := range atc.Backends {
			fmt.Printf("%-6s %-12s %s\n", b.Name, b.Codec.Format(), b.Description)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "atc: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `atc - text container CLI tool

Usage:
  atc compress [-backend name] [-binary] in.txt out.atc
  atc decompress in.atc out.txt
  atc backends
`)
}

func cmdCompress(args []string) {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	backendName := fs.String("backend", "ac3", "backend used for packing (see atc backends)")
	binary := fs.Bool("binary", false, "write protobuf framing instead of JSON")
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		log.Fatal("usage: atc compress [-backend name] [-binary] in.txt out.atc")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	backend, ok := atc.Lookup(*backendName)
	if !ok {
		log.Fatalf("unknown backend %q", *backendName)
	}

	text, err := os.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}

	c, err := backend.Codec.Pack(string(text))
	if err != nil {
		log.Fatalf("pack %s: %v", in, err)
	}

	var data []byte
	if *binary {
		data, err = c.MarshalBinary()
	} else {
		data, err = json.Marshal(c)
	}
	if err != nil {
		log.Fatalf("encode %s: %v", out, err)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d bytes, %s, %d slots, %.1f%% of input)",
		out, len(data), c.Format, c.N, percent(len(data), len(text)))
}

func cmdDecompress(args []string) {
	fs := flag.NewFlagSet("decompress", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		log.Fatal("usage: atc decompress in.atc out.txt")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}

	c, err := readContainer(data)
	if err != nil {
		log.Fatalf("read %s: %v", in, err)
	}

	text, err := atc.Unpack(c)
	if err != nil {
		log.Fatalf("unpack %s: %v", in, err)
	}

	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d bytes, %s)", out, len(text), c.Format)
}

// readContainer detects JSON by its leading brace; anything else is taken
// to be protobuf framing, whose first byte is the format tag.
func readContainer(data []byte) (*atc.Container, error) {
	c := &atc.Container{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return c, nil
}

func percent(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return 100 * float64(a) / float64(b)
}
