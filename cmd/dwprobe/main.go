// dwprobe profiles a raw extract and prints either a human-readable column
// summary or a starter dataset spec for the run config.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"ecomdw/internal/config"
	"ecomdw/internal/inspect"
	csvparser "ecomdw/internal/parser/csv"
)

var (
	flagFile      = flag.String("file", "", "path of the raw delimited file to profile")
	flagName      = flag.String("name", "", "dataset name (defaults to the file name without extension)")
	flagDelimiter = flag.String("delimiter", ",", "field delimiter (single character)")
	flagJSON      = flag.Bool("json", false, "print a starter dataset spec as JSON instead of the column summary")
)

func main() {
	flag.Parse()

	if *flagFile == "" {
		fatalf("-file is required")
	}
	name := *flagName
	if name == "" {
		base := filepath.Base(*flagFile)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	opt := csvparser.DefaultOptions()
	if *flagDelimiter != "" {
		if r, _ := utf8.DecodeRuneInString(*flagDelimiter); r != utf8.RuneError {
			opt.Comma = r
		}
	}

	f, err := os.Open(*flagFile)
	if err != nil {
		fatalf("open: %v", err)
	}
	defer f.Close()

	ds, err := csvparser.Read(f, name, opt)
	if err != nil {
		fatalf("read: %v", err)
	}

	profile := inspect.Dataset(ds, config.DefaultDateLayouts)

	if *flagJSON {
		spec := inspect.SuggestSpec(profile, filepath.Base(*flagFile))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(spec); err != nil {
			fatalf("encode: %v", err)
		}
		return
	}

	fmt.Printf("%s: %d rows, %d columns\n", profile.Dataset, profile.Rows, len(profile.Columns))
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tkind\tmissing\tdistinct\texamples")
	for _, c := range profile.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%d\t%s\n",
			c.Name, c.Kind, c.MissingPct*100, c.Distinct, strings.Join(c.Examples, ", "))
	}
	if err := tw.Flush(); err != nil {
		fatalf("render: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
