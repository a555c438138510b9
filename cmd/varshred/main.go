package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	variant "github.com/varlab/variant"
	"github.com/varlab/variant/codec"
	"github.com/varlab/variant/derive"
	"github.com/varlab/variant/internal/metabin"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	case "derive":
		deriveCmd(os.Args[2:])
	case "metadata":
		metadataCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "varshred CLI\n\nUsage:\n  varshred check -f schema.yaml|schema.json\n  varshred derive -f sample.json [-o yaml|json]\n  varshred metadata -f schema.yaml\n\nNotes:\n  - check validates a schema description and prints the tree.\n  - derive infers a description from a sample JSON document.\n  - metadata prints the canonical metadata dictionary of the root.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var file string
	fs.StringVar(&file, "f", "", "schema description file (.yaml/.yml/.json)")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	s := loadSchema(file)
	printTree(s, "", "")
}

func deriveCmd(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	var file string
	var out string
	fs.StringVar(&file, "f", "", "sample JSON document")
	fs.StringVar(&out, "o", "yaml", "output format: yaml or json")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		fatal(err)
	}
	s, err := derive.FromJSON(data)
	if err != nil {
		fatal(err)
	}
	var rendered []byte
	switch out {
	case "yaml":
		rendered, err = codec.EncodeYAML(s)
	case "json":
		rendered, err = codec.EncodeJSON(s)
	default:
		fatal(fmt.Errorf("unknown output format %q", out))
	}
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(rendered)
}

func metadataCmd(args []string) {
	fs := flag.NewFlagSet("metadata", flag.ExitOnError)
	var file string
	fs.StringVar(&file, "f", "", "schema description file (.yaml/.yml/.json)")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	s := loadSchema(file)
	var names []string
	for _, f := range s.ObjectFields() {
		names = append(names, f.Name)
	}
	md, err := variant.EncodeMetadata(names)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("metadata (%d bytes): %s\n", len(md), hex.EncodeToString(md))
	dict, err := metabin.Parse(md)
	if err != nil {
		fatal(err)
	}
	for i, name := range dict.Names() {
		fmt.Printf("  %d: %q\n", i, name)
	}
}

func loadSchema(file string) *variant.Schema {
	data, err := os.ReadFile(file)
	if err != nil {
		fatal(err)
	}
	var s *variant.Schema
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		s, err = codec.DecodeYAML(data)
	case ".json":
		s, err = codec.DecodeJSON(data)
	default:
		err = fmt.Errorf("unsupported schema file extension %q", filepath.Ext(file))
	}
	if err != nil {
		fatal(err)
	}
	return s
}

func printTree(s *variant.Schema, name, indent string) {
	label := "variant"
	switch {
	case s.IsObject():
		label = "object"
	case s.IsArray():
		label = "array"
	case s.IsScalar():
		label = s.Scalar().String()
	}
	slots := fmt.Sprintf("typed=%s value=%s metadata=%s numFields=%d",
		idx(s.TypedIdx()), idx(s.VariantIdx()), idx(s.TopLevelMetadataIdx()), s.NumFields())
	if name != "" {
		fmt.Printf("%s%s: %s (%s)\n", indent, name, label, slots)
	} else {
		fmt.Printf("%s%s (%s)\n", indent, label, slots)
	}
	for _, f := range s.ObjectFields() {
		printTree(f.Schema, f.Name, indent+"  ")
	}
	if s.IsArray() {
		printTree(s.ArrayElem(), "element", indent+"  ")
	}
}

func idx(i int) string {
	if i == variant.NoIndex {
		return "-"
	}
	return fmt.Sprintf("%d", i)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "varshred:", err)
	os.Exit(1)
}
