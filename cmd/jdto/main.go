// Command jdto is a development helper for working with loose documents:
// converting between JSON and YAML, computing merge patches and canonical
// hashes, and previewing naming-strategy conversions.
package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sort"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	isatty "github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	jdto "github.com/jdto/jdto"
)

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "diff":
		err = runDiff(os.Args[2:])
	case "merge":
		err = runMerge(os.Args[2:])
	case "hash":
		err = runHash(os.Args[2:])
	case "name":
		err = runName(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: jdto <command> [flags]

commands:
  convert -to json|yaml <file>   convert a document between JSON and YAML
  diff <a> <b>                   JSON merge patch turning a into b
  merge <doc> <patch>            apply a JSON merge patch
  hash <file>                    canonical SHA-256 of a document
  name [-to source|property] <name>...
                                 preview snake_case naming conversion`)
}

// loadDocument reads a file and decodes it as YAML, which accepts JSON too.
func loadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%s: document holds no mapping", path)
	}
	return out, nil
}

func canonical(doc map[string]any) ([]byte, error) {
	return json.Marshal(doc)
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	to := fs.String("to", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("convert expects exactly one file")
	}
	doc, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}
	switch *to {
	case "json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
		os.Stdout.Write(buf.Bytes())
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	default:
		return fmt.Errorf("unknown output format %q", *to)
	}
	return nil
}

func runDiff(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("diff expects two files")
	}
	a, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	b, err := loadDocument(args[1])
	if err != nil {
		return err
	}
	ab, err := canonical(a)
	if err != nil {
		return err
	}
	bb, err := canonical(b)
	if err != nil {
		return err
	}
	patch, err := jsonpatch.CreateMergePatch(ab, bb)
	if err != nil {
		return err
	}
	var changes map[string]any
	if err := json.Unmarshal(patch, &changes); err != nil {
		return err
	}
	if len(changes) == 0 {
		color.New(color.FgGreen).Println("documents are identical")
		return nil
	}
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	removed := color.New(color.FgRed)
	changed := color.New(color.FgYellow)
	for _, k := range keys {
		v := changes[k]
		if v == nil {
			removed.Printf("- %s\n", k)
			continue
		}
		enc, err := json.Marshal(v)
		if err != nil {
			return err
		}
		changed.Printf("~ %s: %s\n", k, enc)
	}
	return nil
}

func runMerge(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("merge expects a document and a patch")
	}
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	patch, err := loadDocument(args[1])
	if err != nil {
		return err
	}
	db, err := canonical(doc)
	if err != nil {
		return err
	}
	pb, err := canonical(patch)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(db, pb)
	if err != nil {
		return err
	}
	var out map[string]any
	if err := json.Unmarshal(merged, &out); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	os.Stdout.Write(buf.Bytes())
	return nil
}

func runHash(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("hash expects one file")
	}
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	data, err := canonical(doc)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	fmt.Println(hex.EncodeToString(sum[:]))
	return nil
}

func runName(args []string) error {
	fs := flag.NewFlagSet("name", flag.ExitOnError)
	to := fs.String("to", "source", "direction: source (snake_case) or property (camelCase)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("name expects at least one identifier")
	}
	dir := jdto.ToSource
	if *to == "property" {
		dir = jdto.ToProperty
	} else if *to != "source" {
		return fmt.Errorf("unknown direction %q", *to)
	}
	s := jdto.SnakeCaseStrategy{}
	bold := color.New(color.Bold)
	for _, name := range fs.Args() {
		fmt.Printf("%s -> ", name)
		bold.Println(s.Convert(name, dir))
	}
	return nil
}
