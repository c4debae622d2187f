package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/leoasis/apollo-codegen/internal/compiler"
	"github.com/leoasis/apollo-codegen/internal/eventbus"
	"github.com/leoasis/apollo-codegen/internal/events"
	"github.com/leoasis/apollo-codegen/internal/language"
	"github.com/leoasis/apollo-codegen/internal/otel"
	"github.com/leoasis/apollo-codegen/internal/runid"
	"github.com/leoasis/apollo-codegen/internal/schema"
	"github.com/leoasis/apollo-codegen/internal/swift"
	"github.com/leoasis/apollo-codegen/internal/typegen"
)

const rootUsage = `apollo-codegen: GraphQL query compiler and Swift type generator

USAGE:
  apollo-codegen <command> [flags]

COMMANDS:
  generate         Compile queries against a schema and emit Swift types
  compile          Compile queries and print the resolved IR as JSON
  help             Show help for any command
`

const generateUsage = `generate FLAGS:
  -schema <file>              GraphQL schema: SDL file, or a .json
                              introspection result (required)
  -queries <glob>             Glob of .graphql query documents (required)
  -out <file>                 Output Swift file (default: stdout)
  -merge-fragment-fields      Flatten compatible fragment fields into the
                              enclosing selection
  -operation-ids              Attach stable content-derived operation ids
  -ids-out <file>             Write the operation-id manifest to file
  -passthrough-custom-scalars Emit custom scalar names instead of String
  -custom-scalars-prefix <p>  Prefix for passed-through custom scalars
  -otel.endpoint <addr>       OTLP collector endpoint
  -otel.service <name>        OpenTelemetry service name (default: apollo-codegen)
`

const compileUsage = `compile FLAGS:
  -schema <file>           GraphQL schema SDL or introspection .json (required)
  -queries <glob>          Glob of .graphql query documents (required)
  -merge-fragment-fields   Flatten compatible fragment fields
  -operation-ids           Attach stable content-derived operation ids
  (Prints the compiled IR summary as JSON to stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("apollo-codegen", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "generate":
		return cmdGenerate(cmdArgs)
	case "compile":
		return cmdCompile(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "generate":
		fmt.Print(generateUsage)
	case "compile":
		fmt.Print(compileUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "")
	queriesGlob := fs.String("queries", "", "")
	outPath := fs.String("out", "", "")
	mergeFragmentFields := fs.Bool("merge-fragment-fields", false, "")
	operationIDs := fs.Bool("operation-ids", false, "")
	idsOut := fs.String("ids-out", "", "")
	passthroughScalars := fs.Bool("passthrough-custom-scalars", false, "")
	scalarsPrefix := fs.String("custom-scalars-prefix", "", "")
	otelEndpoint := fs.String("otel.endpoint", "", "")
	otelService := fs.String("otel.service", "apollo-codegen", "")
	fs.Usage = func() { fmt.Fprint(os.Stderr, generateUsage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" || *queriesGlob == "" {
		fs.Usage()
		return fmt.Errorf("generate: -schema and -queries are required")
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(*otelEndpoint, *otelService)
	if err != nil {
		return err
	}
	ctx, _ := runid.NewContext(context.Background())
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	cctx, err := compileDocuments(ctx, *schemaPath, *queriesGlob, compiler.Options{
		MergeInFieldsFromFragmentSpreads: *mergeFragmentFields,
		GenerateOperationIDs:             *operationIDs,
	})
	if err != nil {
		return err
	}

	opts := typegen.Options{
		PassthroughCustomScalars: *passthroughScalars,
		CustomScalarsPrefix:      *scalarsPrefix,
	}
	output, err := generateSource(ctx, cctx, opts)
	if err != nil {
		return err
	}

	if *outPath == "" {
		fmt.Print(output)
	} else {
		if err := os.WriteFile(*outPath, []byte(output), 0644); err != nil {
			return err
		}
		eventbus.Publish(ctx, events.FileWritten{Path: *outPath, Bytes: len(output)})
		log.Printf("wrote %s (%d bytes)", *outPath, len(output))
	}

	if *idsOut != "" {
		manifest, err := operationIDManifest(cctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*idsOut, manifest, 0644); err != nil {
			return err
		}
		eventbus.Publish(ctx, events.FileWritten{Path: *idsOut, Bytes: len(manifest)})
		log.Printf("wrote %s (%d bytes)", *idsOut, len(manifest))
	}
	return nil
}

func cmdCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "")
	queriesGlob := fs.String("queries", "", "")
	mergeFragmentFields := fs.Bool("merge-fragment-fields", false, "")
	operationIDs := fs.Bool("operation-ids", false, "")
	fs.Usage = func() { fmt.Fprint(os.Stderr, compileUsage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" || *queriesGlob == "" {
		fs.Usage()
		return fmt.Errorf("compile: -schema and -queries are required")
	}

	cctx, err := compileDocuments(context.Background(), *schemaPath, *queriesGlob, compiler.Options{
		MergeInFieldsFromFragmentSpreads: *mergeFragmentFields,
		GenerateOperationIDs:             *operationIDs,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(contextSummary(cctx))
}

// loadSchema reads SDL or, for .json files, a standard introspection result.
func loadSchema(path string) (*schema.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".json" {
		return schema.BuildFromIntrospection(raw)
	}
	return schema.BuildFromSDL(string(raw))
}

// compileDocuments loads the schema and all query documents matching the
// glob, then compiles them into one context.
func compileDocuments(ctx context.Context, schemaPath, queriesGlob string, opts compiler.Options) (*compiler.Context, error) {
	paths, err := filepath.Glob(queriesGlob)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no query documents match %q", queriesGlob)
	}

	eventbus.Publish(ctx, events.CompileStart{SchemaPath: schemaPath, QueryFiles: paths})
	started := time.Now()

	cctx, err := func() (*compiler.Context, error) {
		s, err := loadSchema(schemaPath)
		if err != nil {
			return nil, err
		}

		doc := &language.QueryDocument{}
		for _, path := range paths {
			source, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			parsed, err := language.ParseQuery(string(source))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			doc.Operations = append(doc.Operations, parsed.Operations...)
			doc.Fragments = append(doc.Fragments, parsed.Fragments...)
		}
		return compiler.Compile(s, doc, opts)
	}()

	finish := events.CompileFinish{Err: err, Duration: time.Since(started)}
	if cctx != nil {
		finish.Operations = len(cctx.Operations)
		finish.Fragments = len(cctx.Fragments)
	}
	eventbus.Publish(ctx, finish)
	return cctx, err
}

// generateSource emits the auxiliary type declarations, fragment structs and
// operation classes into one buffer.
func generateSource(ctx context.Context, cctx *compiler.Context, opts typegen.Options) (string, error) {
	gen := swift.NewGenerator(cctx, opts)

	emit := func(kind, name string, fn func() error) error {
		eventbus.Publish(ctx, events.GenerateStart{Kind: kind, Name: name})
		started := time.Now()
		err := fn()
		eventbus.Publish(ctx, events.GenerateFinish{Kind: kind, Name: name, Err: err, Duration: time.Since(started)})
		return err
	}

	for _, t := range cctx.ReferencedTypes() {
		if err := emit("type", t.Name, func() error { return gen.TypeDeclarationForGraphQLType(t) }); err != nil {
			return "", err
		}
	}
	for _, frag := range cctx.FragmentsInOrder() {
		if err := emit("fragment", frag.Name, func() error { return gen.StructDeclarationForFragment(frag) }); err != nil {
			return "", err
		}
	}
	for _, op := range cctx.OperationsInOrder() {
		if err := emit("operation", op.Name, func() error { return gen.ClassDeclarationForOperation(op) }); err != nil {
			return "", err
		}
	}
	return gen.Output(), nil
}

type manifestEntry struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// operationIDManifest renders the id → operation mapping consumed by
// persisted-query servers.
func operationIDManifest(cctx *compiler.Context) ([]byte, error) {
	manifest := make(map[string]manifestEntry)
	for _, op := range cctx.OperationsInOrder() {
		source := op.Source
		for _, frag := range cctx.ReferencedFragments(op) {
			source += "\n" + frag.Source
		}
		manifest[op.ID] = manifestEntry{Name: op.Name, Source: source}
	}
	return json.MarshalIndent(manifest, "", "  ")
}

type operationSummary struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Variables []string `json:"variables,omitempty"`
	ID        string   `json:"id,omitempty"`
	Fragments []string `json:"fragments,omitempty"`
}

type fragmentSummary struct {
	Name          string `json:"name"`
	TypeCondition string `json:"typeCondition"`
}

type summary struct {
	Operations []operationSummary `json:"operations"`
	Fragments  []fragmentSummary  `json:"fragments"`
}

func contextSummary(cctx *compiler.Context) summary {
	var out summary
	for _, op := range cctx.OperationsInOrder() {
		entry := operationSummary{Name: op.Name, Type: string(op.Type), ID: op.ID}
		for _, v := range op.Variables {
			entry.Variables = append(entry.Variables, v.Name+": "+v.Type.String())
		}
		for _, frag := range cctx.ReferencedFragments(op) {
			entry.Fragments = append(entry.Fragments, frag.Name)
		}
		out.Operations = append(out.Operations, entry)
	}
	for _, frag := range cctx.FragmentsInOrder() {
		out.Fragments = append(out.Fragments, fragmentSummary{Name: frag.Name, TypeCondition: frag.TypeCondition.Name})
	}
	return out
}
