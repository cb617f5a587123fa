package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/graphmock/graphmock/internal/eventbus"
	"github.com/graphmock/graphmock/internal/executor"
	"github.com/graphmock/graphmock/internal/introspection"
	"github.com/graphmock/graphmock/internal/language"
	"github.com/graphmock/graphmock/internal/logging"
	"github.com/graphmock/graphmock/internal/mock"
	"github.com/graphmock/graphmock/internal/mockfile"
	"github.com/graphmock/graphmock/internal/otel"
	"github.com/graphmock/graphmock/internal/schema"
	"github.com/graphmock/graphmock/internal/server"
)

const rootUsage = `graphmock — mock GraphQL server & tools

USAGE:
  graphmock <command> [flags]

COMMANDS:
  serve            Serve synthesized mock data for a GraphQL schema
  compile-sdl      Merge & validate GraphQL SDL into a single schema
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -schema <file>                  GraphQL SDL file. Repeatable; at least one required
  -mocks <file>                   YAML file with static mock values and list sizes
  -graphql.introspection <bool>   Enable GraphQL introspection (default: true)
  -server.addr <addr>             HTTP listen address (default: :8080)
  -server.pretty                  Pretty-print JSON responses
  -server.timeout <duration>      Per-request timeout, e.g. 10s (default: 10s)
  -log.debug                      Verbose logging, including per-field resolution
  -otel.endpoint <addr>           OTLP collector endpoint
  -otel.service <name>            OpenTelemetry service name (default: graphmock)
`

const compileSDLUsage = `compile-sdl FLAGS:
  -schema <file>  GraphQL SDL file. Repeatable; at least one required
  -out <file>     Write compiled SDL to file (default: stdout)
  (Validation always runs; exits non-zero on errors)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("graphmock", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		// print usage on parse error
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
	case "serve":
		return cmdServe(cmdArgs)
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs)
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
	case "serve":
		fmt.Print(serveUsage)
	case "compile-sdl":
		fmt.Print(compileSDLUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func buildSchemaFromFiles(paths []string) (*schema.Schema, error) {
	sources := make([]*language.Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		sources = append(sources, language.NewSource(p, string(data)))
	}
	sch, err := schema.Build(sources...)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return sch, nil
}

func cmdServe(args []string) error {
	var schemaFiles stringListFlag
	mocksFile := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	enableIntrospection := true
	debug := false
	otelEndpoint := ""
	otelService := "graphmock"

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemaFiles, "schema", "GraphQL SDL file")
	fs.StringVar(&mocksFile, "mocks", mocksFile, "YAML file with static mock values")
	fs.BoolVar(&enableIntrospection, "graphql.introspection", enableIntrospection, "Enable GraphQL introspection")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.BoolVar(&debug, "log.debug", debug, "Verbose logging")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	if len(schemaFiles) == 0 {
		fmt.Fprint(os.Stderr, serveUsage)
		return fmt.Errorf("-schema is required")
	}

	sch, err := buildSchemaFromFiles(schemaFiles)
	if err != nil {
		return err
	}

	var mocks map[string]mock.Generator
	if mocksFile != "" {
		f, err := mockfile.Load(mocksFile)
		if err != nil {
			return err
		}
		mocks, err = f.Generators()
		if err != nil {
			return fmt.Errorf("mockfile: %w", err)
		}
	}

	eventbus.Use(eventbus.New())
	logger, err := logging.Setup(debug)
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	rt, err := mock.New(mock.Options{Schema: sch, Mocks: mocks})
	if err != nil {
		return fmt.Errorf("mock runtime: %w", err)
	}

	var runtime executor.Runtime = rt
	if enableIntrospection {
		wrapper := introspection.Wrap(runtime, sch)
		runtime = wrapper.Runtime
		sch = wrapper.Schema
	}

	var sopts []server.Option
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	h, err := server.New(runtime, sch, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("mock GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func cmdCompileSDL(args []string) error {
	var schemaFiles stringListFlag
	outFile := ""
	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemaFiles, "schema", "GraphQL SDL file")
	fs.StringVar(&outFile, "out", outFile, "Write compiled SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return err
	}
	if len(schemaFiles) == 0 {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return fmt.Errorf("-schema is required")
	}

	sch, err := buildSchemaFromFiles(schemaFiles)
	if err != nil {
		return err
	}
	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
