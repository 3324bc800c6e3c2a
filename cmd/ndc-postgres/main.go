// Package main is the connector executable.
//
// Usage:
//
//	ndc-postgres serve -configuration deployment.json [-settings server.yaml]
//	ndc-postgres configure -connection-uri postgresql://... [-output deployment.json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
	"github.com/soorajshankar/ndc-postgres/internal/configuration"
	"github.com/soorajshankar/ndc-postgres/internal/database"
	"github.com/soorajshankar/ndc-postgres/internal/logger"
	"github.com/soorajshankar/ndc-postgres/internal/server"
)

// Command represents a CLI subcommand.
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
}

func main() {
	commands := map[string]*Command{
		"serve": {
			Name:        "serve",
			Description: "Serve the connector HTTP API for a deployment",
			Run:         serveCmd,
		},
		"configure": {
			Name:        "configure",
			Description: "Introspect a database and emit a deployment configuration",
			Run:         configureCmd,
		},
		"version": {
			Name:        "version",
			Description: "Show version information",
			Run:         versionCmd,
		},
	}

	if len(os.Args) < 2 {
		printUsage(commands)
		os.Exit(0)
	}

	cmdName := os.Args[1]
	if cmdName == "help" || cmdName == "-h" || cmdName == "--help" {
		printUsage(commands)
		os.Exit(0)
	}

	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmdName)
		printUsage(commands)
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(commands map[string]*Command) {
	fmt.Println("ndc-postgres - Postgres-family data connector")
	fmt.Println()
	fmt.Println("Usage: ndc-postgres <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, name := range []string{"serve", "configure", "version"} {
		if c, ok := commands[name]; ok {
			fmt.Printf("  %-12s %s\n", c.Name, c.Description)
		}
	}
	fmt.Println()
	fmt.Println("Run 'ndc-postgres <command> -h' for help on a specific command.")
}

// serveCmd validates a deployment document and serves the connector API.
func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configurationPath := fs.String("configuration", "", "Path to the deployment configuration JSON (required)")
	settingsPath := fs.String("settings", "", "Path to the server settings YAML (optional)")
	port := fs.Int("port", 0, "Override the configured listen port")
	fs.Parse(args)

	if *configurationPath == "" {
		return fmt.Errorf("the -configuration flag is required")
	}

	settings := server.DefaultSettings()
	if *settingsPath != "" {
		loaded, err := server.LoadSettings(*settingsPath)
		if err != nil {
			return err
		}
		settings = loaded
	}
	if *port != 0 {
		settings.Port = *port
	}

	log := logger.New(&logger.Config{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: os.Stdout,
	})

	raw, err := readConfiguration(*configurationPath)
	if err != nil {
		return err
	}

	cfg, err := configuration.Validate(raw)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	state := &server.State{
		Configuration: cfg,
		Catalog:       catalog.New(settings.Dialect),
		Pool:          pool,
		Logger:        log,
	}

	addr := fmt.Sprintf(":%d", settings.Port)
	log.With().
		Str("addr", addr).
		Str("dialect", string(settings.Dialect)).
		Logger().
		Info("connector listening")

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(state),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// configureCmd introspects a database and writes the elaborated deployment
// configuration.
func configureCmd(args []string) error {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	connectionURI := fs.String("connection-uri", "", "Connection string of the database to introspect (required)")
	inputPath := fs.String("input", "", "Existing deployment configuration to re-elaborate (optional)")
	outputPath := fs.String("output", "", "Where to write the result (default stdout)")
	timeout := fs.Duration("timeout", 30*time.Second, "Overall timeout for introspection")
	fs.Parse(args)

	raw := configuration.Empty()
	if *inputPath != "" {
		loaded, err := readConfiguration(*inputPath)
		if err != nil {
			return err
		}
		raw = loaded
	}
	if *connectionURI != "" {
		raw.ConnectionURIs = configuration.SingleURI(*connectionURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	elaborated, err := configuration.Configure(ctx, raw, configuration.DiscoveryQuery)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(elaborated, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if *outputPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(*outputPath, out, 0o644)
}

func versionCmd(args []string) error {
	fmt.Println("ndc-postgres v1.0.0")
	return nil
}

func readConfiguration(path string) (configuration.RawConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return configuration.RawConfiguration{}, fmt.Errorf("read configuration file: %w", err)
	}
	var raw configuration.RawConfiguration
	if err := json.Unmarshal(data, &raw); err != nil {
		return configuration.RawConfiguration{}, fmt.Errorf("parse configuration file: %w", err)
	}
	return raw, nil
}
