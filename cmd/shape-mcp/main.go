package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
	"github.com/ironsheep/shape-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = server.Version
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("shape-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			printHelp()
			return
		case arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a file path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown option %q (see --help)\n", arg)
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("SHAPE_MCP_LOG_LEVEL")
	if l := logging.New(os.Stderr, logLevel); l != nil {
		logging.SetLogger(l)
	}
	if logLevel == "debug" {
		log.Printf("Shape MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			log.Fatalf("Config error: %v", err)
		}
		log.Printf("Loaded tolerances from %s", configPath)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		log.Printf("stdin is a terminal; this server expects an MCP client to send JSON-RPC requests")
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("shape-tools-mcp - MCP server for stroke shape analysis")
	fmt.Println()
	fmt.Println("Usage: shape-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v       Print version information")
	fmt.Println("  --help, -h          Print this help message")
	fmt.Println("  --config <file>     Load default tolerances from a JSON file")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SHAPE_MCP_LOG_LEVEL=debug|info|warn|error    Enable logging to stderr")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
