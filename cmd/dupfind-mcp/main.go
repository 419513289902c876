package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/refactorlab/dupfind/internal/config"
	"github.com/refactorlab/dupfind/mcp"
)

const (
	serverName    = "dupfind"
	serverVersion = "1.0.0"
)

func main() {
	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration if a .dupfind.toml is discoverable
	var cfg *config.Config
	configPath := config.FindConfigFile(".")
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			log.Printf("Warning: failed to load config %s: %v", configPath, err)
		} else {
			cfg = loaded
		}
	}

	// Create MCP server with tool capabilities
	server := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	// Register all dupfind tools
	handlers := mcp.NewHandlerSet(mcp.NewDependencies(cfg, configPath))
	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server v%s\n", serverName, serverVersion)
	log.Println("Registered tools:")
	log.Println("  - detect_duplicates: Multi-strategy duplicate detection")
	log.Println("  - compare_fragments: Pairwise fragment similarity")
	log.Println("  - duplication_metrics: Aggregate duplication statistics")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Start server with stdio transport
	// This blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
