// Package config provides configuration management for the blockqueue engine.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults for development use.
// A stage file named by STAGE_FILE may override the grid and inventory,
// see package stage.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
