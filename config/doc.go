// Package config resolves benchbot settings from layered sources.
//
// Precedence, highest first:
//  1. Command-line flags
//  2. Environment variables (BENCHBOT_ARTIFACT_NAME, ...)
//  3. The config file (.benchbot.yaml in the workspace)
//  4. Built-in defaults
//
// # Basic Usage
//
//	resolver := config.NewResolver(config.ResolverConfig{
//	    Path: filepath.Join(workspace, config.FileName),
//	})
//	cfg := resolver.ResolveWithFlags(map[string]string{"log_level": "debug"})
//	s := cfg.Settings()
//	fmt.Println(s.ArtifactName, cfg.Source(config.KeyArtifactName))
//
// # Config File
//
// The file is flat YAML; unknown keys are ignored with a warning:
//
//	artifact_name: benchmark-results
//	comment_marker: Benchmark Comparison
//	all_pages: true
package config
