// Package config provides configuration management for cpinsights.
// It loads configuration from multiple sources, validates it, and resolves
// the file system paths a run writes to.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CPI_<SECTION>_<KEY>:
//
//	CPI_OUTPUT_DIR=reports
//	CPI_CODEFORCES_RPS=0.5
//	CPI_CODEFORCES_BURST=1
//	CPI_CACHE_TTL=72h
//	CPI_LOGGING_LEVEL=debug
//
// # Configuration File
//
// The first file found among cpinsights.yaml, config.yaml,
// configs/config.yaml and ~/.cpinsights/config.yaml is used unless a path is
// given explicitly:
//
//	leetcode:
//	  recent_limit: 200
//	  solved_limit: 50
//	codeforces:
//	  rps: 0.5
//	  burst: 1
//	cache:
//	  ttl: 168h
//
// # Validation
//
// All configuration is validated at load time with struct tags; handles are
// validated separately through ValidateHandle.
package config
