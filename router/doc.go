// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the movie night bot.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(engine, publicKey, cfg)

# Endpoints

	GET  /health       - Liveness check
	GET  /metrics      - Prometheus metrics
	POST /interactions - Signed chat interactions (commands)
	GET  /             - Banner

# Handler Initialization

The router creates the interaction handler with the election engine, the
public key used to verify signatures, and the configuration.
*/
package router
