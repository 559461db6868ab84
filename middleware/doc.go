// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /interactions", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms),
and counts the request in the movienight_http_requests_total metric.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Read a raw request body (needed before signature verification):

	body, err := middleware.ReadBody(r)

Bodies over MaxBodyBytes return ErrBodyTooLarge.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
