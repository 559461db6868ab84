// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers turns signed chat interactions into election operations.

# Interactions

A single endpoint receives every slash command:

	POST /interactions → InteractionHandler.Handle

Requests are verified against the application's Ed25519 public key before the
body is decoded. Ping interactions are answered with a pong; commands are
answered with a channel message carrying the reply text.

# Commands

	/nominate title:<title [(year)]>   or   /nominate id:<imdb id>
	/vote start | end | voters | nominations | history
	/vote cast choice:<n | random [n...]>
	/stats

Engine errors never escape as HTTP failures. Message maps each one to the
reply shown in chat, and anything unexpected is logged and answered with a
generic apology.
*/
package handlers
