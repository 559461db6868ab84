// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"

	"github.com/danielhkuo/movie-night/models"
)

var errUnknownUser = errors.New("interaction has no user")

// NoCommandMessage is the reply for commands the bot does not handle.
func NoCommandMessage(name string) string {
	return "No handling for command " + name + " yet"
}

// Message maps an engine error to the chat reply for command. known is false
// for infrastructure failures, which get a generic reply.
func Message(command string, err error) (msg string, known bool) {
	switch {
	case errors.Is(err, models.ErrVotingInProgress):
		return "A vote is already in progress, no longer accepting nominations", true
	case errors.Is(err, models.ErrNoActiveElection):
		switch command {
		case "vote cast":
			return "Can't cast ballot - no vote currently running", true
		case "vote end":
			return "There is no active vote!", true
		default:
			return "No active vote", true
		}
	case errors.Is(err, models.ErrAlreadyRunning):
		return "The vote has already started!", true
	case errors.Is(err, models.ErrNoNominations):
		return "There are no nominations yet!", true
	case errors.Is(err, models.ErrInvalidChoice):
		return "That is not a valid choice!", true
	case errors.Is(err, models.ErrLookupTimeout):
		return "The movie lookup timed out, try again later", true
	case errors.Is(err, models.ErrCandidateNotFound):
		return "No movie found!", true
	case errors.Is(err, models.ErrStorageConflict):
		return "Someone else changed the vote at the same time, please try again", true
	case errors.Is(err, errUnknownUser):
		return "I couldn't tell who sent that command", true
	}
	return "Something went wrong, please try again", false
}
