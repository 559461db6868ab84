// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"regexp"
	"strings"

	"github.com/danielhkuo/movie-night/models"
)

var titleWithYear = regexp.MustCompile(`^([\s\S]+) \((\d{4})\)$`)

// ParseQuery turns free text into a title query, splitting off a trailing
// "(YYYY)" year when present.
func ParseQuery(text string) models.CandidateQuery {
	text = strings.TrimSpace(text)
	if m := titleWithYear.FindStringSubmatch(text); m != nil {
		return models.CandidateQuery{Title: m[1], Year: m[2]}
	}
	return models.CandidateQuery{Title: text}
}

// IDQuery builds a query for an external IMDb id.
func IDQuery(id string) models.CandidateQuery {
	return models.CandidateQuery{ID: strings.TrimSpace(id)}
}

func flightKey(q models.CandidateQuery) string {
	if q.ID != "" {
		return "id:" + q.ID
	}
	return "title:" + titleKey(q)
}

func titleKey(q models.CandidateQuery) string {
	return strings.ToLower(strings.TrimSpace(q.Title)) + "|" + q.Year
}
