// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Election status constants
const (
	StatusCreated   = "CREATED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
)

// Unknown is stored for any candidate attribute the lookup service did not report.
const Unknown = "N/A"

// Domain types

type Election struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Version     int64        `json:"version"`
	Nominations []Nomination `json:"nominations"`
}

// Winner returns the nomination marked as won, if any.
func (e *Election) Winner() (Nomination, bool) {
	for _, n := range e.Nominations {
		if n.Won {
			return n, true
		}
	}
	return Nomination{}, false
}

// Nomination is one ballot choice. Votes holds voter identities in cast order.
type Nomination struct {
	Nominator   string   `json:"nominator"`
	CandidateID string   `json:"movie_id"`
	Title       string   `json:"title"`
	Votes       []string `json:"votes"`
	Won         bool     `json:"won"`
}

type SourceRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Candidate is a write-once movie record keyed by its IMDb id.
type Candidate struct {
	ID             string         `json:"imdbID"`
	Title          string         `json:"Title"`
	Year           string         `json:"Year"`
	Rated          string         `json:"Rated"`
	Released       string         `json:"Released"`
	Runtime        string         `json:"Runtime"`
	Genre          string         `json:"Genre"`
	Director       string         `json:"Director"`
	Writer         string         `json:"Writer"`
	Actors         string         `json:"Actors"`
	Plot           string         `json:"Plot"`
	Language       string         `json:"Language"`
	Country        string         `json:"Country"`
	Awards         string         `json:"Awards"`
	Poster         string         `json:"Poster"`
	Ratings        []SourceRating `json:"Ratings"`
	Metascore      string         `json:"Metascore"`
	IMDbRating     string         `json:"imdbRating"`
	IMDbVotes      string         `json:"imdbVotes"`
	Type           string         `json:"Type"`
	DVD            string         `json:"DVD"`
	BoxOffice      string         `json:"BoxOffice"`
	Production     string         `json:"Production"`
	Website        string         `json:"Website"`
	FirstNominator string         `json:"first_nominated_by"`
	CreatedAt      time.Time      `json:"created_at"`
}

// FillUnknown replaces every empty descriptive field with Unknown.
func (c *Candidate) FillUnknown() {
	for _, f := range []*string{
		&c.Year, &c.Rated, &c.Released, &c.Runtime, &c.Genre, &c.Director,
		&c.Writer, &c.Actors, &c.Plot, &c.Language, &c.Country, &c.Awards,
		&c.Poster, &c.Metascore, &c.IMDbRating, &c.IMDbVotes, &c.Type,
		&c.DVD, &c.BoxOffice, &c.Production, &c.Website,
	} {
		if strings.TrimSpace(*f) == "" {
			*f = Unknown
		}
	}
	if c.Ratings == nil {
		c.Ratings = []SourceRating{}
	}
}

// Score returns the numeric IMDb rating. ok is false when the rating is unknown.
func (c *Candidate) Score() (score float64, ok bool) {
	v, err := strconv.ParseFloat(c.IMDbRating, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Info renders the detail block shown when a candidate wins.
func (c *Candidate) Info() string {
	return fmt.Sprintf("**%s**\n%s\nIMDB rating: %s\nMetacritic: %s\n%s\n",
		c.Title, c.Plot, c.IMDbRating, c.Metascore, c.Poster)
}

// CandidateQuery selects a candidate either by external id or by title with an optional year.
type CandidateQuery struct {
	ID    string
	Title string
	Year  string
}

func (q CandidateQuery) String() string {
	switch {
	case q.ID != "":
		return "id:" + q.ID
	case q.Year != "":
		return fmt.Sprintf("%s (%s)", q.Title, q.Year)
	default:
		return q.Title
	}
}

// Interaction types (chat webhook payloads)

const (
	InteractionPing           = 1
	InteractionCommand        = 2
	ResponsePong              = 1
	ResponseChannelMessage    = 4
	OptionTypeSubCommand      = 1
	OptionTypeSubCommandGroup = 2
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Member struct {
	User User `json:"user"`
}

// OptionValue accepts either a JSON string or a JSON number.
type OptionValue string

func (v *OptionValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = OptionValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("option value must be a string or number: %w", err)
	}
	*v = OptionValue(n.String())
	return nil
}

type CommandOption struct {
	Name    string          `json:"name"`
	Type    int             `json:"type"`
	Value   OptionValue     `json:"value,omitempty"`
	Options []CommandOption `json:"options,omitempty"`
}

type InteractionData struct {
	Name    string          `json:"name"`
	Options []CommandOption `json:"options,omitempty"`
}

type Interaction struct {
	Type   int             `json:"type"`
	Data   InteractionData `json:"data"`
	Member *Member         `json:"member,omitempty"`
	User   *User           `json:"user,omitempty"`
}

// Username returns the invoking user's name for guild and direct messages alike.
func (i *Interaction) Username() string {
	if i.Member != nil && i.Member.User.Username != "" {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}

// Response types

type MessageData struct {
	TTS     bool   `json:"tts"`
	Content string `json:"content"`
}

type InteractionResponse struct {
	Type int          `json:"type"`
	Data *MessageData `json:"data,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
