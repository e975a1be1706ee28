package models

import (
	"encoding/json"
	"time"
)

// Domain models matching the database schema in db/migrations.

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	Name         *string   `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type WordpressCredential struct {
	ID                  int64  `json:"id" db:"id"`
	UserID              int64  `json:"userId" db:"user_id"`
	SiteURL             string `json:"siteUrl" db:"site_url"`
	Username            string `json:"username" db:"username"`
	ApplicationPassword string `json:"applicationPassword" db:"application_password"`
}

// JobStatus is the lifecycle state of a ContentJob. Only the downstream
// automation moves a job past JobStatusPending.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

type ContentJob struct {
	ID                int64           `json:"id" db:"id"`
	UserID            int64           `json:"user_id" db:"user_id"`
	Title             string          `json:"title" db:"title"`
	MainKeyword       string          `json:"main_keyword" db:"main_keyword"`
	RelatedKeywords   *string         `json:"related_keywords" db:"related_keywords"`
	ArticleWordCount  *int64          `json:"article_word_count" db:"article_word_count"`
	ArticleLength     *string         `json:"article_length" db:"article_length"`
	ToneOfVoice       *string         `json:"tone_of_voice,omitempty" db:"tone_of_voice"`
	AudienceType      *string         `json:"audience_type" db:"audience_type"`
	ContentFormat     *string         `json:"content_format" db:"content_format"`
	CompetitorURL1    *string         `json:"competitor_url_1,omitempty" db:"competitor_url_1"`
	CompetitorURL2    *string         `json:"competitor_url_2,omitempty" db:"competitor_url_2"`
	Status            JobStatus       `json:"status" db:"status"`
	SemanticKeywords  []string        `json:"semantic_keywords,omitempty" db:"semantic_keywords"`
	SemanticKeywords2 []string        `json:"semantic_keywords_2,omitempty" db:"semantic_keywords_2"`
	Outline           json.RawMessage `json:"outline,omitempty" db:"outline"`
	GeneratedText     *string         `json:"generated_text,omitempty" db:"generated_text"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// ContentData is the outline document the automation writes into
// ContentJob.Outline. The API stores and returns it verbatim.
type ContentData struct {
	Role    string `json:"role"`
	Content struct {
		Chapters map[string][]Section `json:"chapters"`
	} `json:"content"`
}

// Section is one heading of an outline chapter.
type Section struct {
	ID               string   `json:"id"`
	HeadingTag       string   `json:"headingTag"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	SemanticKeywords []string `json:"semanticKeywords"`
}
