package content

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/scribe/pkg/models"
)

// ErrInvalidPayload wraps every decode or validation failure of a job request.
var ErrInvalidPayload = errors.New("invalid job payload")

//go:embed schema/create_job.json
var createJobSchemaJSON []byte

// createJobSchema is compiled once at package init.
var createJobSchema = mustCompile(createJobSchemaJSON)

func mustCompile(b []byte) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		panic(fmt.Sprintf("compile create job schema: %v", err))
	}
	return rs
}

// jobRequest holds the fields copied onto the stored job.
type jobRequest struct {
	Title            string  `json:"title"`
	MainKeyword      string  `json:"main_keyword"`
	RelatedKeywords  *string `json:"related_keywords"`
	ArticleWordCount *int64  `json:"article_word_count"`
	ArticleLength    *string `json:"article_length"`
	ToneOfVoice      *string `json:"tone_of_voice"`
	AudienceType     *string `json:"audience_type"`
	ContentFormat    *string `json:"content_format"`
	CompetitorURL1   *string `json:"competitor_url_1"`
	CompetitorURL2   *string `json:"competitor_url_2"`
}

// parsedJob is a validated request: the typed fields plus every raw field the
// client sent, unknown ones included.
type parsedJob struct {
	req    jobRequest
	fields map[string]json.RawMessage
}

// parseJobRequest decodes and validates a create-job body without touching storage.
func parseJobRequest(ctx context.Context, body []byte) (*parsedJob, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPayload)
	}

	verrs, err := createJobSchema.ValidateBytes(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			msgs = append(msgs, ve.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}

	var req jobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.MainKeyword) == "" {
		return nil, fmt.Errorf("%w: title and main_keyword are required", ErrInvalidPayload)
	}

	return &parsedJob{req: req, fields: fields}, nil
}

// job builds the record to persist for userID.
func (p *parsedJob) job(userID int64) *models.ContentJob {
	return &models.ContentJob{
		UserID:           userID,
		Title:            p.req.Title,
		MainKeyword:      p.req.MainKeyword,
		RelatedKeywords:  p.req.RelatedKeywords,
		ArticleWordCount: p.req.ArticleWordCount,
		ArticleLength:    p.req.ArticleLength,
		ToneOfVoice:      p.req.ToneOfVoice,
		AudienceType:     p.req.AudienceType,
		ContentFormat:    p.req.ContentFormat,
		CompetitorURL1:   p.req.CompetitorURL1,
		CompetitorURL2:   p.req.CompetitorURL2,
		Status:           models.JobStatusPending,
	}
}

// webhookPayload returns the original request fields with the server assigned
// job_id and user_id applied on top.
func (p *parsedJob) webhookPayload(jobID, userID int64) map[string]any {
	out := make(map[string]any, len(p.fields)+2)
	for k, v := range p.fields {
		out[k] = v
	}
	out["job_id"] = jobID
	out["user_id"] = userID

	return out
}
