package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/garnizeh/scribe/pkg/models"
)

const contentJobColumns = `id, user_id, title, main_keyword, related_keywords, article_word_count, article_length,
	tone_of_voice, audience_type, content_format, competitor_url_1, competitor_url_2, status,
	semantic_keywords, semantic_keywords_2, outline, generated_text, created_at`

func (r *SQLRepo) CreateContentJob(ctx context.Context, j *models.ContentJob) (*models.ContentJob, error) {
	if j == nil {
		return nil, fmt.Errorf("content job is nil")
	}

	out := *j
	out.Status = models.JobStatusPending
	out.CreatedAt = fromMillis(now().UnixMilli())

	err := r.conn.QueryRow(ctx,
		`INSERT INTO content_jobs (user_id, title, main_keyword, related_keywords, article_word_count, article_length,
			tone_of_voice, audience_type, content_format, competitor_url_1, competitor_url_2, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		out.UserID, out.Title, out.MainKeyword, out.RelatedKeywords, out.ArticleWordCount, out.ArticleLength,
		out.ToneOfVoice, out.AudienceType, out.ContentFormat, out.CompetitorURL1, out.CompetitorURL2,
		string(out.Status), out.CreatedAt.UnixMilli(),
	).Scan(&out.ID)
	if err != nil {
		return nil, classify(err)
	}

	return &out, nil
}

func (r *SQLRepo) ListContentJobsByUser(ctx context.Context, userID int64) ([]models.ContentJob, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+contentJobColumns+` FROM content_jobs WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []models.ContentJob{}
	for rows.Next() {
		j, err := r.scanContentJob(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return out, nil
}

func (r *SQLRepo) scanContentJob(rows *sql.Rows) (*models.ContentJob, error) {
	var (
		j                               models.ContentJob
		related, length, tone, audience sql.NullString
		format, comp1, comp2, generated sql.NullString
		semantic, semantic2, outline    sql.NullString
		wordCount                       sql.NullInt64
		status                          string
		created                         int64
	)
	if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.MainKeyword, &related, &wordCount, &length,
		&tone, &audience, &format, &comp1, &comp2, &status,
		&semantic, &semantic2, &outline, &generated, &created); err != nil {
		return nil, classify(err)
	}

	j.RelatedKeywords = nullString(related)
	j.ArticleLength = nullString(length)
	j.ToneOfVoice = nullString(tone)
	j.AudienceType = nullString(audience)
	j.ContentFormat = nullString(format)
	j.CompetitorURL1 = nullString(comp1)
	j.CompetitorURL2 = nullString(comp2)
	j.GeneratedText = nullString(generated)
	if wordCount.Valid {
		v := wordCount.Int64
		j.ArticleWordCount = &v
	}

	j.Status = models.JobStatus(status)
	if !j.Status.Valid() {
		r.logger.Warn("content job has unknown status", slog.Int64("job_id", j.ID), slog.String("status", status))
	}

	// columns written by the automation; a malformed value is logged and left empty
	if semantic.Valid && semantic.String != "" {
		if err := json.Unmarshal([]byte(semantic.String), &j.SemanticKeywords); err != nil {
			r.logger.Warn("decode semantic_keywords", slog.Int64("job_id", j.ID), slog.Any("err", err))
		}
	}
	if semantic2.Valid && semantic2.String != "" {
		if err := json.Unmarshal([]byte(semantic2.String), &j.SemanticKeywords2); err != nil {
			r.logger.Warn("decode semantic_keywords_2", slog.Int64("job_id", j.ID), slog.Any("err", err))
		}
	}
	if outline.Valid && outline.String != "" {
		if json.Valid([]byte(outline.String)) {
			j.Outline = json.RawMessage(outline.String)
		} else {
			r.logger.Warn("outline is not valid json", slog.Int64("job_id", j.ID))
		}
	}

	j.CreatedAt = fromMillis(created)

	return &j, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
