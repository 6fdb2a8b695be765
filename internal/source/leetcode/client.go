// Package leetcode reads public profile data from the LeetCode GraphQL API.
package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
	"cpinsights/internal/infrastructure"
	"cpinsights/pkg/contracts/domain"
)

var tracer = otel.Tracer("cpinsights/source/leetcode")

// Client issues one GraphQL POST per logical query.
type Client struct {
	http     *resty.Client
	endpoint string
	logger   *slog.Logger
}

// NewClient creates a client for the endpoint in cfg.
func NewClient(cfg config.LeetCodeConfig, logger *slog.Logger) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.DebugContext(resp.Request.Context(), "leetcode response",
			slog.Int("status", resp.StatusCode()),
			slog.Duration("duration", resp.Time()),
			slog.Int("bytes", len(resp.Body())))
		return nil
	})

	return &Client{
		http:     client,
		endpoint: cfg.Endpoint,
		logger:   logger,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// graphqlQuery posts query and decodes the data object into out. root names
// the field the caller expects, for error reporting.
func (c *Client) graphqlQuery(ctx context.Context, root, query string, variables map[string]any, out any) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", root))
	defer span.End()

	serialized, err := json.Marshal(variables)
	if err == nil {
		span.SetAttributes(attribute.String("variables", string(serialized)))
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(graphqlRequest{Query: query, Variables: variables}).
		Post(c.endpoint)
	if err != nil {
		err = apperrors.NewHTTPTransportError(fmt.Sprintf("leetcode %s request failed", root), 0, err)
		infrastructure.RecordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		err = apperrors.NewHTTPTransportError(fmt.Sprintf("leetcode %s request failed", root), resp.StatusCode(), nil)
		infrastructure.RecordError(span, err)
		return err
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		err = apperrors.NewMissingDataError("data", err)
		infrastructure.RecordError(span, err)
		return err
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		err = apperrors.NewMissingDataError(root, errors.New(strings.Join(msgs, "; ")))
		infrastructure.RecordError(span, err)
		return err
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		err = apperrors.NewMissingDataError("data", nil)
		infrastructure.RecordError(span, err)
		return err
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		err = apperrors.NewMissingDataError(root, err)
		infrastructure.RecordError(span, err)
		return err
	}
	return nil
}

// OverallStats returns the accepted and total submission buckets per difficulty.
func (c *Client) OverallStats(ctx context.Context, username string) (ac, total []domain.DifficultyCount, err error) {
	var data struct {
		MatchedUser *struct {
			SubmitStatsGlobal *struct {
				AcSubmissionNum    []domain.DifficultyCount `json:"acSubmissionNum"`
				TotalSubmissionNum []domain.DifficultyCount `json:"totalSubmissionNum"`
			} `json:"submitStatsGlobal"`
		} `json:"matchedUser"`
	}

	if err := c.graphqlQuery(ctx, "matchedUser", overallStatsQuery, map[string]any{"username": username}, &data); err != nil {
		return nil, nil, err
	}

	switch {
	case data.MatchedUser == nil:
		return nil, nil, apperrors.NewMissingDataError("matchedUser", nil)
	case data.MatchedUser.SubmitStatsGlobal == nil:
		return nil, nil, apperrors.NewMissingDataError("matchedUser.submitStatsGlobal", nil)
	case data.MatchedUser.SubmitStatsGlobal.AcSubmissionNum == nil:
		return nil, nil, apperrors.NewMissingDataError("matchedUser.submitStatsGlobal.acSubmissionNum", nil)
	case data.MatchedUser.SubmitStatsGlobal.TotalSubmissionNum == nil:
		return nil, nil, apperrors.NewMissingDataError("matchedUser.submitStatsGlobal.totalSubmissionNum", nil)
	}

	stats := data.MatchedUser.SubmitStatsGlobal
	return stats.AcSubmissionNum, stats.TotalSubmissionNum, nil
}

// RecentAccepted returns up to limit of the user's most recent accepted
// submissions, newest first. Difficulty and tags are left empty.
func (c *Client) RecentAccepted(ctx context.Context, username string, limit int) ([]domain.SubmissionRecord, error) {
	var data struct {
		RecentAcSubmissionList *[]struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			TitleSlug string `json:"titleSlug"`
			Timestamp int64  `json:"timestamp,string"`
			Lang      string `json:"lang"`
		} `json:"recentAcSubmissionList"`
	}

	vars := map[string]any{"username": username, "limit": limit}
	if err := c.graphqlQuery(ctx, "recentAcSubmissionList", recentAcceptedQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.RecentAcSubmissionList == nil {
		return nil, apperrors.NewMissingDataError("recentAcSubmissionList", nil)
	}

	list := *data.RecentAcSubmissionList
	records := make([]domain.SubmissionRecord, 0, len(list))
	for _, s := range list {
		records = append(records, domain.SubmissionRecord{
			ID:        s.ID,
			Title:     s.Title,
			Slug:      s.TitleSlug,
			Language:  s.Lang,
			Timestamp: s.Timestamp,
			Verdict:   domain.VerdictAccepted,
		})
	}

	c.logger.DebugContext(ctx, "fetched recent accepted submissions",
		slog.String("username", username),
		slog.Int("limit", limit),
		slog.Int("count", len(records)))

	return records, nil
}

// ProblemMeta returns difficulty and topic tags for a problem slug.
func (c *Client) ProblemMeta(ctx context.Context, slug string) (domain.ProblemMeta, error) {
	var data struct {
		Question *struct {
			Difficulty string `json:"difficulty"`
			TopicTags  []struct {
				Name string `json:"name"`
			} `json:"topicTags"`
		} `json:"question"`
	}

	if err := c.graphqlQuery(ctx, "question", questionQuery, map[string]any{"titleSlug": slug}, &data); err != nil {
		return domain.ProblemMeta{}, err
	}
	if data.Question == nil {
		return domain.ProblemMeta{}, apperrors.NewMissingDataError("question", nil).WithContext("slug", slug)
	}

	tags := make([]string, 0, len(data.Question.TopicTags))
	for _, t := range data.Question.TopicTags {
		tags = append(tags, t.Name)
	}

	return domain.ProblemMeta{
		Slug:       slug,
		Difficulty: data.Question.Difficulty,
		Tags:       tags,
	}, nil
}

// ContestHistory returns every contest entry, attended or not.
func (c *Client) ContestHistory(ctx context.Context, username string) ([]domain.ContestResult, error) {
	var data struct {
		UserContestRankingHistory *[]struct {
			Contest *struct {
				Title string `json:"title"`
			} `json:"contest"`
			Ranking        int     `json:"ranking"`
			Rating         float64 `json:"rating"`
			Attended       bool    `json:"attended"`
			TrendDirection string  `json:"trendDirection"`
			ProblemsSolved int     `json:"problemsSolved"`
		} `json:"userContestRankingHistory"`
	}

	if err := c.graphqlQuery(ctx, "userContestRankingHistory", contestHistoryQuery, map[string]any{"username": username}, &data); err != nil {
		return nil, err
	}
	if data.UserContestRankingHistory == nil {
		return nil, apperrors.NewMissingDataError("userContestRankingHistory", nil)
	}

	history := *data.UserContestRankingHistory
	results := make([]domain.ContestResult, 0, len(history))
	for i, h := range history {
		if h.Contest == nil {
			return nil, apperrors.NewMissingDataError(fmt.Sprintf("userContestRankingHistory[%d].contest", i), nil)
		}
		results = append(results, domain.ContestResult{
			ContestName:    h.Contest.Title,
			Rank:           h.Ranking,
			Rating:         h.Rating,
			ProblemsSolved: h.ProblemsSolved,
			Trend:          h.TrendDirection,
			Attended:       h.Attended,
		})
	}
	return results, nil
}
