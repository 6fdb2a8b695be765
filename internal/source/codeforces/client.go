// Package codeforces reads public profile data from the Codeforces REST API.
//
// Every call waits on a token-bucket limiter before it is sent. With the
// default policy of 0.5 requests per second and a burst of 1, the first call
// goes out immediately and each later call at least two seconds after the
// previous one.
package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
	"cpinsights/internal/infrastructure"
	"cpinsights/pkg/contracts/domain"
)

var tracer = otel.Tracer("cpinsights/source/codeforces")

const statusOK = "OK"

// Client calls Codeforces API methods under a shared rate limit.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client for the base URL and pacing policy in cfg.
func NewClient(cfg config.CodeforcesConfig, logger *slog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.DebugContext(resp.Request.Context(), "codeforces response",
			slog.String("url", resp.Request.URL),
			slog.Int("status", resp.StatusCode()),
			slog.Duration("duration", resp.Time()))
		return nil
	})

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:  logger,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// call performs one API method and decodes the envelope's result into out.
func (c *Client) call(ctx context.Context, method string, params map[string]string, out any) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("codeforces:%s", method))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		err = apperrors.NewHTTPTransportError(fmt.Sprintf("codeforces %s not sent", method), 0, err)
		infrastructure.RecordError(span, err)
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(method)
	if err != nil {
		err = apperrors.NewHTTPTransportError(fmt.Sprintf("codeforces %s request failed", method), 0, err)
		infrastructure.RecordError(span, err)
		return err
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))

	var env envelope
	parseErr := json.Unmarshal(resp.Body(), &env)

	// Codeforces reports bad handles as 400 with a FAILED envelope
	if parseErr == nil && env.Status != "" && env.Status != statusOK {
		err = apperrors.NewAPIStatusError(method, env.Comment).WithContext(apperrors.CtxStatusCode, status)
		infrastructure.RecordError(span, err)
		return err
	}

	if status < 200 || status > 299 {
		err = apperrors.NewHTTPTransportError(fmt.Sprintf("codeforces %s request failed", method), status, nil)
		infrastructure.RecordError(span, err)
		return err
	}

	if parseErr != nil {
		err = apperrors.NewMissingDataError("status", parseErr)
		infrastructure.RecordError(span, err)
		return err
	}
	if env.Status == "" {
		err = apperrors.NewMissingDataError("status", nil)
		infrastructure.RecordError(span, err)
		return err
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		err = apperrors.NewMissingDataError("result", nil)
		infrastructure.RecordError(span, err)
		return err
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		err = apperrors.NewMissingDataError("result", err)
		infrastructure.RecordError(span, err)
		return err
	}
	return nil
}

// UserInfo returns the profile summary for handle.
func (c *Client) UserInfo(ctx context.Context, handle string) (domain.UserProfile, error) {
	var users []struct {
		Handle       string `json:"handle"`
		Rating       *int   `json:"rating"`
		MaxRating    *int   `json:"maxRating"`
		Rank         string `json:"rank"`
		Contribution int    `json:"contribution"`
	}

	if err := c.call(ctx, "user.info", map[string]string{"handles": handle}, &users); err != nil {
		return domain.UserProfile{}, err
	}
	if len(users) == 0 {
		return domain.UserProfile{}, apperrors.NewMissingDataError("result[0]", nil)
	}

	u := users[0]
	return domain.UserProfile{
		Handle:       handle,
		Rating:       u.Rating,
		MaxRating:    u.MaxRating,
		Rank:         u.Rank,
		Contribution: u.Contribution,
	}, nil
}

// Submissions returns up to count of the user's submissions starting at the
// 1-based position from, newest first, with every verdict.
func (c *Client) Submissions(ctx context.Context, handle string, from, count int) ([]domain.SubmissionRecord, error) {
	var subs []struct {
		ID                  int64  `json:"id"`
		CreationTimeSeconds int64  `json:"creationTimeSeconds"`
		ProgrammingLanguage string `json:"programmingLanguage"`
		Verdict             string `json:"verdict"`
		Problem             struct {
			Index string   `json:"index"`
			Name  string   `json:"name"`
			Tags  []string `json:"tags"`
		} `json:"problem"`
	}

	params := map[string]string{
		"handle": handle,
		"from":   strconv.Itoa(from),
		"count":  strconv.Itoa(count),
	}
	if err := c.call(ctx, "user.status", params, &subs); err != nil {
		return nil, err
	}

	records := make([]domain.SubmissionRecord, 0, len(subs))
	for _, s := range subs {
		records = append(records, domain.SubmissionRecord{
			ID:        strconv.FormatInt(s.ID, 10),
			Title:     s.Problem.Name,
			Index:     s.Problem.Index,
			Language:  s.ProgrammingLanguage,
			Timestamp: s.CreationTimeSeconds,
			Tags:      s.Problem.Tags,
			Verdict:   s.Verdict,
		})
	}

	c.logger.DebugContext(ctx, "fetched submissions",
		slog.String("handle", handle),
		slog.Int("count", len(records)))

	return records, nil
}

// RatingHistory returns one entry per rated contest. Every entry is attended.
func (c *Client) RatingHistory(ctx context.Context, handle string) ([]domain.ContestResult, error) {
	var changes []struct {
		ContestName string `json:"contestName"`
		Rank        int    `json:"rank"`
		OldRating   int    `json:"oldRating"`
		NewRating   int    `json:"newRating"`
	}

	if err := c.call(ctx, "user.rating", map[string]string{"handle": handle}, &changes); err != nil {
		return nil, err
	}

	results := make([]domain.ContestResult, 0, len(changes))
	for _, ch := range changes {
		results = append(results, domain.ContestResult{
			ContestName:  ch.ContestName,
			Rank:         ch.Rank,
			RatingBefore: ch.OldRating,
			RatingAfter:  ch.NewRating,
			Attended:     true,
		})
	}
	return results, nil
}
