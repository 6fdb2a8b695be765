package leetcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
	"cpinsights/internal/shared/testutil"
	"cpinsights/pkg/contracts/domain"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewClient(config.LeetCodeConfig{
		Endpoint:  endpoint,
		Timeout:   5 * time.Second,
		UserAgent: "cpinsights-test",
	}, logger)
}

func TestClient_OverallStats(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	ac, total, err := client.OverallStats(context.Background(), testutil.KnownLeetCodeUser)
	require.NoError(t, err)

	require.Len(t, ac, 4)
	require.Len(t, total, 4)
	assert.Equal(t, domain.DifficultyCount{Difficulty: "Easy", Count: 10, Submissions: 14}, ac[1])
	assert.Equal(t, domain.DifficultyCount{Difficulty: "Easy", Count: 15, Submissions: 20}, total[1])
	assert.Equal(t, 1, api.Calls(testutil.OpMatchedUser))
}

func TestClient_OverallStats_UnknownUser(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	_, _, err := client.OverallStats(context.Background(), testutil.UnknownUser)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
	assert.Contains(t, err.Error(), "matchedUser")
	assert.Contains(t, err.Error(), "That user does not exist.")
}

func TestClient_RecentAccepted(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	records, err := client.RecentAccepted(context.Background(), testutil.KnownLeetCodeUser, 50)
	require.NoError(t, err)

	want := []domain.SubmissionRecord{
		{ID: "1003", Title: "Two Sum", Slug: "two-sum", Language: "python3", Timestamp: 1700000300, Verdict: domain.VerdictAccepted},
		{ID: "1002", Title: "Add Two Numbers", Slug: "add-two-numbers", Language: "python3", Timestamp: 1700000200, Verdict: domain.VerdictAccepted},
		{ID: "1001", Title: "Two Sum", Slug: "two-sum", Language: "cpp", Timestamp: 1700000100, Verdict: domain.VerdictAccepted},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("RecentAccepted mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_RecentAccepted_NullList(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	_, err := client.RecentAccepted(context.Background(), testutil.UnknownUser, 50)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
	path, ok := apperrors.ContextValue(err, apperrors.CtxPath)
	require.True(t, ok)
	assert.Equal(t, "recentAcSubmissionList", path)
}

func TestClient_ProblemMeta(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	meta, err := client.ProblemMeta(context.Background(), "add-two-numbers")
	require.NoError(t, err)
	assert.Equal(t, domain.ProblemMeta{
		Slug:       "add-two-numbers",
		Difficulty: "Medium",
		Tags:       []string{"Linked List", "Math", "Recursion"},
	}, meta)

	_, err = client.ProblemMeta(context.Background(), "no-such-problem")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
	assert.Equal(t, []string{"add-two-numbers", "no-such-problem"}, api.QuestionSlugs())
}

func TestClient_ContestHistory(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	history, err := client.ContestHistory(context.Background(), testutil.KnownLeetCodeUser)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, domain.ContestResult{
		ContestName:    "Weekly Contest 350",
		Rank:           1234,
		Rating:         1523.456,
		ProblemsSolved: 3,
		Trend:          "UP",
		Attended:       true,
	}, history[0])
	assert.False(t, history[1].Attended)
}

func TestClient_HTTPStatus(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	api.FailWith(testutil.OpContestHistory, http.StatusTooManyRequests)
	client := newTestClient(t, api.URL())

	_, err := client.ContestHistory(context.Background(), testutil.KnownLeetCodeUser)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeHTTPTransport))
	status, ok := apperrors.ContextValue(err, apperrors.CtxStatusCode)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/graphql"
	server.Close()

	client := newTestClient(t, endpoint)
	_, _, err := client.OverallStats(context.Background(), testutil.KnownLeetCodeUser)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeHTTPTransport))
	_, hasStatus := apperrors.ContextValue(err, apperrors.CtxStatusCode)
	assert.False(t, hasStatus)
}

func TestClient_MalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPath string
	}{
		{name: "not json", body: `<html>`, wantPath: "data"},
		{name: "null data", body: `{"data":null}`, wantPath: "data"},
		{name: "missing stats", body: `{"data":{"matchedUser":{}}}`, wantPath: "matchedUser.submitStatsGlobal"},
		{name: "missing totals", body: `{"data":{"matchedUser":{"submitStatsGlobal":{"acSubmissionNum":[]}}}}`, wantPath: "matchedUser.submitStatsGlobal.totalSubmissionNum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, _, err := client.OverallStats(context.Background(), "someone")
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
			path, _ := apperrors.ContextValue(err, apperrors.CtxPath)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	api := testutil.NewFakeLeetCode(t)
	client := newTestClient(t, api.URL())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.RecentAccepted(ctx, testutil.KnownLeetCodeUser, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
