package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Usernames understood by the fake APIs.
const (
	KnownLeetCodeUser   = "AnomitraSarkar"
	KnownCodeforcesUser = "tourist"
	// UnratedCodeforcesUser exists but never took part in a rated contest.
	UnratedCodeforcesUser = "newbie"
	UnknownUser           = "ghost"
)

// Ptr returns a pointer to v, for optional fixture fields.
func Ptr[T any](v T) *T {
	return &v
}

// LeetCode GraphQL root fields, used as operation names by FakeLeetCode.
const (
	OpMatchedUser    = "matchedUser"
	OpRecentAC       = "recentAcSubmissionList"
	OpQuestion       = "question"
	OpContestHistory = "userContestRankingHistory"
)

// LeetCodeOverallStats has buckets All 16/50, Easy 10/20, Medium 5/20, Hard 1/10.
const LeetCodeOverallStats = `{"data":{"matchedUser":{"submitStatsGlobal":{
"acSubmissionNum":[
 {"difficulty":"All","count":16,"submissions":30},
 {"difficulty":"Easy","count":10,"submissions":14},
 {"difficulty":"Medium","count":5,"submissions":12},
 {"difficulty":"Hard","count":1,"submissions":4}],
"totalSubmissionNum":[
 {"difficulty":"All","count":40,"submissions":50},
 {"difficulty":"Easy","count":15,"submissions":20},
 {"difficulty":"Medium","count":15,"submissions":20},
 {"difficulty":"Hard","count":10,"submissions":10}]}}}}`

// LeetCodeRecentAC lists three accepted submissions; two-sum appears twice.
const LeetCodeRecentAC = `{"data":{"recentAcSubmissionList":[
 {"id":"1003","title":"Two Sum","titleSlug":"two-sum","timestamp":"1700000300","lang":"python3"},
 {"id":"1002","title":"Add Two Numbers","titleSlug":"add-two-numbers","timestamp":"1700000200","lang":"python3"},
 {"id":"1001","title":"Two Sum","titleSlug":"two-sum","timestamp":"1700000100","lang":"cpp"}]}}`

// LeetCodeContestHistory has one attended and one skipped contest.
const LeetCodeContestHistory = `{"data":{"userContestRankingHistory":[
 {"contest":{"title":"Weekly Contest 350"},"ranking":1234,"rating":1523.456,"attended":true,"trendDirection":"UP","problemsSolved":3},
 {"contest":{"title":"Weekly Contest 351"},"ranking":0,"rating":1523.456,"attended":false,"trendDirection":"NONE","problemsSolved":0}]}}`

// LeetCodeQuestions maps title slugs to their question payloads.
var LeetCodeQuestions = map[string]string{
	"two-sum":         `{"data":{"question":{"difficulty":"Easy","topicTags":[{"name":"Array"},{"name":"Hash Table"}]}}}`,
	"add-two-numbers": `{"data":{"question":{"difficulty":"Medium","topicTags":[{"name":"Linked List"},{"name":"Math"},{"name":"Recursion"}]}}}`,
}

const leetCodeUnknownUser = `{"errors":[{"message":"That user does not exist."}],"data":{"matchedUser":null}}`

// FakeLeetCode is an httptest server speaking enough of the LeetCode
// GraphQL API for the fetcher and pipeline tests.
type FakeLeetCode struct {
	Server *httptest.Server

	mu      sync.Mutex
	calls   map[string]int
	slugs   []string
	failOps map[string]int
}

// NewFakeLeetCode starts a fake LeetCode API that is closed with the test.
func NewFakeLeetCode(t *testing.T) *FakeLeetCode {
	t.Helper()
	f := &FakeLeetCode{calls: map[string]int{}, failOps: map[string]int{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the GraphQL endpoint.
func (f *FakeLeetCode) URL() string {
	return f.Server.URL + "/graphql"
}

// FailWith makes every request for op answer with the given HTTP status.
func (f *FakeLeetCode) FailWith(op string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOps[op] = status
}

// Calls returns the number of requests received for op.
func (f *FakeLeetCode) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// QuestionSlugs returns the slugs requested through the question query, in order.
func (f *FakeLeetCode) QuestionSlugs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.slugs...)
}

func (f *FakeLeetCode) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&req) != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	op := operationOf(req.Query)

	f.mu.Lock()
	f.calls[op]++
	status := f.failOps[op]
	if op == OpQuestion {
		slug, _ := req.Variables["titleSlug"].(string)
		f.slugs = append(f.slugs, slug)
	}
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	username, _ := req.Variables["username"].(string)
	w.Header().Set("Content-Type", "application/json")

	switch op {
	case OpMatchedUser:
		if username == UnknownUser {
			fmt.Fprint(w, leetCodeUnknownUser)
			return
		}
		fmt.Fprint(w, LeetCodeOverallStats)
	case OpRecentAC:
		if username == UnknownUser {
			fmt.Fprint(w, `{"data":{"recentAcSubmissionList":null}}`)
			return
		}
		fmt.Fprint(w, LeetCodeRecentAC)
	case OpQuestion:
		slug, _ := req.Variables["titleSlug"].(string)
		body, ok := LeetCodeQuestions[slug]
		if !ok {
			body = `{"data":{"question":null}}`
		}
		fmt.Fprint(w, body)
	case OpContestHistory:
		fmt.Fprint(w, LeetCodeContestHistory)
	default:
		http.Error(w, "unknown query", http.StatusBadRequest)
	}
}

func operationOf(query string) string {
	for _, op := range []string{OpMatchedUser, OpRecentAC, OpContestHistory, OpQuestion} {
		if strings.Contains(query, op+"(") {
			return op
		}
	}
	return ""
}

// Codeforces fixtures for handle "tourist".
const (
	CodeforcesUserInfo = `{"status":"OK","result":[{"handle":"tourist","rating":3800,"maxRating":4009,"rank":"legendary grandmaster","contribution":120}]}`

	CodeforcesUserStatus = `{"status":"OK","result":[
 {"id":3,"contestId":1850,"creationTimeSeconds":1690000300,"problem":{"contestId":1850,"index":"B","name":"Ten Words of Wisdom","tags":["implementation","sortings"]},"programmingLanguage":"Python 3","verdict":"OK"},
 {"id":2,"contestId":1850,"creationTimeSeconds":1690000200,"problem":{"contestId":1850,"index":"A","name":"To My Critics","tags":["implementation"]},"programmingLanguage":"GNU C++17","verdict":"WRONG_ANSWER"},
 {"id":1,"contestId":1850,"creationTimeSeconds":1690000100,"problem":{"contestId":1850,"index":"A","name":"To My Critics","tags":["implementation"]},"programmingLanguage":"GNU C++17","verdict":"OK"}]}`

	CodeforcesUserRating = `{"status":"OK","result":[
 {"contestId":1,"contestName":"Codeforces Beta Round #1","handle":"tourist","rank":1,"ratingUpdateTimeSeconds":1266588000,"oldRating":0,"newRating":1602},
 {"contestId":2,"contestName":"Codeforces Beta Round #2","handle":"tourist","rank":14,"ratingUpdateTimeSeconds":1267124400,"oldRating":1602,"newRating":1764}]}`

	codeforcesUnratedInfo = `{"status":"OK","result":[{"handle":"newbie","contribution":0}]}`
	codeforcesEmpty       = `{"status":"OK","result":[]}`

	codeforcesNotFound = `{"status":"FAILED","comment":"handles: User with handle ghost not found"}`
)

// FakeCodeforces is an httptest server for the Codeforces REST API.
type FakeCodeforces struct {
	Server *httptest.Server

	mu       sync.Mutex
	calls    []string
	queries  []string
	failWith map[string]int
}

// NewFakeCodeforces starts a fake Codeforces API that is closed with the test.
func NewFakeCodeforces(t *testing.T) *FakeCodeforces {
	t.Helper()
	f := &FakeCodeforces{failWith: map[string]int{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL returns the API base, with trailing slash.
func (f *FakeCodeforces) BaseURL() string {
	return f.Server.URL + "/api/"
}

// FailWith makes every request for method answer with a bare HTTP status.
func (f *FakeCodeforces) FailWith(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith[method] = status
}

// Calls returns the API methods requested, in order.
func (f *FakeCodeforces) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Queries returns the raw query strings received, in order.
func (f *FakeCodeforces) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *FakeCodeforces) serve(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/api/")
	handle := r.URL.Query().Get("handle")
	if handle == "" {
		handle = r.URL.Query().Get("handles")
	}

	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.queries = append(f.queries, r.URL.RawQuery)
	status := f.failWith[method]
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "<html>busy</html>", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if handle == UnknownUser {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, codeforcesNotFound)
		return
	}

	if handle == UnratedCodeforcesUser {
		switch method {
		case "user.info":
			fmt.Fprint(w, codeforcesUnratedInfo)
		default:
			fmt.Fprint(w, codeforcesEmpty)
		}
		return
	}

	switch method {
	case "user.info":
		fmt.Fprint(w, CodeforcesUserInfo)
	case "user.status":
		fmt.Fprint(w, CodeforcesUserStatus)
	case "user.rating":
		fmt.Fprint(w, CodeforcesUserRating)
	default:
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"status":"FAILED","comment":"Method %s is not supported"}`, method)
	}
}
