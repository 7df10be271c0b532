package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileBody = `{
  "data": {
    "userContestRanking": {
      "attendedContestsCount": 12,
      "rating": 1834.5,
      "globalRanking": 40211,
      "totalParticipants": 600000,
      "topPercentage": 8.1
    },
    "userContestRankingHistory": [
      {"attended": true, "problemsSolved": 3, "totalProblems": 4, "finishTimeInSeconds": 3600, "ranking": 1200,
       "contest": {"title": "Weekly Contest 400", "startTime": 1717295400}}
    ],
    "matchedUser": {
      "username": "alice",
      "githubUrl": "https://github.com/alice",
      "twitterUrl": null,
      "linkedinUrl": null,
      "contestBadge": null,
      "profile": {
        "ranking": 52000,
        "userAvatar": "https://assets.leetcode.com/alice.png",
        "realName": "Alice",
        "aboutMe": "",
        "countryName": "India",
        "reputation": 40,
        "postViewCount": 100,
        "solutionCount": 3,
        "categoryDiscussCount": 1
      },
      "languageProblemCount": [
        {"languageName": "Python3", "problemsSolved": 120},
        {"languageName": "Python", "problemsSolved": 5},
        {"languageName": "C++", "problemsSolved": 60}
      ],
      "submitStatsGlobal": {
        "acSubmissionNum": [
          {"difficulty": "All", "count": 300, "submissions": 450},
          {"difficulty": "Easy", "count": 150, "submissions": 200},
          {"difficulty": "Medium", "count": 120, "submissions": 200},
          {"difficulty": "Hard", "count": 30, "submissions": 50}
        ],
        "totalSubmissionNum": [
          {"difficulty": "All", "count": 320, "submissions": 900}
        ]
      },
      "badges": [
        {"id": "1", "name": "Annual Badge", "displayName": "365 Days", "icon": "i.png", "category": "ANNUAL",
         "medal": {"slug": "365", "config": {"iconGif": "g.gif"}}}
      ],
      "upcomingBadges": [{"name": "Jun LeetCoding Challenge", "icon": "x", "progress": 35}],
      "userCalendar": {"streak": 9, "totalActiveDays": 210},
      "tagProblemCounts": {
        "advanced": [{"tagName": "Dynamic Programming", "problemsSolved": 40}],
        "intermediate": [],
        "fundamental": [{"tagName": "Array", "problemsSolved": 150}]
      }
    }
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 2*time.Second)
	c.now = func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchUser(t *testing.T) {
	var got graphQLRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(profileBody))
	})

	snap, err := c.FetchUser(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", got.Variables["username"])
	assert.EqualValues(t, 2024, got.Variables["year"])
	assert.Contains(t, got.Query, "matchedUser")

	assert.Equal(t, "alice", snap.Username)
	assert.Equal(t, 52000, snap.Ranking)
	assert.Equal(t, 300, snap.ProblemCount)
	assert.Equal(t, 150, snap.ProblemStats.Easy)
	assert.Equal(t, 120, snap.ProblemStats.Medium)
	assert.Equal(t, 30, snap.ProblemStats.Hard)
	assert.InDelta(t, 50.0, snap.AcceptanceRate, 1e-9)
	assert.Equal(t, 1834.5, snap.ContestRating)
	assert.Equal(t, 12, snap.TotalContestsParticipated)
	require.NotNil(t, snap.GlobalRanking)
	assert.Equal(t, 40211, *snap.GlobalRanking)
	assert.Equal(t, 9, snap.CurrentStreak)
	assert.Equal(t, 210, snap.TotalActiveDays)
	assert.Equal(t, 35, snap.MonthlyProgress)
	require.Len(t, snap.Badges, 1)
	assert.Equal(t, "g.gif", snap.Badges[0].MedalGif)
	require.Len(t, snap.ContestRankingHistory, 1)
	assert.Equal(t, "Weekly Contest 400", snap.ContestRankingHistory[0].ContestTitle)
	assert.Equal(t, "Array", snap.TagProblemCounts.Fundamental[0].TagName)
	assert.Empty(t, snap.TagProblemCounts.Intermediate)

	require.Len(t, snap.LanguageStats, 2)
	assert.Equal(t, "python", snap.LanguageStats[0].LanguageName)
	assert.Equal(t, 125, snap.LanguageStats[0].ProblemsSolved)
	assert.Equal(t, "cpp", snap.LanguageStats[1].LanguageName)
}

func TestFetchUserErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(*testing.T, error)
	}{
		{
			name: "matched user null",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":{"matchedUser":null,"userContestRanking":null,"userContestRankingHistory":null},
					"errors":[{"message":"That user does not exist."}]}`))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUserNotFound)
				assert.False(t, IsUpstream(err))
			},
		},
		{
			name: "http failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "slow down", http.StatusTooManyRequests)
			},
			check: func(t *testing.T, err error) {
				var ue *UpstreamError
				require.True(t, errors.As(err, &ue))
				assert.Equal(t, http.StatusTooManyRequests, ue.StatusCode)
				assert.Contains(t, err.Error(), "slow down")
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsUpstream(err))
			},
		},
		{
			name: "errors without data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"bad query"}]}`))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsUpstream(err))
				assert.Contains(t, err.Error(), "bad query")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			snap, err := c.FetchUser(context.Background(), "ghost")
			assert.Nil(t, snap)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetchUserTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchUser(context.Background(), "alice")
	assert.True(t, IsUpstream(err))
}

func TestFetchDailyQuestion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"activeDailyCodingChallengeQuestion":{"date":"2024-06-10","link":"/problems/two-sum/",
			"question":{"title":"Two Sum","titleSlug":"two-sum"}}}}`))
	})
	q, err := c.FetchDailyQuestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", q.Title)
	assert.Equal(t, "https://leetcode.com/problems/two-sum/", q.Link)
	assert.Equal(t, "2024-06-10", q.Date)
}

func TestFetchUserProgress(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
		err  error
	}{
		{"first badge", `{"data":{"matchedUser":{"upcomingBadges":[{"progress":42},{"progress":7}]}}}`, 42, nil},
		{"no badges", `{"data":{"matchedUser":{"upcomingBadges":[]}}}`, 0, nil},
		{"unknown user", `{"data":{"matchedUser":null}}`, 0, ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			got, err := c.FetchUserProgress(context.Background(), "alice")
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchRecentSubmissions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, DefaultSubmissionLimit, req.Variables["limit"])
		assert.True(t, strings.Contains(req.Query, "recentAcSubmissionList"))
		_, _ = w.Write([]byte(`{"data":{"recentAcSubmissionList":[
			{"id":"111","title":"Two Sum","titleSlug":"two-sum","timestamp":"1718000000"}]}}`))
	})
	subs, err := c.FetchRecentSubmissions(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "111", subs[0].ID)
	assert.Equal(t, "1718000000", subs[0].Timestamp)
}
