// Package leetcode talks to the public LeetCode GraphQL endpoint and maps its
// responses into model.Snapshot and friends. Nothing here retries.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"leetcoders/model"
	"leetcoders/utils"

	"github.com/pkg/errors"
)

const (
	DefaultEndpoint = "https://leetcode.com/graphql"
	siteURL         = "https://leetcode.com"

	// DefaultSubmissionLimit is how many recent accepted submissions the
	// daily tracker inspects per user.
	DefaultSubmissionLimit = 5
)

type Client struct {
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// FetchUser pulls the full profile snapshot for username.
func (c *Client) FetchUser(ctx context.Context, username string) (*model.Snapshot, error) {
	var data profileData
	vars := map[string]any{"username": username, "year": c.now().UTC().Year()}
	if err := c.do(ctx, "fetch user", userProfileQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.MatchedUser == nil {
		return nil, ErrUserNotFound
	}
	return toSnapshot(&data), nil
}

func (c *Client) FetchDailyQuestion(ctx context.Context) (*DailyQuestion, error) {
	var data dailyData
	if err := c.do(ctx, "fetch daily question", dailyQuestionQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Active == nil {
		return nil, &UpstreamError{Op: "fetch daily question", Err: errors.New("no active daily question")}
	}
	return &DailyQuestion{
		Date:      data.Active.Date,
		Title:     data.Active.Question.Title,
		TitleSlug: data.Active.Question.TitleSlug,
		Link:      siteURL + data.Active.Link,
	}, nil
}

// FetchUserProgress returns the progress of the user's first upcoming badge,
// or 0 when there is none.
func (c *Client) FetchUserProgress(ctx context.Context, username string) (int, error) {
	var data progressData
	if err := c.do(ctx, "fetch user progress", userProgressQuery, map[string]any{"username": username}, &data); err != nil {
		return 0, err
	}
	if data.MatchedUser == nil {
		return 0, ErrUserNotFound
	}
	if len(data.MatchedUser.UpcomingBadges) == 0 {
		return 0, nil
	}
	return data.MatchedUser.UpcomingBadges[0].Progress, nil
}

func (c *Client) FetchRecentSubmissions(ctx context.Context, username string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = DefaultSubmissionLimit
	}
	var data submissionsData
	vars := map[string]any{"username": username, "limit": limit}
	if err := c.do(ctx, "fetch recent submissions", recentSubmissionsQuery, vars, &data); err != nil {
		return nil, err
	}
	return data.RecentAcSubmissionList, nil
}

func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return &UpstreamError{Op: op, Err: errors.Wrap(err, "encode request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &UpstreamError{Op: op, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", siteURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: errors.Wrap(err, "post graphql")}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: errors.Errorf("unexpected response: %s", strings.TrimSpace(string(snippet)))}
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &UpstreamError{Op: op, Err: errors.Wrap(err, "decode response")}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		msg := "empty data"
		if len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Message
		}
		return &UpstreamError{Op: op, Err: errors.New(msg)}
	}
	// matchedUser comes back null alongside an error entry for unknown users,
	// so partial data wins over the errors list.
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &UpstreamError{Op: op, Err: errors.Wrap(err, "decode data")}
	}
	return nil
}

func toSnapshot(data *profileData) *model.Snapshot {
	u := data.MatchedUser
	s := &model.Snapshot{
		Username:             u.Username,
		ProfileImage:         u.Profile.UserAvatar,
		Reputation:           u.Profile.Reputation,
		Ranking:              u.Profile.Ranking,
		Country:              u.Profile.CountryName,
		AboutMe:              u.Profile.AboutMe,
		GithubURL:            u.GithubURL,
		TwitterURL:           u.TwitterURL,
		LinkedinURL:          u.LinkedinURL,
		PostViewCount:        u.Profile.PostViewCount,
		SolutionCount:        u.Profile.SolutionCount,
		CategoryDiscussCount: u.Profile.CategoryDiscussCount,
		Badges:               []model.Badge{},
		LanguageStats:        []model.LanguageStat{},
	}

	if u.ContestBadge != nil {
		s.ContestBadge = &model.ContestBadge{Name: u.ContestBadge.Name, Expired: u.ContestBadge.Expired, Icon: u.ContestBadge.Icon}
	}

	for _, b := range u.Badges {
		badge := model.Badge{ID: b.ID, Name: b.Name, DisplayName: b.DisplayName, Icon: b.Icon, Category: b.Category}
		if b.Medal != nil {
			badge.MedalSlug = b.Medal.Slug
			badge.MedalGif = b.Medal.Config.IconGif
		}
		s.Badges = append(s.Badges, badge)
	}

	// Python and Python3 both land on "python"; their counts are merged.
	langIndex := map[string]int{}
	for _, l := range u.LanguageProblemCount {
		name := utils.NormalizeLanguage(l.LanguageName)
		if i, ok := langIndex[name]; ok {
			s.LanguageStats[i].ProblemsSolved += l.ProblemsSolved
			continue
		}
		langIndex[name] = len(s.LanguageStats)
		s.LanguageStats = append(s.LanguageStats, model.LanguageStat{LanguageName: name, ProblemsSolved: l.ProblemsSolved})
	}

	var acAll, totalAll submissionCount
	for _, c := range u.SubmitStatsGlobal.AcSubmissionNum {
		switch c.Difficulty {
		case "Easy":
			s.ProblemStats.Easy = c.Count
		case "Medium":
			s.ProblemStats.Medium = c.Count
		case "Hard":
			s.ProblemStats.Hard = c.Count
		case "All":
			acAll = c
		}
	}
	for _, c := range u.SubmitStatsGlobal.TotalSubmissionNum {
		if c.Difficulty == "All" {
			totalAll = c
		}
	}
	s.ProblemCount = acAll.Count
	if totalAll.Submissions > 0 {
		s.AcceptanceRate = float64(acAll.Submissions) / float64(totalAll.Submissions) * 100
	}

	if len(u.UpcomingBadges) > 0 {
		s.MonthlyProgress = u.UpcomingBadges[0].Progress
	}
	if u.UserCalendar != nil {
		s.CurrentStreak = u.UserCalendar.Streak
		s.TotalActiveDays = u.UserCalendar.TotalActiveDays
	}

	s.TagProblemCounts = model.TagProblemCounts{
		Advanced:     toTagCounts(u.TagProblemCounts.Advanced),
		Intermediate: toTagCounts(u.TagProblemCounts.Intermediate),
		Fundamental:  toTagCounts(u.TagProblemCounts.Fundamental),
	}

	if r := data.UserContestRanking; r != nil {
		s.ContestRating = r.Rating
		s.TotalContestsParticipated = r.AttendedContestsCount
		s.GlobalRanking = r.GlobalRanking
		s.TotalParticipants = r.TotalParticipants
		s.TopPercentage = r.TopPercentage
	}

	s.ContestRankingHistory = make([]model.ContestHistory, 0, len(data.UserContestRankingHistory))
	for _, h := range data.UserContestRankingHistory {
		s.ContestRankingHistory = append(s.ContestRankingHistory, model.ContestHistory{
			Attended:            h.Attended,
			ProblemsSolved:      h.ProblemsSolved,
			TotalProblems:       h.TotalProblems,
			FinishTimeInSeconds: h.FinishTimeInSeconds,
			Ranking:             h.Ranking,
			ContestTitle:        h.Contest.Title,
			StartTime:           h.Contest.StartTime,
		})
	}
	return s
}

func toTagCounts(in []tagCount) []model.TagCount {
	out := make([]model.TagCount, 0, len(in))
	for _, t := range in {
		out = append(out, model.TagCount{TagName: t.TagName, ProblemsSolved: t.ProblemsSolved})
	}
	return out
}
