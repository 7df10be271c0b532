package leetcode

import "encoding/json"

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// DailyQuestion is the platform's problem of the day.
type DailyQuestion struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Link      string `json:"link"`
}

// Submission is one recent accepted submission. Timestamp is epoch seconds
// as the platform sends it.
type Submission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Timestamp string `json:"timestamp"`
}

type submissionCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type tagCount struct {
	TagName        string `json:"tagName"`
	ProblemsSolved int    `json:"problemsSolved"`
}

type profileData struct {
	UserContestRanking *struct {
		AttendedContestsCount int     `json:"attendedContestsCount"`
		Rating                float64 `json:"rating"`
		GlobalRanking         *int    `json:"globalRanking"`
		TotalParticipants     int     `json:"totalParticipants"`
		TopPercentage         float64 `json:"topPercentage"`
	} `json:"userContestRanking"`
	UserContestRankingHistory []struct {
		Attended            bool `json:"attended"`
		ProblemsSolved      int  `json:"problemsSolved"`
		TotalProblems       int  `json:"totalProblems"`
		FinishTimeInSeconds int  `json:"finishTimeInSeconds"`
		Ranking             int  `json:"ranking"`
		Contest             struct {
			Title     string `json:"title"`
			StartTime int64  `json:"startTime"`
		} `json:"contest"`
	} `json:"userContestRankingHistory"`
	MatchedUser *matchedUser `json:"matchedUser"`
}

type matchedUser struct {
	Username     string `json:"username"`
	GithubURL    string `json:"githubUrl"`
	TwitterURL   string `json:"twitterUrl"`
	LinkedinURL  string `json:"linkedinUrl"`
	ContestBadge *struct {
		Name    string `json:"name"`
		Expired bool   `json:"expired"`
		Icon    string `json:"icon"`
	} `json:"contestBadge"`
	Profile struct {
		Ranking              int    `json:"ranking"`
		UserAvatar           string `json:"userAvatar"`
		RealName             string `json:"realName"`
		AboutMe              string `json:"aboutMe"`
		CountryName          string `json:"countryName"`
		Reputation           int    `json:"reputation"`
		PostViewCount        int    `json:"postViewCount"`
		SolutionCount        int    `json:"solutionCount"`
		CategoryDiscussCount int    `json:"categoryDiscussCount"`
	} `json:"profile"`
	LanguageProblemCount []struct {
		LanguageName   string `json:"languageName"`
		ProblemsSolved int    `json:"problemsSolved"`
	} `json:"languageProblemCount"`
	SubmitStatsGlobal struct {
		AcSubmissionNum    []submissionCount `json:"acSubmissionNum"`
		TotalSubmissionNum []submissionCount `json:"totalSubmissionNum"`
	} `json:"submitStatsGlobal"`
	Badges []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Icon        string `json:"icon"`
		Category    string `json:"category"`
		Medal       *struct {
			Slug   string `json:"slug"`
			Config struct {
				IconGif string `json:"iconGif"`
			} `json:"config"`
		} `json:"medal"`
	} `json:"badges"`
	UpcomingBadges []struct {
		Name     string `json:"name"`
		Icon     string `json:"icon"`
		Progress int    `json:"progress"`
	} `json:"upcomingBadges"`
	UserCalendar *struct {
		Streak          int `json:"streak"`
		TotalActiveDays int `json:"totalActiveDays"`
	} `json:"userCalendar"`
	TagProblemCounts struct {
		Advanced     []tagCount `json:"advanced"`
		Intermediate []tagCount `json:"intermediate"`
		Fundamental  []tagCount `json:"fundamental"`
	} `json:"tagProblemCounts"`
}

type dailyData struct {
	Active *struct {
		Date     string `json:"date"`
		Link     string `json:"link"`
		Question struct {
			Title     string `json:"title"`
			TitleSlug string `json:"titleSlug"`
		} `json:"question"`
	} `json:"activeDailyCodingChallengeQuestion"`
}

type progressData struct {
	MatchedUser *struct {
		UpcomingBadges []struct {
			Progress int `json:"progress"`
		} `json:"upcomingBadges"`
	} `json:"matchedUser"`
}

type submissionsData struct {
	RecentAcSubmissionList []Submission `json:"recentAcSubmissionList"`
}
