package model

type GenericResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	ErrorType string `json:"errorType"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

// Snapshot is the normalized bundle of public LeetCode statistics for one user
// at one point in time. Missing upstream fields stay at their zero value.
type Snapshot struct {
	Username                  string           `bson:"username" json:"username"`
	ProfileImage              string           `bson:"profileImage" json:"profileImage"`
	Reputation                int              `bson:"reputation" json:"reputation"`
	Ranking                   int              `bson:"ranking" json:"ranking"`
	Country                   string           `bson:"country" json:"country"`
	AboutMe                   string           `bson:"aboutMe" json:"aboutMe"`
	GithubURL                 string           `bson:"githubUrl" json:"githubUrl"`
	TwitterURL                string           `bson:"twitterUrl" json:"twitterUrl"`
	LinkedinURL               string           `bson:"linkedinUrl" json:"linkedinUrl"`
	Badges                    []Badge          `bson:"badges" json:"badges"`
	ContestBadge              *ContestBadge    `bson:"contestBadge,omitempty" json:"contestBadge,omitempty"`
	ProblemStats              ProblemStats     `bson:"problemStats" json:"problemStats"`
	ProblemCount              int              `bson:"problemCount" json:"problemCount"`
	AcceptanceRate            float64          `bson:"acceptanceRate" json:"acceptanceRate"`
	LanguageStats             []LanguageStat   `bson:"languageStats" json:"languageStats"`
	PostViewCount             int              `bson:"postViewCount" json:"postViewCount"`
	SolutionCount             int              `bson:"solutionCount" json:"solutionCount"`
	CategoryDiscussCount      int              `bson:"categoryDiscussCount" json:"categoryDiscussCount"`
	ContestRating             float64          `bson:"contestRating" json:"contestRating"`
	TotalContestsParticipated int              `bson:"totalContestsParticipated" json:"totalContestsParticipated"`
	GlobalRanking             *int             `bson:"globalRanking" json:"globalRanking"`
	TotalParticipants         int              `bson:"totalParticipants" json:"totalParticipants"`
	TopPercentage             float64          `bson:"topPercentage" json:"topPercentage"`
	ContestRankingHistory     []ContestHistory `bson:"contestRankingHistory" json:"contestRankingHistory"`
	MonthlyProgress           int              `bson:"monthlyProgress" json:"monthlyProgress"`
	CurrentStreak             int              `bson:"currentStreak" json:"currentStreak"`
	TotalActiveDays           int              `bson:"totalActiveDays" json:"totalActiveDays"`
	TagProblemCounts          TagProblemCounts `bson:"tagProblemCounts" json:"tagProblemCounts"`
}

type ProblemStats struct {
	Easy   int `bson:"easy" json:"easy"`
	Medium int `bson:"medium" json:"medium"`
	Hard   int `bson:"hard" json:"hard"`
}

type LanguageStat struct {
	LanguageName   string `bson:"languageName" json:"languageName"`
	ProblemsSolved int    `bson:"problemsSolved" json:"problemsSolved"`
}

type Badge struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	DisplayName string `bson:"displayName" json:"displayName"`
	Icon        string `bson:"icon" json:"icon"`
	MedalSlug   string `bson:"medalSlug,omitempty" json:"medalSlug,omitempty"`
	MedalGif    string `bson:"medalGif,omitempty" json:"medalGif,omitempty"`
	Category    string `bson:"category" json:"category"`
}

type ContestBadge struct {
	Name    string `bson:"name" json:"name"`
	Expired bool   `bson:"expired" json:"expired"`
	Icon    string `bson:"icon" json:"icon"`
}

type ContestHistory struct {
	Attended            bool   `bson:"attended" json:"attended"`
	ProblemsSolved      int    `bson:"problemsSolved" json:"problemsSolved"`
	TotalProblems       int    `bson:"totalProblems" json:"totalProblems"`
	FinishTimeInSeconds int    `bson:"finishTimeInSeconds" json:"finishTimeInSeconds"`
	Ranking             int    `bson:"ranking" json:"ranking"`
	ContestTitle        string `bson:"contestTitle" json:"contestTitle"`
	StartTime           int64  `bson:"startTime" json:"startTime"`
}

type TagCount struct {
	TagName        string `bson:"tagName" json:"tagName"`
	ProblemsSolved int    `bson:"problemsSolved" json:"problemsSolved"`
}

type TagProblemCounts struct {
	Advanced     []TagCount `bson:"advanced" json:"advanced"`
	Intermediate []TagCount `bson:"intermediate" json:"intermediate"`
	Fundamental  []TagCount `bson:"fundamental" json:"fundamental"`
}
