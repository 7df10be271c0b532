package model

// CompletedUser is a tracked user whose accepted submission matched the daily problem.
type CompletedUser struct {
	Username            string `bson:"username" json:"username"`
	SubmissionID        string `bson:"submissionId" json:"submissionId"`
	SubmissionTimestamp string `bson:"submissionTimestamp" json:"submissionTimestamp"`
}

// DailyChallenge is keyed by its YYYY-MM-DD date. UnsolvedUsers and the
// usernames in CompletedUsers are kept disjoint.
type DailyChallenge struct {
	Date           string          `bson:"date" json:"date"`
	Title          string          `bson:"title" json:"title"`
	Link           string          `bson:"link" json:"link"`
	UnsolvedUsers  []string        `bson:"unsolvedUsers" json:"unsolvedUsers"`
	CompletedUsers []CompletedUser `bson:"completedUsers" json:"completedUsers"`
}

// IsUnsolved reports whether username is still being tracked for the day.
func (d *DailyChallenge) IsUnsolved(username string) bool {
	for _, u := range d.UnsolvedUsers {
		if u == username {
			return true
		}
	}
	return false
}
