package leetcode

const userProfileQuery = `
query userProfile($username: String!, $year: Int) {
  userContestRanking(username: $username) {
    attendedContestsCount
    rating
    globalRanking
    totalParticipants
    topPercentage
  }
  userContestRankingHistory(username: $username) {
    attended
    problemsSolved
    totalProblems
    finishTimeInSeconds
    ranking
    contest { title startTime }
  }
  matchedUser(username: $username) {
    username
    githubUrl
    twitterUrl
    linkedinUrl
    contestBadge { name expired icon }
    profile {
      ranking
      userAvatar
      realName
      aboutMe
      countryName
      reputation
      postViewCount
      solutionCount
      categoryDiscussCount
    }
    languageProblemCount { languageName problemsSolved }
    submitStatsGlobal {
      acSubmissionNum { difficulty count submissions }
      totalSubmissionNum { difficulty count submissions }
    }
    badges {
      id
      name
      displayName
      icon
      category
      medal { slug config { iconGif } }
    }
    upcomingBadges { name icon progress }
    userCalendar(year: $year) { streak totalActiveDays }
    tagProblemCounts {
      advanced { tagName problemsSolved }
      intermediate { tagName problemsSolved }
      fundamental { tagName problemsSolved }
    }
  }
}`

const dailyQuestionQuery = `
query questionOfToday {
  activeDailyCodingChallengeQuestion {
    date
    link
    question { title titleSlug }
  }
}`

const userProgressQuery = `
query userBadges($username: String!) {
  matchedUser(username: $username) {
    upcomingBadges { progress }
  }
}`

const recentSubmissionsQuery = `
query recentAcSubmissions($username: String!, $limit: Int!) {
  recentAcSubmissionList(username: $username, limit: $limit) {
    id
    title
    titleSlug
    timestamp
  }
}`
