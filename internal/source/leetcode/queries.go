package leetcode

const overallStatsQuery = `
query userProblemsSolved($username: String!) {
  matchedUser(username: $username) {
    submitStatsGlobal {
      acSubmissionNum { difficulty count submissions }
      totalSubmissionNum { difficulty count submissions }
    }
  }
}`

const recentAcceptedQuery = `
query recentAcSubmissions($username: String!, $limit: Int!) {
  recentAcSubmissionList(username: $username, limit: $limit) {
    id
    title
    titleSlug
    timestamp
    lang
  }
}`

const questionQuery = `
query questionData($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    difficulty
    topicTags { name }
  }
}`

const contestHistoryQuery = `
query userContestRankingHistory($username: String!) {
  userContestRankingHistory(username: $username) {
    contest { title }
    ranking
    rating
    attended
    trendDirection
    problemsSolved
  }
}`
