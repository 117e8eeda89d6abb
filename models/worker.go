package models

// Worker is a staff identity that can be assigned issues and mark them
// resolved. Workers log in with their phone number only.
type Worker struct {
	ID         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	Department string `bson:"department" json:"department"`
}

// WorkerStats is a leaderboard row: the worker plus counters computed
// from the issue collection.
type WorkerStats struct {
	Worker
	ActiveIssues  int `json:"activeIssues"`
	ResolvedToday int `json:"resolvedToday"`
}
