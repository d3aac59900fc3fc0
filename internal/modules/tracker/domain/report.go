package domain

import "time"

// DailyReport bundles everything rendered into one day's report note.
type DailyReport struct {
	Day        time.Time
	Summary    DailySummary
	Tasks      []TaskGroup
	Categories []CategoryTotal
	Sessions   []TaskSession
}

func NewDailyReport(day time.Time, sessions []TaskSession) DailyReport {
	return DailyReport{
		Day:        day,
		Summary:    SummarizeDay(sessions),
		Tasks:      GroupByTask(sessions),
		Categories: GroupByCategory(sessions),
		Sessions:   sessions,
	}
}
