package domain

import (
	"sort"
	"time"
)

type TaskGroup struct {
	TaskName          string
	Category          string
	TotalMinutes      float64
	ActiveMinutes     float64
	SessionCount      int
	FirstSeen         time.Time
	LastSeen          time.Time
	AverageConfidence float64
}

type CategoryTotal struct {
	Category      string
	TotalMinutes  float64
	ActiveMinutes float64
	SessionCount  int
}

// GroupByTask aggregates sessions per task name, largest total first.
func GroupByTask(sessions []TaskSession) []TaskGroup {
	groups := map[string]*TaskGroup{}
	order := make([]string, 0)
	for _, session := range sessions {
		group, ok := groups[session.TaskName]
		if !ok {
			group = &TaskGroup{
				TaskName:  session.TaskName,
				FirstSeen: session.StartTime,
				LastSeen:  session.EndTime,
			}
			groups[session.TaskName] = group
			order = append(order, session.TaskName)
		}
		group.Category = session.Category
		group.TotalMinutes += session.DurationMinutes()
		group.ActiveMinutes += session.ActiveMinutes()
		group.SessionCount++
		if session.StartTime.Before(group.FirstSeen) {
			group.FirstSeen = session.StartTime
		}
		if session.EndTime.After(group.LastSeen) {
			group.LastSeen = session.EndTime
		}
		// running mean
		group.AverageConfidence += (session.Confidence - group.AverageConfidence) / float64(group.SessionCount)
	}

	out := make([]TaskGroup, 0, len(order))
	for _, name := range order {
		group := *groups[name]
		group.TotalMinutes = round1(group.TotalMinutes)
		group.ActiveMinutes = round1(group.ActiveMinutes)
		group.AverageConfidence = round2(group.AverageConfidence)
		out = append(out, group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalMinutes != out[j].TotalMinutes {
			return out[i].TotalMinutes > out[j].TotalMinutes
		}
		return out[i].TaskName < out[j].TaskName
	})
	return out
}

func GroupByCategory(sessions []TaskSession) []CategoryTotal {
	totals := map[string]*CategoryTotal{}
	for _, session := range sessions {
		category := session.Category
		if category == "" {
			category = CategoryOther
		}
		total, ok := totals[category]
		if !ok {
			total = &CategoryTotal{Category: category}
			totals[category] = total
		}
		total.TotalMinutes += session.DurationMinutes()
		total.ActiveMinutes += session.ActiveMinutes()
		total.SessionCount++
	}
	out := make([]CategoryTotal, 0, len(totals))
	for _, total := range totals {
		item := *total
		item.TotalMinutes = round1(item.TotalMinutes)
		item.ActiveMinutes = round1(item.ActiveMinutes)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalMinutes != out[j].TotalMinutes {
			return out[i].TotalMinutes > out[j].TotalMinutes
		}
		return out[i].Category < out[j].Category
	})
	return out
}
