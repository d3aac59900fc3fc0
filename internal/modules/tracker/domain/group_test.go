package domain_test

import (
	"testing"
	"time"

	"tasktrail/internal/modules/tracker/domain"
)

func TestGroupByTaskAggregatesAndOrders(t *testing.T) {
	t.Parallel()
	sessions := []domain.TaskSession{
		sessionOf("Refactor", base, 30, 0.9, 6*time.Minute),
		sessionOf("Email", base.Add(time.Hour), 10, 0.4),
		sessionOf("Refactor", base.Add(2*time.Hour), 20, 0.6),
		sessionOf("Refactor", base.Add(3*time.Hour), 10, 0.3),
	}
	sessions[3].Category = domain.CategoryDocumentation

	groups := domain.GroupByTask(sessions)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	refactor := groups[0]
	if refactor.TaskName != "Refactor" || refactor.SessionCount != 3 {
		t.Fatalf("unexpected first group: %+v", refactor)
	}
	if refactor.TotalMinutes != 60 || refactor.ActiveMinutes != 54 {
		t.Fatalf("unexpected minutes: %+v", refactor)
	}
	if refactor.AverageConfidence != 0.6 {
		t.Fatalf("expected mean confidence 0.6, got %f", refactor.AverageConfidence)
	}
	if refactor.Category != domain.CategoryDocumentation {
		t.Fatalf("category should be the last seen, got %s", refactor.Category)
	}
	if !refactor.FirstSeen.Equal(base) || !refactor.LastSeen.Equal(base.Add(3*time.Hour+10*time.Minute)) {
		t.Fatalf("unexpected first/last seen: %s %s", refactor.FirstSeen, refactor.LastSeen)
	}
	if groups[1].TaskName != "Email" || groups[1].TotalMinutes != 10 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}

func TestGroupByTaskMeanIsOrderIndependent(t *testing.T) {
	t.Parallel()
	a := []domain.TaskSession{
		sessionOf("Task", base, 5, 0.2),
		sessionOf("Task", base.Add(time.Hour), 5, 0.5),
		sessionOf("Task", base.Add(2*time.Hour), 5, 0.95),
	}
	b := []domain.TaskSession{a[2], a[0], a[1]}
	ga, gb := domain.GroupByTask(a), domain.GroupByTask(b)
	if ga[0].AverageConfidence != gb[0].AverageConfidence || ga[0].AverageConfidence != 0.55 {
		t.Fatalf("expected 0.55 regardless of order, got %f and %f", ga[0].AverageConfidence, gb[0].AverageConfidence)
	}
	if !ga[0].FirstSeen.Equal(gb[0].FirstSeen) || !ga[0].LastSeen.Equal(gb[0].LastSeen) {
		t.Fatalf("first/last seen must not depend on order")
	}
}

func TestGroupByTaskEmpty(t *testing.T) {
	t.Parallel()
	if groups := domain.GroupByTask(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %+v", groups)
	}
}

func TestGroupByCategory(t *testing.T) {
	t.Parallel()
	sessions := []domain.TaskSession{
		sessionOf("Refactor", base, 30, 0.9),
		sessionOf("Email", base.Add(time.Hour), 10, 0.4),
	}
	sessions[1].Category = ""
	totals := domain.GroupByCategory(sessions)
	if len(totals) != 2 || totals[0].Category != domain.CategoryCoding || totals[1].Category != domain.CategoryOther {
		t.Fatalf("unexpected category totals: %+v", totals)
	}
	if totals[0].TotalMinutes != 30 || totals[1].SessionCount != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}
