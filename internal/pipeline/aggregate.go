package pipeline

import (
	"sort"

	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/pkg/utils"
)

// Aggregate folds a classified batch into the summary, staff, daily,
// and monthly views. Pure function: recomputed from scratch every run,
// never touches the history store.
func Aggregate(records []model.ClassifiedRecord) model.AggregationResult {
	var result model.AggregationResult

	result.Summary = summarize(records)
	result.Staff, result.AutoAssigned = staffRollup(records)
	result.Daily = dailyRollup(records)
	result.Monthly = monthlyRollup(records)

	return result
}

func summarize(records []model.ClassifiedRecord) model.Summary {
	s := model.Summary{TotalApplications: len(records)}
	for _, rec := range records {
		if rec.Completed {
			s.CompletedVisits++
		}
		if rec.Status == model.StatusCancelled {
			s.Cancellations++
		}
	}
	s.CompletionRate = utils.Rate(s.CompletedVisits, s.TotalApplications)
	return s
}

// staffRollup groups by resolved staff name. Auto-assigned records are
// excluded from per-staff attribution and collected in their own
// bucket. Rows sort by completions descending, staff name ascending
// for determinism.
func staffRollup(records []model.ClassifiedRecord) ([]model.StaffStat, model.StaffStat) {
	byStaff := make(map[string]*model.StaffStat)
	auto := model.StaffStat{Staff: model.AutoAssignBucket}

	for _, rec := range records {
		if rec.IsAutoAssigned {
			auto.Applications++
			if rec.Completed {
				auto.Completions++
			}
			continue
		}
		name := rec.StaffLabel
		if name == "" {
			name = "(unassigned)"
		}
		stat, ok := byStaff[name]
		if !ok {
			stat = &model.StaffStat{Staff: name}
			byStaff[name] = stat
		}
		stat.Applications++
		if rec.Completed {
			stat.Completions++
		}
	}

	stats := make([]model.StaffStat, 0, len(byStaff))
	for _, stat := range byStaff {
		stat.CompletionRate = utils.Rate(stat.Completions, stat.Applications)
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Completions != stats[j].Completions {
			return stats[i].Completions > stats[j].Completions
		}
		return stats[i].Staff < stats[j].Staff
	})

	auto.CompletionRate = utils.Rate(auto.Completions, auto.Applications)
	return stats, auto
}

func dailyRollup(records []model.ClassifiedRecord) []model.DailyStat {
	byDate := make(map[string]*model.DailyStat)
	for _, rec := range records {
		key := rec.Date.Format("2006-01-02")
		stat, ok := byDate[key]
		if !ok {
			stat = &model.DailyStat{Date: key}
			byDate[key] = stat
		}
		stat.Applications++
		if rec.Completed {
			stat.Completions++
		}
		if rec.Status == model.StatusCancelled {
			stat.Cancellations++
		}
	}

	stats := make([]model.DailyStat, 0, len(byDate))
	for _, stat := range byDate {
		stat.CompletionRate = utils.Rate(stat.Completions, stat.Applications)
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats
}

func monthlyRollup(records []model.ClassifiedRecord) []model.MonthlyStat {
	byMonth := make(map[string]*model.MonthlyStat)
	for _, rec := range records {
		key := rec.Date.Format("2006-01")
		stat, ok := byMonth[key]
		if !ok {
			stat = &model.MonthlyStat{Month: key}
			byMonth[key] = stat
		}
		stat.Applications++
		if rec.Completed {
			stat.Completions++
		}
		if rec.Status == model.StatusCancelled {
			stat.Cancellations++
		}
	}

	stats := make([]model.MonthlyStat, 0, len(byMonth))
	for _, stat := range byMonth {
		stat.CompletionRate = utils.Rate(stat.Completions, stat.Applications)
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })

	for i := 1; i < len(stats); i++ {
		delta := stats[i].CompletionRate - stats[i-1].CompletionRate
		stats[i].RateChange = &delta
	}
	return stats
}
