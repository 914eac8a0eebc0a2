package activity

import (
	"sort"
	"strings"

	"activitylog/internal/model"
)

const (
	unknownMonthKey   = "unknown"
	unknownMonthLabel = "Unknown"
)

// GroupByMonth builds the outline: events grouped by (year, month) and
// then by exact date string. Months are ordered most recent first with
// the Unknown group (unparseable or missing dates) after every dated
// month; dates inside a month are ordered most recent first and events
// sharing a date keep their input order.
func GroupByMonth(events []model.Event, seasons SeasonScheme) []model.MonthGroup {
	type month struct {
		group model.MonthGroup
		dates map[string]int
	}
	byKey := make(map[string]*month)
	var keys []string

	for _, ev := range events {
		key, label := unknownMonthKey, unknownMonthLabel
		if ev.HasDate() {
			key = ev.Day.Format("2006-01")
			label = ev.Day.Format("January 2006")
		}
		m, ok := byKey[key]
		if !ok {
			m = &month{
				group: model.MonthGroup{
					Key:    key,
					Label:  label,
					Season: seasons.ForDay(ev.Day).Tag,
				},
				dates: make(map[string]int),
			}
			byKey[key] = m
			keys = append(keys, key)
		}

		dateKey := strings.TrimSpace(ev.Date)
		if dateKey == "" {
			dateKey = unknownMonthKey
		}
		idx, ok := m.dates[dateKey]
		if !ok {
			idx = len(m.group.Dates)
			m.dates[dateKey] = idx
			m.group.Dates = append(m.group.Dates, model.DateGroup{Date: dateKey})
		}
		m.group.Dates[idx].Events = append(m.group.Dates[idx].Events, ev)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a == unknownMonthKey || b == unknownMonthKey {
			return b == unknownMonthKey && a != unknownMonthKey
		}
		return a > b
	})

	out := make([]model.MonthGroup, 0, len(keys))
	for _, k := range keys {
		g := byKey[k].group
		sort.SliceStable(g.Dates, func(i, j int) bool {
			di, dj := g.Dates[i].Events[0].Day, g.Dates[j].Events[0].Day
			if !di.Equal(dj) {
				return di.After(dj)
			}
			return g.Dates[i].Date > g.Dates[j].Date
		})
		out = append(out, g)
	}
	return out
}
