package signal

import (
	"sort"
	"strconv"
)

// ValueGroup is one normalized value with its usage statistics.
type ValueGroup struct {
	Value         string   `json:"value"`
	Count         int      `json:"count"`
	DistinctFiles int      `json:"distinctFiles"`
	Locations     []string `json:"locations,omitempty"`
}

// Stats summarizes an aggregation run.
type Stats struct {
	TotalSignals   int          `json:"totalSignals"`
	DistinctValues int          `json:"distinctValues"`
	ByType         map[Type]int `json:"byType"`
}

// Aggregate groups signals by type, then by normalized value within each
// type. Value groups are ordered by descending occurrence count, ties
// broken by ascending value, so downstream token comparison is
// reproducible.
type Aggregate struct {
	ByType map[Type][]ValueGroup `json:"byType"`
	Stats  Stats                 `json:"stats"`
}

// Aggregated builds the aggregate view of a batch of raw signals. It runs
// after all signals for a scan batch are collected; it is a batch reducer,
// not a streaming one.
func Aggregated(signals []RawSignal) *Aggregate {
	type bucket struct {
		count     int
		files     map[string]struct{}
		locations []string
	}
	byType := make(map[Type]map[string]*bucket)

	for _, sig := range signals {
		values, ok := byType[sig.Type]
		if !ok {
			values = make(map[string]*bucket)
			byType[sig.Type] = values
		}
		b, ok := values[sig.Value]
		if !ok {
			b = &bucket{files: make(map[string]struct{})}
			values[sig.Value] = b
		}
		b.count++
		b.files[sig.Context.File] = struct{}{}
		b.locations = append(b.locations, location(sig.Context))
	}

	agg := &Aggregate{
		ByType: make(map[Type][]ValueGroup, len(byType)),
		Stats: Stats{
			TotalSignals: len(signals),
			ByType:       make(map[Type]int, len(byType)),
		},
	}
	for signalType, values := range byType {
		groups := make([]ValueGroup, 0, len(values))
		for value, b := range values {
			groups = append(groups, ValueGroup{
				Value:         value,
				Count:         b.count,
				DistinctFiles: len(b.files),
				Locations:     b.locations,
			})
		}
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Count != groups[j].Count {
				return groups[i].Count > groups[j].Count
			}
			return groups[i].Value < groups[j].Value
		})
		agg.ByType[signalType] = groups
		agg.Stats.ByType[signalType] = len(groups)
		agg.Stats.DistinctValues += len(groups)
	}
	return agg
}

func location(ctx Context) string {
	return ctx.File + ":" + strconv.Itoa(ctx.Line)
}
