package history

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
)

// MonthLayout formats a timestamp as the full month name followed by the year, e.g. "March 2021"
const MonthLayout = "January 2006"

// ErrUnknownEventKind signals an event that is neither an incident nor a maintenance
var ErrUnknownEventKind = errors.New("unknown event kind")

// MonthLabeler derives the month label of an updatedAt timestamp
type MonthLabeler func(updatedAt string) (string, error)

// MonthLabel parses an RFC3339 timestamp and formats it with MonthLayout in the provided location
func MonthLabel(location *time.Location) MonthLabeler {
	if location == nil {
		location = time.UTC
	}

	return func(updatedAt string) (string, error) {
		timestamp, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return "", err
		}

		return timestamp.In(location).Format(MonthLayout), nil
	}
}

// Group buckets the events by the month label of their updatedAt field. Buckets are returned in the order in
// which their first event was seen; the events of a bucket are sorted by updatedAt, most recent first
func Group(events []common.Event, monthLabelOf MonthLabeler) ([]common.MonthGroup, error) {
	if monthLabelOf == nil {
		return nil, errors.New("nil month labeler")
	}

	groups := make([]common.MonthGroup, 0)
	indexes := make(map[string]int)
	for _, event := range events {
		if event.Kind != common.IncidentEvent && event.Kind != common.MaintenanceEvent {
			return nil, fmt.Errorf("%w: %q for event %s", ErrUnknownEventKind, string(event.Kind), event.ID)
		}

		month, err := monthLabelOf(event.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w while computing the month of %s %s", err, event.Kind, event.ID)
		}

		idx, found := indexes[month]
		if !found {
			idx = len(groups)
			indexes[month] = idx
			groups = append(groups, common.MonthGroup{Month: month})
		}
		groups[idx].Events = append(groups[idx].Events, event)
	}

	for _, group := range groups {
		sortDescending(group.Events)
	}

	return groups, nil
}

func sortDescending(events []common.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].UpdatedAt > events[j].UpdatedAt
	})
}
