package cache

import "strconv"

const RegionsListKey = "regions:list:v1"

// Invalidation deletes only the unfiltered default key; filtered
// variants age out on their own TTL within seconds.
const EventsListDefaultKey = "events:list:v1:type=:year=:limit=50:offset=0"

func BuildEventsListKey(eventType *string, year *int, limit, offset int) string {
	t := ""
	if eventType != nil {
		t = *eventType
	}

	y := ""
	if year != nil {
		y = strconv.Itoa(*year)
	}

	return "events:list:v1:type=" + t +
		":year=" + y +
		":limit=" + strconv.Itoa(limit) +
		":offset=" + strconv.Itoa(offset)
}
