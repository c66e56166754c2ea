package domain

// Named relative-range filters understood by the expense list endpoint.
// FilterAll is the client-side default and is never sent on the wire.
const (
	FilterAll     = "all"
	FilterWeek    = "week"
	FilterMonth   = "month"
	Filter3Months = "3months"
)

// Filters lists the named filters in display order.
var Filters = []string{FilterAll, FilterWeek, FilterMonth, Filter3Months}
