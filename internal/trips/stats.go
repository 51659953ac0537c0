package trips

import "fmt"

const secondsPerHour = 3600

// TimeStats holds the most frequent times of travel.
type TimeStats struct {
	Month   string `json:"month"`
	Weekday string `json:"weekday"`
	Hour    int    `json:"hour"`
}

// StationStats holds the most popular stations and route.
type StationStats struct {
	StartStation string `json:"start_station"`
	EndStation   string `json:"end_station"`
	Route        string `json:"route"`
}

// DurationStats holds total and mean trip duration in hours.
type DurationStats struct {
	Trips      int     `json:"trips"`
	TotalHours float64 `json:"total_hours"`
	MeanHours  float64 `json:"mean_hours"`
}

// BirthYearStats summarizes the known birth years.
type BirthYearStats struct {
	Known      int `json:"known"`
	Earliest   int `json:"earliest"`
	MostRecent int `json:"most_recent"`
	MostCommon int `json:"most_common"`
}

// UserStats holds user demographics. Gender is only meaningful when
// GenderAvailable is set; BirthYears is nil when the source has no birth
// year column.
type UserStats struct {
	UserTypes       []Count         `json:"user_types"`
	GenderAvailable bool            `json:"gender_available"`
	Gender          []Count         `json:"gender,omitempty"`
	BirthYears      *BirthYearStats `json:"birth_years,omitempty"`
}

// Route formats the trip route used for popularity counts.
func Route(start, end string) string {
	return start + " to " + end
}

// Times returns the most common month, weekday and start hour.
func Times(t *Table) (TimeStats, error) {
	if t.Len() == 0 {
		return TimeStats{}, fmt.Errorf("time stats: %w", ErrEmptyInput)
	}
	hours := make([]int, len(t.Trips))
	for i := range t.Trips {
		hours[i] = t.Trips[i].Hour
	}
	month, _ := mode(nonBlank(t.Trips, func(tr *Trip) string { return tr.Month }))
	day, _ := mode(nonBlank(t.Trips, func(tr *Trip) string { return tr.Weekday }))
	hour, _ := mode(hours)
	return TimeStats{Month: month, Weekday: day, Hour: hour}, nil
}

// Stations returns the most common start station, end station and route.
// Routes are built from the rows of t, never from an unfiltered table.
func Stations(t *Table) (StationStats, error) {
	if t.Len() == 0 {
		return StationStats{}, fmt.Errorf("station stats: %w", ErrEmptyInput)
	}
	start, _ := mode(nonBlank(t.Trips, func(tr *Trip) string { return tr.StartStation }))
	end, _ := mode(nonBlank(t.Trips, func(tr *Trip) string { return tr.EndStation }))
	route, _ := mode(nonBlank(t.Trips, func(tr *Trip) string {
		if tr.StartStation == "" || tr.EndStation == "" {
			return ""
		}
		return Route(tr.StartStation, tr.EndStation)
	}))
	return StationStats{StartStation: start, EndStation: end, Route: route}, nil
}

// Durations returns total and mean trip duration over every row.
func Durations(t *Table) (DurationStats, error) {
	if t.Len() == 0 {
		return DurationStats{}, fmt.Errorf("duration stats: %w", ErrEmptyInput)
	}
	var total float64
	for i := range t.Trips {
		total += t.Trips[i].Duration
	}
	n := t.Len()
	return DurationStats{
		Trips:      n,
		TotalHours: total / secondsPerHour,
		MeanHours:  total / float64(n) / secondsPerHour,
	}, nil
}

// Users returns user type counts and, where the schema allows, gender
// counts and birth year extremes.
func Users(t *Table) (UserStats, error) {
	if t.Len() == 0 {
		return UserStats{}, fmt.Errorf("user stats: %w", ErrEmptyInput)
	}
	us := UserStats{
		UserTypes: valueCounts(nonBlank(t.Trips, func(tr *Trip) string { return tr.UserType })),
	}
	if t.Schema.HasGender {
		us.GenderAvailable = true
		us.Gender = valueCounts(nonBlank(t.Trips, func(tr *Trip) string { return tr.Gender }))
	}
	if t.Schema.HasBirthYear {
		us.BirthYears = birthYears(t.Trips)
	}
	return us, nil
}

func birthYears(rows []Trip) *BirthYearStats {
	years := make([]int, 0, len(rows))
	for i := range rows {
		if rows[i].BirthYearKnown {
			years = append(years, rows[i].BirthYear)
		}
	}
	bs := &BirthYearStats{Known: len(years)}
	if len(years) == 0 {
		return bs
	}
	bs.Earliest, bs.MostRecent = years[0], years[0]
	for _, y := range years[1:] {
		bs.Earliest = min(bs.Earliest, y)
		bs.MostRecent = max(bs.MostRecent, y)
	}
	bs.MostCommon, _ = mode(years)
	return bs
}
