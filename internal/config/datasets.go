package config

// DefaultDatasets returns the three city trip logs shipped with the tool.
func DefaultDatasets() []DatasetConfig {
	return []DatasetConfig{
		{Key: "chicago", Name: "Chicago", File: "chicago.csv"},
		{Key: "new york city", Name: "New York City", File: "new_york_city.csv"},
		{Key: "washington", Name: "Washington", File: "washington.csv"},
	}
}

// DefaultMonths returns the months covered by the source data, lowercased.
func DefaultMonths() []string {
	return []string{"january", "february", "march", "april", "may", "june"}
}

// DefaultDays returns the weekday vocabulary, lowercased, Monday first.
func DefaultDays() []string {
	return []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
}
