package repository

// Option applies a configuration option to the CSVSource.
type Option func(*CSVSource)

// WithColumns overrides the date, actual and predicted column names of scenario files.
func WithColumns(date, actual, predicted string) Option {
	return func(s *CSVSource) {
		if date != "" {
			s.dateCol = date
		}
		if actual != "" {
			s.actualCol = actual
		}
		if predicted != "" {
			s.predictedCol = predicted
		}
	}
}

// WithHistoryColumn overrides the price column name of the history file.
func WithHistoryColumn(name string) Option {
	return func(s *CSVSource) {
		if name != "" {
			s.historyCol = name
		}
	}
}

// WithDateLayout sets the layout used to parse the date column.
func WithDateLayout(layout string) Option {
	return func(s *CSVSource) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}
