package report

// Config holds the options of one report run.
type Config struct {
	Scenario int    // scenario id
	From     int    // first row, 0 for the start of the window
	To       int    // last row, 0 for the end of the window
	Date     string // optional single date, YYYY-MM-DD
	All      bool   // print every selected row instead of the first page
	Verbose  bool   // enable debug logging
}
