package store

// TimerState is the persisted countdown snapshot. There is exactly one
// row; it is created empty on first launch and wiped at each daily reset.
type TimerState struct {
	IntervalMs      int64
	CigaretteCount  int64
	LastUpdateMs    int64
	LastCigaretteMs *int64
	NextCigaretteMs *int64
}

// Setting is one key/value pair from the settings table.
type Setting struct {
	Key   string
	Value string
}
