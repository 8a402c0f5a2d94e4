package xlsx

import "time"

// SetRename replaces the function used to move a persisted workbook into place.
func SetRename(s *Store, fn func(oldpath, newpath string) error) {
	s.rename = fn
}

// SetClock replaces the clock used for extracted_at stamps and cache expiry.
func SetClock(s *Store, now func() time.Time) {
	s.now = now
	s.cache.now = now
}
