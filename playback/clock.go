package playback

import "time"

// Clock abstracts time so tracking and dwell rules can run against a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
