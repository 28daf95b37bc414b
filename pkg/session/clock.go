package session

import "time"

// timeNow is a hook for tests
var timeNow = time.Now
