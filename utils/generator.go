package utils

import (
	"math/rand"
	"time"
)

func GeneratePostId() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
	var ans = make([]byte, 10)
	for i := range ans {
		ans[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(ans)
}

// Now returns the current time truncated to milliseconds, the finest
// granularity both the store and the cursor token preserve.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
