package integration

import (
	"fmt"
	"time"
)

// TestAccount generates unique test account credentials using timestamp
func TestAccount(suffix string) (username, email, password string) {
	ts := time.Now().UnixNano()
	username = fmt.Sprintf("admin%d%s", ts, suffix)
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}
