package storage

import (
	"fmt"
	"time"
)

// Entry represents one recorded storage operation
type Entry struct {
	Seq       uint64    `json:"seq"`
	Time      time.Time `json:"ts"`
	Op        string    `json:"op"`
	Area      string    `json:"area"`
	Name      string    `json:"name,omitempty"`
	Encrypted bool      `json:"encrypted,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// OK reports whether the operation succeeded
func (e Entry) OK() bool {
	return e.Error == ""
}

// String renders the entry on one line
func (e Entry) String() string {
	status := "ok"
	if !e.OK() {
		status = "failed: " + e.Error
	}
	name := e.Name
	if name == "" {
		name = "-"
	}
	flag := ""
	if e.Encrypted {
		flag = " [encrypted]"
	}
	return fmt.Sprintf("%d %s %-6s %-10s %s%s (%s)",
		e.Seq, e.Time.Local().Format(time.RFC3339), e.Area, e.Op, name, flag, status)
}
