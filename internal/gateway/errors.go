package gateway

import (
	"fmt"
	"strings"
)

// ConfigurationError reports settings the gateway needs but was not given.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "gateway: missing configuration: " + strings.Join(e.Missing, ", ")
}

// FetchError aborts a whole fetch. PageID is empty when the database
// query itself failed.
type FetchError struct {
	Op     string
	PageID string
	Err    error
}

func (e *FetchError) Error() string {
	if e.PageID != "" {
		return fmt.Sprintf("gateway: %s %s: %v", e.Op, e.PageID, e.Err)
	}
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
