// Package task talks to the scheduler that hands out relay runs.
package task

import "errors"

var (
	// ErrCoordinator indicates the coordinator could not be reached or sent an unreadable reply.
	ErrCoordinator = errors.New("task coordinator error")
	// ErrNoBaseURL indicates that the HTTP coordinator was created without a base URL.
	ErrNoBaseURL = errors.New("task coordinator base URL is required")
)
