// Package core provides the ports and shared business logic of the rosterd
// scheduling system.
package core

import (
	"github.com/rosterd/rosterd/internal/domain/model"
)

// JobType represents the type of background job to be executed (re-exported
// from the model package for use in HTTP handlers and adapters).
type JobType = model.JobType

// CreateJobRequest represents a request to enqueue a new background job
// (re-exported from the model package).
type CreateJobRequest = model.CreateJobRequest
