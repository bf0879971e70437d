package domain

import "errors"

// Every rejected operation surfaces one of these. Callers match them with
// errors.Is; adapters may wrap them with additional context.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidGoal        = errors.New("invalid goal")
	ErrInvalidDeadline    = errors.New("invalid deadline")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidState       = errors.New("invalid state")
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrNoContribution     = errors.New("no contribution")
	ErrTransferFailed     = errors.New("transfer failed")
	ErrLastAdminProtected = errors.New("last admin protected")
	ErrAlreadyAdmin       = errors.New("already admin")
	ErrNotAdmin           = errors.New("not admin")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrPaused             = errors.New("platform paused")
)
