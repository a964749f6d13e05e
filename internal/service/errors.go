package service

import "errors"

var (
	ErrLGANotFound     = errors.New("lga not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrEmptyName       = errors.New("name is required")
	ErrEmptyIdentity   = errors.New("identifier is required")
	ErrUnknownIdentity = errors.New("unknown identity")
)
