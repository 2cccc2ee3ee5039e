package service

import "errors"

var (
	ErrCommunityNotFound  = errors.New("community not found")
	ErrRosterEmpty        = errors.New("community has no moderators")
	ErrNotAuthorized      = errors.New("requester is neither top moderator nor admin")
	ErrTargetNotModerator = errors.New("target is not a moderator of this community")
	ErrDuplicateModerator = errors.New("community moderator already exists")
	ErrTransferBusy       = errors.New("another transfer is in progress")
	ErrReadAfterCommit    = errors.New("couldnt read community after transfer committed")
)
