package project

import "fmt"

// TransitionError reports a rejected status change. Reason is shown to API
// callers verbatim.
type TransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}

type statusSet map[Status]struct{}

func setOf(statuses ...Status) statusSet {
	s := make(statusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}

	return s
}

var transitions = map[Status]statusSet{
	StatusProposal:       setOf(StatusPreProduction, StatusProduction, StatusOverdue, StatusCancelled),
	StatusPreProduction:  setOf(StatusProposal, StatusProduction, StatusOverdue, StatusCancelled),
	StatusProduction:     setOf(StatusPreProduction, StatusPostProduction, StatusReview, StatusOverdue, StatusCancelled),
	StatusPostProduction: setOf(StatusProduction, StatusReview, StatusDelivered, StatusOverdue, StatusCancelled),
	StatusReview:         setOf(StatusProduction, StatusPostProduction, StatusDelivered, StatusOverdue, StatusCancelled),
	StatusOverdue:        setOf(StatusPreProduction, StatusProduction, StatusPostProduction, StatusReview, StatusDelivered, StatusCancelled),
	StatusDelivered:      setOf(),
	StatusCancelled:      setOf(),
}

type specialSet map[SpecialStatus]struct{}

var specialTransitions = map[SpecialStatus]specialSet{
	SpecialNone:    {SpecialDelayed: {}, SpecialPaused: {}, SpecialBlocked: {}},
	SpecialDelayed: {SpecialNone: {}, SpecialPaused: {}, SpecialBlocked: {}},
	SpecialPaused:  {SpecialNone: {}},
	SpecialBlocked: {SpecialNone: {}, SpecialDelayed: {}},
}

// IsValidTransition reports whether a project may move from current to
// target given its special status. On rejection the reason is non-empty.
func IsValidTransition(current, target Status, special SpecialStatus) (bool, string) {
	allowed, known := transitions[current]
	if !known {
		return false, fmt.Sprintf("unknown current status %q", current)
	}

	if _, ok := transitions[target]; !ok {
		return false, fmt.Sprintf("unknown target status %q", target)
	}

	if current == target {
		return false, fmt.Sprintf("project is already %s", current)
	}

	if current.Terminal() {
		return false, fmt.Sprintf("project is %s and cannot change status", current)
	}

	if _, ok := allowed[target]; !ok {
		return false, fmt.Sprintf("cannot move a project from %s to %s", current, target)
	}

	switch {
	case special == SpecialPaused && target == StatusOverdue:
		return false, "paused projects are not flagged overdue"
	case special == SpecialPaused && target == StatusDelivered:
		return false, "a paused project must be resumed before delivery"
	case special == SpecialBlocked && target == StatusDelivered:
		return false, "a blocked project must be unblocked before delivery"
	}

	return true, ""
}

// IsValidSpecialStatusTransition reports whether the special status may move
// from current to target while the project is in projectStatus.
func IsValidSpecialStatusTransition(projectStatus Status, current, target SpecialStatus) (bool, string) {
	if current == "" {
		current = SpecialNone
	}

	allowed, known := specialTransitions[current]
	if !known {
		return false, fmt.Sprintf("unknown current special status %q", current)
	}

	if _, ok := specialTransitions[target]; !ok {
		return false, fmt.Sprintf("unknown target special status %q", target)
	}

	if current == target {
		return false, fmt.Sprintf("special status is already %s", current)
	}

	if target != SpecialNone && !projectStatus.InDevelopment() && projectStatus != StatusOverdue {
		return false, fmt.Sprintf("special status %s is only meaningful while a project is in progress, not %s", target, projectStatus)
	}

	if _, ok := allowed[target]; !ok {
		return false, fmt.Sprintf("cannot change special status from %s to %s", current, target)
	}

	return true, ""
}

// ValidateTransition is IsValidTransition returning a *TransitionError.
func ValidateTransition(current, target Status, special SpecialStatus) error {
	if ok, reason := IsValidTransition(current, target, special); !ok {
		return &TransitionError{From: string(current), To: string(target), Reason: reason}
	}

	return nil
}

// ValidateSpecialTransition is IsValidSpecialStatusTransition returning a
// *TransitionError.
func ValidateSpecialTransition(projectStatus Status, current, target SpecialStatus) error {
	if ok, reason := IsValidSpecialStatusTransition(projectStatus, current, target); !ok {
		return &TransitionError{From: string(current), To: string(target), Reason: reason}
	}

	return nil
}
