package memstore

import (
	"time"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

// Deep copies keep callers and mutation functions from aliasing the store's
// committed documents.

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTimePtr(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	t := *in
	return &t
}

func cloneShift(in model.VolunteerShift) model.VolunteerShift {
	out := in
	out.VolunteersSignedUp = cloneStrings(in.VolunteersSignedUp)
	out.Roles = make([]model.ShiftRole, len(in.Roles))
	for i, role := range in.Roles {
		out.Roles[i] = role
		out.Roles[i].VolunteersAssigned = cloneStrings(role.VolunteersAssigned)
	}
	out.CompletedAt = cloneTimePtr(in.CompletedAt)
	out.CancelledAt = cloneTimePtr(in.CancelledAt)
	return out
}

func clonePattern(in model.RecurringShiftPattern) model.RecurringShiftPattern {
	out := in
	out.Recurrence = cloneRecurrence(in.Recurrence)
	return out
}

func cloneRecurrence(in model.RecurrenceSpec) model.RecurrenceSpec {
	out := in
	if in.DaysOfWeek != nil {
		out.DaysOfWeek = make([]time.Weekday, len(in.DaysOfWeek))
		copy(out.DaysOfWeek, in.DaysOfWeek)
	}
	return out
}

func cloneSlot(in model.AvailabilitySlot) model.AvailabilitySlot {
	out := in
	if in.DateRange != nil {
		dr := *in.DateRange
		out.DateRange = &dr
	}
	if in.Recurrence != nil {
		rec := cloneRecurrence(*in.Recurrence)
		out.Recurrence = &rec
	}
	if in.TimeRanges != nil {
		out.TimeRanges = make([]model.TimeRange, len(in.TimeRanges))
		copy(out.TimeRanges, in.TimeRanges)
	}
	out.PreferredActivityTypes = cloneStrings(in.PreferredActivityTypes)
	return out
}

func cloneSwapRequest(in model.ShiftSwapRequest) model.ShiftSwapRequest {
	out := in
	out.DeclinedByUserIDs = cloneStrings(in.DeclinedByUserIDs)
	out.AcceptedAt = cloneTimePtr(in.AcceptedAt)
	out.CompletedAt = cloneTimePtr(in.CompletedAt)
	return out
}
