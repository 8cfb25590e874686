package model

import "time"

// ShiftStatus represents the lifecycle state of a volunteer shift
type ShiftStatus string

const (
	ShiftOpen       ShiftStatus = "open"
	ShiftFilled     ShiftStatus = "filled"
	ShiftInProgress ShiftStatus = "in_progress"
	ShiftCompleted  ShiftStatus = "completed"
	ShiftCancelled  ShiftStatus = "cancelled"
)

func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftOpen, ShiftFilled, ShiftInProgress, ShiftCompleted, ShiftCancelled:
		return true
	}
	return false
}

// IsClosed reports whether the shift no longer accepts signups or swaps
func (s ShiftStatus) IsClosed() bool {
	return s == ShiftCompleted || s == ShiftCancelled
}

// SwapStatus represents the state of a shift swap request
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapDeclined  SwapStatus = "declined"
	SwapCancelled SwapStatus = "cancelled"
	SwapCompleted SwapStatus = "completed"
)

// IsTerminal reports whether the request can no longer change state
func (s SwapStatus) IsTerminal() bool {
	return s == SwapDeclined || s == SwapCancelled || s == SwapCompleted
}

// Frequency is a recurrence frequency
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// TimeRange is a clock-time window in "15:04" format
type TimeRange struct {
	Start string
	End   string
}

// RecurrenceSpec describes repeating temporal applicability without
// materializing concrete instances. AnchorDate fixes biweekly parity.
type RecurrenceSpec struct {
	Frequency  Frequency
	DaysOfWeek []time.Weekday // weekly, biweekly
	DayOfMonth int            // monthly
	AnchorDate string         // date format
	EndDate    string         // date format, empty means no end
}

// DateRange is an inclusive calendar-day interval
type DateRange struct {
	Start string // date format
	End   string // date format
}

// Location describes where an activity happens. Flexible locations match any
// location filter.
type Location struct {
	Name     string
	Address  string
	Flexible bool
}

// ShiftRole is a named sub-role within a shift with its own capacity
type ShiftRole struct {
	Name               string
	VolunteersNeeded   int
	VolunteersAssigned []string
}

// VolunteerShift represents a scheduled volunteer activity
type VolunteerShift struct {
	ID                 string
	OrganizerID        string
	Title              string
	Description        string
	Category           string
	ShiftDate          string // date format
	ShiftTime          TimeRange
	EstimatedMinutes   int
	Location           Location
	VolunteersNeeded   int
	VolunteersSignedUp []string // set: no duplicate member ids
	Roles              []ShiftRole
	Status             ShiftStatus
	CompletionNotes    string
	ImpactSummary      string
	CancellationReason string
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RecurringShiftPattern is a stored shift template. It never produces shift
// instances itself.
type RecurringShiftPattern struct {
	ID               string
	OrganizerID      string
	Title            string
	Description      string
	Category         string
	Location         Location
	Recurrence       RecurrenceSpec
	ShiftTime        TimeRange
	VolunteersNeeded int
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailabilitySlot publishes when a member can be matched to activities.
// Exactly one of Date, DateRange, Recurrence is set.
type AvailabilitySlot struct {
	ID                     string
	UserID                 string
	SkillOfferID           string // optional link to a skill offer record
	Date                   string // date format
	DateRange              *DateRange
	Recurrence             *RecurrenceSpec
	TimeRanges             []TimeRange // ordered, non-empty
	Location               Location
	PreferredActivityTypes []string
	MaxBookings            int
	CurrentBookings        int
	Visibility             string
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// HasSpareCapacity reports whether the slot can take another booking
func (s *AvailabilitySlot) HasSpareCapacity() bool {
	return s.CurrentBookings < s.MaxBookings
}

// ShiftSwapRequest is a negotiation to hand a shift spot to another member,
// either openly (any eligible member may accept) or as a direct proposal.
type ShiftSwapRequest struct {
	ID                string
	ShiftID           string
	RequesterID       string
	Status            SwapStatus
	IsOpenRequest     bool
	ProposedToUserID  string   // direct proposals only
	ProposedShiftID   string   // two-way exchange only
	DeclinedByUserIDs []string // set, open requests only
	AcceptedByUserID  string
	Reason            string
	AcceptedAt        *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
