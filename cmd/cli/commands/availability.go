package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/services"
)

// AddAvailabilityCmd creates the addAvailability command
func AddAvailabilityCmd(app *AppContext) *cobra.Command {
	var (
		date        string
		rangeStart  string
		rangeEnd    string
		frequency   string
		days        []string
		dayOfMonth  int
		until       string
		times       []string
		location    string
		flexible    bool
		activities  []string
		maxBookings int
		visibility  string
	)

	cmd := &cobra.Command{
		Use:   "addAvailability <user_id>",
		Short: "Publish an availability slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeRanges, err := parseTimeRanges(times)
			if err != nil {
				return err
			}

			spec := services.SlotSpec{
				UserID:                 args[0],
				Date:                   date,
				TimeRanges:             timeRanges,
				Location:               model.Location{Name: location, Flexible: flexible},
				PreferredActivityTypes: activities,
				MaxBookings:            maxBookings,
				Visibility:             visibility,
			}
			if rangeStart != "" || rangeEnd != "" {
				spec.DateRange = &model.DateRange{Start: rangeStart, End: rangeEnd}
			}
			if frequency != "" {
				weekdays, err := parseWeekdays(days)
				if err != nil {
					return err
				}
				spec.Recurrence = &model.RecurrenceSpec{
					Frequency:  model.Frequency(frequency),
					DaysOfWeek: weekdays,
					DayOfMonth: dayOfMonth,
					EndDate:    until,
				}
			}

			slot, err := services.CreateSlot(app.Ctx, app.Store, app.Logger, spec)
			if err != nil {
				return err
			}
			fmt.Printf("Created availability slot %s for %s\n", slot.ID, slot.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Single day of availability (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rangeStart, "range-start", "", "First day of a date range")
	cmd.Flags().StringVar(&rangeEnd, "range-end", "", "Last day of a date range")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Recurring frequency (daily, weekly, biweekly, monthly)")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Days of week for weekly/biweekly recurrence (e.g. monday,thursday)")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "Day of month for monthly recurrence")
	cmd.Flags().StringVar(&until, "until", "", "Last day the recurrence applies")
	cmd.Flags().StringSliceVar(&times, "times", nil, "Time ranges, e.g. 09:00-12:00,14:00-17:00")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().BoolVar(&flexible, "flexible", false, "Whether any location works")
	cmd.Flags().StringSliceVar(&activities, "activities", nil, "Preferred activity types")
	cmd.Flags().IntVar(&maxBookings, "max-bookings", 0, "Concurrent booking capacity (defaults to 1)")
	cmd.Flags().StringVar(&visibility, "visibility", "", "Slot visibility")
	cmd.MarkFlagRequired("times")
	return cmd
}

// DeactivateSlotCmd creates the deactivateSlot command
func DeactivateSlotCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivateSlot <slot_id> <user_id>",
		Short: "Withdraw an availability slot from matching",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := services.DeactivateSlot(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Deactivated slot %s\n", slot.ID)
			return nil
		},
	}
}

// ReserveBookingCmd creates the reserveBooking command
func ReserveBookingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reserveBooking <slot_id>",
		Short: "Reserve one booking against an availability slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := services.ReserveSlotBooking(app.Ctx, app.Store, app.Logger, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Slot %s now has %d/%d bookings\n", slot.ID, slot.CurrentBookings, slot.MaxBookings)
			return nil
		},
	}
}

// ReleaseBookingCmd creates the releaseBooking command
func ReleaseBookingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "releaseBooking <slot_id>",
		Short: "Release one booking from an availability slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := services.ReleaseSlotBooking(app.Ctx, app.Store, app.Logger, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Slot %s now has %d/%d bookings\n", slot.ID, slot.CurrentBookings, slot.MaxBookings)
			return nil
		},
	}
}

// CheckAvailabilityCmd creates the checkAvailability command
func CheckAvailabilityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkAvailability <user_id> <date> <start>-<end>",
		Short: "Check whether a member is available over a time window",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseTimeRange(args[2])
			if err != nil {
				return err
			}
			available, err := services.IsUserAvailable(app.Ctx, app.Store, app.Logger, args[0], args[1], window)
			if err != nil {
				return err
			}
			if available {
				fmt.Printf("%s is available on %s between %s and %s\n", args[0], args[1], window.Start, window.End)
			} else {
				fmt.Printf("%s is not available on %s between %s and %s\n", args[0], args[1], window.Start, window.End)
			}
			return nil
		},
	}
}

// AvailableWindowsCmd creates the availableWindows command
func AvailableWindowsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "availableWindows <user_id> <date> <start>-<end>",
		Short: "List the parts of a time window a member is available in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseTimeRange(args[2])
			if err != nil {
				return err
			}
			windows, err := services.AvailableWindows(app.Ctx, app.Store, app.Logger, args[0], args[1], window)
			if err != nil {
				return err
			}
			if len(windows) == 0 {
				fmt.Printf("%s has no availability on %s between %s and %s\n", args[0], args[1], window.Start, window.End)
				return nil
			}
			for _, w := range windows {
				fmt.Printf("%s-%s\n", w.Start, w.End)
			}
			return nil
		},
	}
}

// QuerySlotsCmd creates the querySlots command
func QuerySlotsCmd(app *AppContext) *cobra.Command {
	var activity, location string

	cmd := &cobra.Command{
		Use:   "querySlots <from> <to>",
		Short: "List availability slots intersecting a date window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := services.QuerySlots(app.Ctx, app.Store, app.Logger,
				model.DateRange{Start: args[0], End: args[1]},
				services.SlotFilters{ActivityType: activity, LocationName: location})
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Println("No matching slots")
				return nil
			}
			for _, slot := range slots {
				var times []string
				for _, tr := range slot.TimeRanges {
					times = append(times, fmt.Sprintf("%s-%s", tr.Start, tr.End))
				}
				fmt.Printf("%s  %s  %s  bookings %d/%d\n",
					slot.ID, slot.UserID, strings.Join(times, ","), slot.CurrentBookings, slot.MaxBookings)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&activity, "activity", "", "Filter by preferred activity type")
	cmd.Flags().StringVar(&location, "location", "", "Filter by location name")
	return cmd
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(args []string) ([]time.Weekday, error) {
	var weekdays []time.Weekday
	for _, arg := range args {
		weekday, ok := weekdayNames[strings.ToLower(arg)]
		if !ok {
			return nil, errs.NewValidation("days", fmt.Sprintf("unknown day of week %q", arg))
		}
		weekdays = append(weekdays, weekday)
	}
	return weekdays, nil
}

func parseTimeRange(arg string) (model.TimeRange, error) {
	parts := strings.SplitN(arg, "-", 2)
	if len(parts) != 2 {
		return model.TimeRange{}, errs.NewValidation("time", "expected a range like 09:00-12:00")
	}
	return model.TimeRange{Start: parts[0], End: parts[1]}, nil
}

func parseTimeRanges(args []string) ([]model.TimeRange, error) {
	var ranges []model.TimeRange
	for _, arg := range args {
		tr, err := parseTimeRange(arg)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, tr)
	}
	return ranges, nil
}
