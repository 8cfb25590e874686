package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/services"
)

// CreatePatternCmd creates the createPattern command
func CreatePatternCmd(app *AppContext) *cobra.Command {
	var (
		organizerID string
		title       string
		description string
		category    string
		location    string
		flexible    bool
		frequency   string
		days        []string
		dayOfMonth  int
		until       string
		start       string
		end         string
		needed      int
	)

	cmd := &cobra.Command{
		Use:   "createPattern",
		Short: "Store a recurring shift template",
		RunE: func(cmd *cobra.Command, args []string) error {
			weekdays, err := parseWeekdays(days)
			if err != nil {
				return err
			}
			pattern, err := services.CreatePattern(app.Ctx, app.Store, app.Logger, services.PatternSpec{
				OrganizerID: organizerID,
				Title:       title,
				Description: description,
				Category:    category,
				Location:    model.Location{Name: location, Flexible: flexible},
				Recurrence: model.RecurrenceSpec{
					Frequency:  model.Frequency(frequency),
					DaysOfWeek: weekdays,
					DayOfMonth: dayOfMonth,
					EndDate:    until,
				},
				ShiftTime:        model.TimeRange{Start: start, End: end},
				VolunteersNeeded: needed,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created pattern %s (%q, %s)\n", pattern.ID, pattern.Title, pattern.Recurrence.Frequency)
			return nil
		},
	}

	cmd.Flags().StringVar(&organizerID, "organizer", "", "Organizer member id")
	cmd.Flags().StringVar(&title, "title", "", "Pattern title")
	cmd.Flags().StringVar(&description, "description", "", "Pattern description")
	cmd.Flags().StringVar(&category, "category", "", "Activity category")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().BoolVar(&flexible, "flexible", false, "Whether any location works")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Recurring frequency (daily, weekly, biweekly, monthly)")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Days of week for weekly/biweekly recurrence")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "Day of month for monthly recurrence")
	cmd.Flags().StringVar(&until, "until", "", "Last day the recurrence applies")
	cmd.Flags().StringVar(&start, "start", "", "Shift start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "Shift end time (HH:MM)")
	cmd.Flags().IntVar(&needed, "needed", 1, "Volunteers needed per occurrence")
	cmd.MarkFlagRequired("organizer")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("frequency")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

// TogglePatternCmd creates the togglePattern command
func TogglePatternCmd(app *AppContext) *cobra.Command {
	var deactivate bool

	cmd := &cobra.Command{
		Use:   "togglePattern <pattern_id> <organizer_id>",
		Short: "Activate or deactivate a recurring pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := services.TogglePattern(app.Ctx, app.Store, app.Logger, args[0], args[1], !deactivate)
			if err != nil {
				return err
			}
			state := "active"
			if !pattern.Active {
				state = "inactive"
			}
			fmt.Printf("Pattern %q is now %s\n", pattern.Title, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&deactivate, "deactivate", false, "Deactivate instead of activate")
	return cmd
}
