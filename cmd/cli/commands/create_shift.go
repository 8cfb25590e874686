package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/services"
)

// CreateShiftCmd creates the createShift command
func CreateShiftCmd(app *AppContext) *cobra.Command {
	var (
		organizerID string
		title       string
		description string
		category    string
		date        string
		start       string
		end         string
		location    string
		needed      int
	)

	cmd := &cobra.Command{
		Use:   "createShift",
		Short: "Create a new volunteer shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.CreateShift(app.Ctx, app.Store, app.Logger, services.ShiftSpec{
				OrganizerID:      organizerID,
				Title:            title,
				Description:      description,
				Category:         category,
				ShiftDate:        date,
				ShiftTime:        model.TimeRange{Start: start, End: end},
				Location:         model.Location{Name: location},
				VolunteersNeeded: needed,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created shift %s (%s %s-%s, needs %d)\n",
				shift.ID, shift.ShiftDate, shift.ShiftTime.Start, shift.ShiftTime.End, shift.VolunteersNeeded)
			return nil
		},
	}

	cmd.Flags().StringVar(&organizerID, "organizer", "", "Organizer member id")
	cmd.Flags().StringVar(&title, "title", "", "Shift title")
	cmd.Flags().StringVar(&description, "description", "", "Shift description")
	cmd.Flags().StringVar(&category, "category", "", "Activity category")
	cmd.Flags().StringVar(&date, "date", "", "Shift date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&location, "location", "", "Location name")
	cmd.Flags().IntVar(&needed, "needed", 1, "Volunteers needed")
	cmd.MarkFlagRequired("organizer")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("location")

	return cmd
}
