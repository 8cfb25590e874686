package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/services"
)

// BrowseShiftsCmd creates the browseShifts command
func BrowseShiftsCmd(app *AppContext) *cobra.Command {
	var category, from, to string

	cmd := &cobra.Command{
		Use:   "browseShifts",
		Short: "List open shifts, optionally filtered by category and date window",
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts, err := services.BrowseOpenShifts(app.Ctx, app.Store, app.Logger, services.BrowseFilters{
				Category: category,
				From:     from,
				To:       to,
			})
			if err != nil {
				return err
			}
			printShiftTable(shifts)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by activity category")
	cmd.Flags().StringVar(&from, "from", "", "Earliest shift date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Latest shift date (YYYY-MM-DD)")
	return cmd
}

// FindSwapPartnersCmd creates the findSwapPartners command
func FindSwapPartnersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "findSwapPartners <shift_id> <requester_id>",
		Short: "List shifts whose volunteers could exchange spots with the requester",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts, err := services.FindPotentialSwapPartners(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			printShiftTable(shifts)
			return nil
		},
	}
}

func printShiftTable(shifts []model.VolunteerShift) {
	if len(shifts) == 0 {
		fmt.Println("No shifts found")
		return
	}
	for _, shift := range shifts {
		fmt.Printf("%s  %s %s-%s  %-12s  %s (%d/%d)  [%s]\n",
			shift.ID,
			shift.ShiftDate,
			shift.ShiftTime.Start,
			shift.ShiftTime.End,
			shift.Category,
			shift.Title,
			len(shift.VolunteersSignedUp),
			shift.VolunteersNeeded,
			shift.Status)
		if len(shift.Roles) > 0 {
			var parts []string
			for _, role := range shift.Roles {
				parts = append(parts, fmt.Sprintf("%s %d/%d", role.Name, len(role.VolunteersAssigned), role.VolunteersNeeded))
			}
			fmt.Printf("    roles: %s\n", strings.Join(parts, ", "))
		}
	}
}
