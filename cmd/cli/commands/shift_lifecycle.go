package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/services"
)

// StartShiftCmd creates the startShift command
func StartShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "startShift <shift_id> <organizer_id>",
		Short: "Mark a shift as in progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.StartShift(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Shift %q is now %s\n", shift.Title, shift.Status)
			return nil
		},
	}
}

// CompleteShiftCmd creates the completeShift command
func CompleteShiftCmd(app *AppContext) *cobra.Command {
	var notes, impact string

	cmd := &cobra.Command{
		Use:   "completeShift <shift_id> <organizer_id>",
		Short: "Mark a shift as completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.CompleteShift(app.Ctx, app.Store, app.Logger, args[0], args[1], notes, impact)
			if err != nil {
				return err
			}
			fmt.Printf("Shift %q is now %s\n", shift.Title, shift.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")
	cmd.Flags().StringVar(&impact, "impact", "", "Impact summary")
	return cmd
}

// CancelShiftCmd creates the cancelShift command
func CancelShiftCmd(app *AppContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancelShift <shift_id> <organizer_id>",
		Short: "Cancel a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.CancelShift(app.Ctx, app.Store, app.Logger, args[0], args[1], reason)
			if err != nil {
				return err
			}
			fmt.Printf("Shift %q is now %s\n", shift.Title, shift.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")
	return cmd
}
