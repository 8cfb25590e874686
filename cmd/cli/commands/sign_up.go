package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/services"
)

// SignUpCmd creates the signUp command
func SignUpCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signUp <shift_id> <user_id> [role_index]",
		Short: "Sign a member up for a shift, optionally into a role",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]
			userID := args[1]

			var roleIndex *int
			if len(args) > 2 {
				idx, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("invalid role index %q: %w", args[2], err)
				}
				roleIndex = &idx
			}

			shift, err := services.SignUp(app.Ctx, app.Store, app.Logger, shiftID, userID, roleIndex)
			if err != nil {
				return err
			}

			fmt.Printf("Signed up %s for %q (%d/%d, status %s)\n",
				userID, shift.Title, len(shift.VolunteersSignedUp), shift.VolunteersNeeded, shift.Status)
			return nil
		},
	}
}

// CancelSignupCmd creates the cancelSignup command
func CancelSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSignup <shift_id> <user_id>",
		Short: "Remove a member from a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.CancelSignup(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("Removed %s from %q (%d/%d, status %s)\n",
				args[1], shift.Title, len(shift.VolunteersSignedUp), shift.VolunteersNeeded, shift.Status)
			return nil
		},
	}
}
