package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/pkg/core/services"
)

// RequestSwapCmd creates the requestSwap command
func RequestSwapCmd(app *AppContext) *cobra.Command {
	var (
		open          bool
		proposedTo    string
		proposedShift string
		reason        string
	)

	cmd := &cobra.Command{
		Use:   "requestSwap <shift_id> <requester_id>",
		Short: "Ask for someone to take over a shift spot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := services.RequestSwap(app.Ctx, app.Store, app.Logger, args[0], args[1], services.SwapProposal{
				IsOpenRequest:    open,
				ProposedToUserID: proposedTo,
				ProposedShiftID:  proposedShift,
				Reason:           reason,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Opened swap request %s (%s)\n", request.ID, request.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Allow any eligible member to accept")
	cmd.Flags().StringVar(&proposedTo, "to", "", "Member the swap is proposed to")
	cmd.Flags().StringVar(&proposedShift, "for-shift", "", "Their shift to exchange in return")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the spot is being given up")
	return cmd
}

// AcceptSwapCmd creates the acceptSwap command
func AcceptSwapCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "acceptSwap <request_id> <user_id>",
		Short: "Accept a swap request and perform the exchange",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := services.AcceptSwap(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Swap request %s accepted by %s\n", request.ID, request.AcceptedByUserID)
			return nil
		},
	}
}

// DeclineSwapCmd creates the declineSwap command
func DeclineSwapCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "declineSwap <request_id> <user_id>",
		Short: "Decline a swap request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := services.DeclineSwap(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Swap request %s is now %s\n", request.ID, request.Status)
			return nil
		},
	}
}

// CancelSwapCmd creates the cancelSwap command
func CancelSwapCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSwap <request_id> <requester_id>",
		Short: "Withdraw a pending swap request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := services.CancelSwap(app.Ctx, app.Store, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Swap request %s is now %s\n", request.ID, request.Status)
			return nil
		},
	}
}
