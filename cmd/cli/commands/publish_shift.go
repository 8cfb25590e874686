package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communityroots/mutualaid/internal/config"
	"github.com/communityroots/mutualaid/pkg/clients/calendarclient"
)

// PublishShiftCmd creates the publishShift command
func PublishShiftCmd(app *AppContext) *cobra.Command {
	var calendarID string

	cmd := &cobra.Command{
		Use:   "publishShift <shift_id>",
		Short: "Publish a shift onto the shared community calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := app.Store.GetShift(app.Ctx, args[0])
			if err != nil {
				return err
			}

			targetCalendar := calendarID
			if targetCalendar == "" {
				targetCalendar = app.Cfg.CommunityCalendarID
			}
			if targetCalendar == "" {
				return fmt.Errorf("no calendar id given and communityCalendarID is not configured")
			}

			oauthCfg, err := config.LoadOAuthClient()
			if err != nil {
				return fmt.Errorf("failed to load oauth client config: %w", err)
			}

			client, err := calendarclient.NewClient(app.Ctx, oauthCfg)
			if err != nil {
				return fmt.Errorf("failed to create calendar client: %w", err)
			}

			eventID, err := client.PublishShift(targetCalendar, shift)
			if err != nil {
				return err
			}
			fmt.Printf("Published %q as calendar event %s\n", shift.Title, eventID)
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar id to publish to (defaults to the configured community calendar)")
	return cmd
}
