package calendarclient

import (
	"fmt"

	"google.golang.org/api/calendar/v3"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

// PublishShift creates a calendar event for a shift on the community
// calendar and returns the event id
func (c *Client) PublishShift(calendarID string, shift *model.VolunteerShift) (string, error) {
	event := &calendar.Event{
		Summary:     shift.Title,
		Description: shift.Description,
		Location:    shift.Location.Name,
		Start: &calendar.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", shift.ShiftDate, shift.ShiftTime.Start),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", shift.ShiftDate, shift.ShiftTime.End),
			TimeZone: "UTC",
		},
	}

	created, err := c.service.Events.Insert(calendarID, event).Context(c.ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return created.Id, nil
}
