package utils

import (
	"fmt"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"

	"fairmeet/models"
)

const icsTimeLayout = "20060102T150405Z"

// BuildSuggestionICS renders one suggestion as an iCalendar document with a
// single VEVENT, instants in UTC.
func BuildSuggestionICS(teamName string, s models.Suggestion) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//FairMeet//Meeting Suggestion//EN")

	event := cal.AddEvent(fmt.Sprintf("%s@fairmeet.app", s.ID))
	event.SetStartAt(s.StartsAtUTC.UTC())
	event.SetEndAt(s.EndsAtUTC.UTC())
	event.SetSummary(fmt.Sprintf("Team Meeting - %s", teamName))
	event.SetDescription(fmt.Sprintf("Fair meeting suggestion with %d attendees", len(s.AttendingMemberIDs)))

	return cal.Serialize()
}

// ICSFilename names the downloaded file after the meeting start.
func ICSFilename(s models.Suggestion) string {
	return fmt.Sprintf("meeting-%s.ics", s.StartsAtUTC.UTC().Format(icsTimeLayout))
}

// GoogleCalendarLink builds a calendar.google.com event template URL for the
// suggestion.
func GoogleCalendarLink(teamName string, s models.Suggestion) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", fmt.Sprintf("Team Meeting - %s", teamName))
	q.Set("dates", formatGoogleRange(s.StartsAtUTC, s.EndsAtUTC))
	q.Set("details", fmt.Sprintf("Fair meeting suggestion with %d attendees", len(s.AttendingMemberIDs)))
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

func formatGoogleRange(start, end time.Time) string {
	return start.UTC().Format(icsTimeLayout) + "/" + end.UTC().Format(icsTimeLayout)
}
