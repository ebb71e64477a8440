package skill

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gcalskill/internal/reminders"
)

func testStore() *reminders.Store {
	return reminders.NewStore(reminders.GroupByDay([]reminders.Reminder{
		{
			Title: "Standup", StartDate: "2030-03-05", StartWeekday: "Tuesday", StartDay: "05",
			StartMonth: "March", StartYear: "2030", StartTime: "8:15 AM",
			EndDate: "2030-03-05", EndTime: "8:45 AM",
		},
		{
			Title: "Dentist", StartDate: "2030-03-06", StartWeekday: "Wednesday", StartDay: "06",
			StartMonth: "March", StartYear: "2030", StartTime: "2:00 PM",
			EndDate: "2030-03-06", EndTime: "3:00 PM",
		},
	}))
}

func intentRequest(name string, slots map[string]Slot) *RequestEnvelope {
	return &RequestEnvelope{
		Version: "1.0",
		Request: Request{
			Type:   RequestTypeIntent,
			Intent: &Intent{Name: name, Slots: slots},
		},
	}
}

func TestHandler_Launch(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	resp, err := h.Handle(context.Background(), &RequestEnvelope{Request: Request{Type: RequestTypeLaunch}})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "1.0", resp.Version)
	assert.False(t, resp.Response.ShouldEndSession)
	assert.Equal(t, "Welcome to Google Calendar. You can ask me to read all calendar or read reminders for a specific day",
		resp.Response.OutputSpeech.Text)
	require.NotNil(t, resp.Response.Reprompt)
	assert.Equal(t, HelpText, resp.Response.Reprompt.OutputSpeech.Text)
}

func TestHandler_ReadCalendar(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	resp, err := h.Handle(context.Background(), intentRequest(IntentReadCalendar, nil))
	require.NoError(t, err)

	assert.True(t, resp.Response.ShouldEndSession)
	assert.Nil(t, resp.Response.Reprompt)
	assert.Equal(t,
		"Day Tuesday, 05, March, 2030, Reminder, 'Standup', from 8:15 AM to 8:45 AM. "+
			"Day Wednesday, 06, March, 2030, Reminder, 'Dentist', from 2:00 PM to 3:00 PM. "+
			"End of calendar... Goodbye.",
		resp.Response.OutputSpeech.Text)
}

func TestHandler_ReadSpecificDay(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	tests := []struct {
		name  string
		slots map[string]Slot
		want  string
	}{
		{
			name:  "matching day",
			slots: map[string]Slot{SlotDay: {Name: SlotDay, Value: "2030-03-06"}},
			want:  "Day Wednesday, 06, March, 2030, Reminder, 'Dentist', from 2:00 PM to 3:00 PM. You can ask me for other day.",
		},
		{
			name:  "day without reminders",
			slots: map[string]Slot{SlotDay: {Name: SlotDay, Value: "2030-03-09"}},
			want:  "You don't have reminders for the day.You can ask me for other day.",
		},
		{
			name:  "week value",
			slots: map[string]Slot{SlotDay: {Name: SlotDay, Value: "2030-W20"}},
			want:  "You don't have reminders for the day.You can ask me for other day.",
		},
		{
			name: "missing slot",
			want: "You don't have reminders for the day.You can ask me for other day.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), intentRequest(IntentReadSpecificDay, tt.slots))
			require.NoError(t, err)
			assert.False(t, resp.Response.ShouldEndSession)
			assert.Equal(t, tt.want, resp.Response.OutputSpeech.Text)
			require.NotNil(t, resp.Response.Reprompt)
			assert.Equal(t, OtherDayText, resp.Response.Reprompt.OutputSpeech.Text)
		})
	}
}

func TestHandler_StopAndCancel(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	for _, name := range []string{IntentStop, IntentCancel} {
		t.Run(name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), intentRequest(name, nil))
			require.NoError(t, err)
			assert.True(t, resp.Response.ShouldEndSession)
			assert.Equal(t, "Goodbye", resp.Response.OutputSpeech.Text)
		})
	}
}

func TestHandler_HelpAndUnknownIntent(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	for _, name := range []string{IntentHelp, "SomethingElseIntent"} {
		t.Run(name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), intentRequest(name, nil))
			require.NoError(t, err)
			assert.False(t, resp.Response.ShouldEndSession)
			assert.Equal(t, HelpText, resp.Response.OutputSpeech.Text)
		})
	}
}

func TestHandler_SessionEnded(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	resp, err := h.Handle(context.Background(), &RequestEnvelope{
		Request: Request{Type: RequestTypeSessionEnded, Reason: "USER_INITIATED"},
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestHandler_Unsupported(t *testing.T) {
	h := NewHandler(testStore(), nil, nil)

	_, err := h.Handle(context.Background(), &RequestEnvelope{Request: Request{Type: "Display.ElementSelected"}})
	assert.ErrorIs(t, err, ErrUnsupportedRequest)

	_, err = h.Handle(context.Background(), &RequestEnvelope{Request: Request{Type: RequestTypeIntent}})
	assert.ErrorIs(t, err, ErrUnsupportedRequest)
}

func TestHandler_SeesReplacedSnapshot(t *testing.T) {
	store := testStore()
	h := NewHandler(store, nil, nil)

	store.Replace(reminders.GroupByDay(nil))

	resp, err := h.Handle(context.Background(), intentRequest(IntentReadCalendar, nil))
	require.NoError(t, err)
	assert.Equal(t, EndOfCalendarText, resp.Response.OutputSpeech.Text)
}

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2030-03-05", "2030-03-05"},
		{" 2030-03-05 ", "2030-03-05"},
		{"2030-W10", "2030-03-04"},
		{"2026-W01", "2025-12-29"},
		{"2030-W10-WE", "2030-W10-WE"},
		{"2030-03", "2030-03"},
		{"PRESENT_REF", "PRESENT_REF"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDay(tt.in))
		})
	}
}

func TestRequestEnvelope_Decode(t *testing.T) {
	body := `{
	  "version": "1.0",
	  "session": {"new": true, "sessionId": "s-1", "application": {"applicationId": "amzn1.ask.skill.session"}},
	  "context": {"System": {"application": {"applicationId": "amzn1.ask.skill.context"}}},
	  "request": {
	    "type": "IntentRequest",
	    "requestId": "r-1",
	    "timestamp": "2030-03-04T08:00:00Z",
	    "intent": {"name": "ReadSpecificDayIntent", "slots": {"day": {"name": "day", "value": "2030-03-05"}}}
	  }
	}`

	var req RequestEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "amzn1.ask.skill.context", req.ApplicationID())
	assert.Equal(t, "2030-03-05", req.Request.Intent.SlotValue(SlotDay))

	req.Context = nil
	assert.Equal(t, "amzn1.ask.skill.session", req.ApplicationID())
}

func TestResponseEnvelope_JSON(t *testing.T) {
	b, err := json.Marshal(Statement("Goodbye"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"version":"1.0","response":{"outputSpeech":{"type":"PlainText","text":"Goodbye"},"shouldEndSession":true}}`,
		string(b))

	b, err = json.Marshal(Question("Hi", "Again"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"version":"1.0","response":{"outputSpeech":{"type":"PlainText","text":"Hi"},"reprompt":{"outputSpeech":{"type":"PlainText","text":"Again"}},"shouldEndSession":false}}`,
		string(b))
}
