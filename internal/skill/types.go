package skill

// Request types sent by the voice platform.
const (
	RequestTypeLaunch          = "LaunchRequest"
	RequestTypeIntent          = "IntentRequest"
	RequestTypeSessionEnded    = "SessionEndedRequest"
	RequestTypeSystemException = "System.ExceptionEncountered"
)

// Intent names.
const (
	IntentReadCalendar    = "ReadGoogleCalendarIntent"
	IntentReadSpecificDay = "ReadSpecificDayIntent"
	IntentStop            = "AMAZON.StopIntent"
	IntentCancel          = "AMAZON.CancelIntent"
	IntentHelp            = "AMAZON.HelpIntent"

	// SlotDay is the AMAZON.DATE slot of ReadSpecificDayIntent.
	SlotDay = "day"
)

// RequestEnvelope is the body POSTed by the voice platform.
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context *Context `json:"context,omitempty"`
	Request Request  `json:"request"`
}

// ApplicationID returns the skill id the request was sent to.
func (e *RequestEnvelope) ApplicationID() string {
	if e.Context != nil && e.Context.System.Application.ApplicationID != "" {
		return e.Context.System.Application.ApplicationID
	}
	if e.Session != nil {
		return e.Session.Application.ApplicationID
	}
	return ""
}

// Session is the conversation state of a request.
type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// Application identifies the skill.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// Context carries device and system state.
type Context struct {
	System System `json:"System"`
}

// System is the system part of Context.
type System struct {
	Application Application `json:"application"`
}

// Request is the typed request payload.
type Request struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Timestamp string        `json:"timestamp"`
	Locale    string        `json:"locale,omitempty"`
	Intent    *Intent       `json:"intent,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     *RequestError `json:"error,omitempty"`
}

// Intent is a recognized user intent with its slots.
type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

// SlotValue returns the raw value of slot name, or "".
func (i *Intent) SlotValue(name string) string {
	if i == nil {
		return ""
	}
	return i.Slots[name].Value
}

// Slot is one intent argument.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// RequestError is attached to SessionEndedRequest and exception requests.
type RequestError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ResponseEnvelope is the body returned to the voice platform.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          Response       `json:"response"`
}

// Response is the spoken answer.
type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

// OutputSpeech is plain-text speech.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reprompt is spoken when the user does not answer a question.
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

const (
	responseVersion = "1.0"
	speechTypePlain = "PlainText"
)

// Question builds a response that keeps the session open.
func Question(text, reprompt string) *ResponseEnvelope {
	return &ResponseEnvelope{
		Version: responseVersion,
		Response: Response{
			OutputSpeech:     &OutputSpeech{Type: speechTypePlain, Text: text},
			Reprompt:         &Reprompt{OutputSpeech: OutputSpeech{Type: speechTypePlain, Text: reprompt}},
			ShouldEndSession: false,
		},
	}
}

// Statement builds a response that ends the session.
func Statement(text string) *ResponseEnvelope {
	return &ResponseEnvelope{
		Version: responseVersion,
		Response: Response{
			OutputSpeech:     &OutputSpeech{Type: speechTypePlain, Text: text},
			ShouldEndSession: true,
		},
	}
}
