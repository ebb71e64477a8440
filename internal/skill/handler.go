package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/logging"
	"github.com/teemow/gcalskill/internal/reminders"
)

// ErrUnsupportedRequest is returned for request types the skill does not handle.
var ErrUnsupportedRequest = errors.New("unsupported request type")

// Spoken texts.
const (
	WelcomeText = "Welcome to Google Calendar. " +
		"You can ask me to read all calendar or read reminders for a specific day"
	HelpText = "You can ask me to read all calendar or read reminders for a specific day. " +
		"For example say 'reminders for today' or 'reminders for Monday 24'."
	EndOfCalendarText = "End of calendar... Goodbye."
	OtherDayText      = "You can ask me for other day."
	GoodbyeText       = "Goodbye"
)

// Handler answers voice requests from the current reminder snapshot.
type Handler struct {
	store   *reminders.Store
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewHandler creates a Handler. metrics and logger may be nil.
func NewHandler(store *reminders.Store, metrics *instrumentation.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, metrics: metrics, logger: logger}
}

// Handle dispatches one request. A nil response with a nil error is an empty
// acknowledgement.
func (h *Handler) Handle(ctx context.Context, req *RequestEnvelope) (*ResponseEnvelope, error) {
	requestType := req.Request.Type
	intent := ""
	if req.Request.Intent != nil {
		intent = req.Request.Intent.Name
	}

	ctx, span := instrumentation.StartSkillSpan(ctx, requestType, intent)
	defer span.End()

	start := time.Now()
	resp, err := h.dispatch(req)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	h.metrics.RecordSkillRequest(ctx, requestType, intent, status)

	h.logger.Info("handled skill request",
		logging.RequestType(requestType),
		logging.Intent(intent),
		logging.Status(status),
		"duration", time.Since(start),
		logging.Err(err))
	return resp, err
}

func (h *Handler) dispatch(req *RequestEnvelope) (*ResponseEnvelope, error) {
	switch req.Request.Type {
	case RequestTypeLaunch:
		return h.Launch(), nil
	case RequestTypeIntent:
		if req.Request.Intent == nil {
			return nil, fmt.Errorf("%w: intent request without intent", ErrUnsupportedRequest)
		}
		return h.Intent(req.Request.Intent), nil
	case RequestTypeSessionEnded:
		h.logger.Debug("session ended", "reason", req.Request.Reason)
		return nil, nil
	case RequestTypeSystemException:
		if req.Request.Error != nil {
			h.logger.Warn("voice platform reported an error",
				"type", req.Request.Error.Type,
				"message", req.Request.Error.Message)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRequest, req.Request.Type)
	}
}

// Launch answers the skill invocation.
func (h *Handler) Launch() *ResponseEnvelope {
	return Question(WelcomeText, HelpText)
}

// Intent answers a recognized intent. Unknown intents get the help prompt.
func (h *Handler) Intent(intent *Intent) *ResponseEnvelope {
	switch intent.Name {
	case IntentReadCalendar:
		return Statement(reminders.RenderAll(h.store.Groups()) + EndOfCalendarText)
	case IntentReadSpecificDay:
		day := NormalizeDay(intent.SlotValue(SlotDay))
		return Question(reminders.RenderDay(day, h.store.Groups())+OtherDayText, OtherDayText)
	case IntentStop, IntentCancel:
		return Statement(GoodbyeText)
	default:
		return Question(HelpText, HelpText)
	}
}

// NormalizeDay turns an AMAZON.DATE slot value into YYYY-MM-DD. A full date
// is kept; an ISO week ("2030-W10") becomes its Monday. Anything else is
// returned unchanged and will not match a day.
func NormalizeDay(value string) string {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.Format(time.DateOnly)
	}

	var year, week int
	if n, err := fmt.Sscanf(value, "%4d-W%2d", &year, &week); err == nil && n == 2 && len(value) == 8 && week >= 1 && week <= 53 {
		return isoWeekMonday(year, week).Format(time.DateOnly)
	}
	return value
}

// isoWeekMonday returns the Monday of ISO week w of year y.
func isoWeekMonday(y, w int) time.Time {
	// January 4th is always in week 1.
	jan4 := time.Date(y, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(w-1)*7)
}
