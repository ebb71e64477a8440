// Package skill dispatches voice-platform requests (Alexa request/response
// JSON) to the reminder renderer.
//
// Every answer is one of two shapes: a question, which keeps the session open
// and carries a reprompt, or a statement, which ends the session. A session
// end notification is acknowledged with an empty body.
package skill
