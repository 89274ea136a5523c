package domain

import "fmt"

// EmailMessage is a fully rendered transactional email, consumed once by a
// sender.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// ErrorDetail is the provider's own description of a rejected send.
type ErrorDetail struct {
	Code    int // provider status code; 0 when the provider gives none
	Name    string
	Message string
}

// DispatchResult is the terminal value of the pipeline.
type DispatchResult struct {
	Success           bool
	ProviderMessageID string
	Error             *ErrorDetail
}

func Delivered(messageID string) DispatchResult {
	return DispatchResult{Success: true, ProviderMessageID: messageID}
}

func Rejected(code int, name, message string) DispatchResult {
	return DispatchResult{
		Success: false,
		Error:   &ErrorDetail{Code: code, Name: name, Message: message},
	}
}

// TransportError means the provider could not be reached or answered with
// something unreadable. Nothing is known about whether the email went out.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
