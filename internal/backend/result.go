package backend

import "fmt"

// Result is the terminal status of an asynchronous runtime request.
type Result int

const (
	ResultOK Result = iota
	ResultInvalidJSON
	ResultLoginRequired
	ResultNoGameLoaded
	ResultAborted
	ResultNoResponse
	ResultInvalidCredentials
	ResultExpiredToken
	ResultAccessDenied
	ResultAPIFailure
	ResultInvalidState
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultInvalidJSON:
		return "invalid json"
	case ResultLoginRequired:
		return "login required"
	case ResultNoGameLoaded:
		return "no game loaded"
	case ResultAborted:
		return "aborted"
	case ResultNoResponse:
		return "no response"
	case ResultInvalidCredentials:
		return "invalid credentials"
	case ResultExpiredToken:
		return "expired token"
	case ResultAccessDenied:
		return "access denied"
	case ResultAPIFailure:
		return "api failure"
	case ResultInvalidState:
		return "invalid state"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Callback receives the terminal result of a login or load request. message is
// the server's explanation when result is not ResultOK.
type Callback func(result Result, message string)

// EntriesCallback receives the terminal result of a leaderboard fetch. list is
// nil unless result is ResultOK.
type EntriesCallback func(result Result, message string, list *EntryList)
