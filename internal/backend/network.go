package backend

const (
	// StatusTransportFailure is reported when no HTTP response was received.
	StatusTransportFailure = -1
	// StatusCancelled is reported for requests dropped by Close.
	StatusCancelled = -2
)

// ResponseCallback receives a completed HTTP exchange. It is invoked only from
// PollRequests or WaitForAllRequests, on the calling goroutine.
type ResponseCallback func(status int, contentType string, body []byte)

type NetworkClient interface {
	CreateRequest(url string, cb ResponseCallback)
	CreatePostRequest(url string, body string, cb ResponseCallback)
	// PollRequests delivers callbacks for every request completed so far.
	PollRequests()
	// WaitForAllRequests blocks until no request is outstanding, delivering callbacks as they complete.
	WaitForAllRequests()
	// Completed returns a channel that is closed once a response becomes ready
	// for PollRequests. Fetch it before polling so no completion is missed.
	Completed() <-chan struct{}
	Close()
}

type NetworkClientFactory func() NetworkClient
