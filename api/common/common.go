package common

import "time"

// TOKEN_DURATION is how long a session token stays valid.
const TOKEN_DURATION = 72 * time.Hour

// Response is the envelope every HTTP handler returns. Errors are carried in
// Code/Msg with HTTP status 200.
type Response struct {
	Code      int         `json:"code"`
	Msg       string      `json:"msg"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// HeaderParam collects the request headers the interceptors care about.
type HeaderParam struct {
	Authorization string
	ClientID      string
}
