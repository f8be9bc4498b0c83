package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/insightdash/insight"
)

const (
	// time allowed for connections to resolve before server shuts down.
	serverShutdownTime = 3 * time.Second
	// heartbeat for websocket connections.
	websocketPingConnections = 5 * time.Second
	websocketWriteTimeout    = 5 * time.Second
)

// errResponse represents the strucuture of an error sent over http.
type errResponse struct {
	Status int    `json:"status"`
	Trace  string `json:"trace"`
}

// SendErr sends the err over http and logs internal errors.
func SendErr(w http.ResponseWriter, r *http.Request, err error) {
	code, message := insight.ErrorCode(err), insight.ErrorMessage(err)

	if code == insight.EINTERNAL {
		LogError(r, err)
	}

	status := FromErrorCodeToStatus(code)
	w.WriteHeader(status)
	WriteJSON(w, errResponse{Status: status, Trace: message})
}

func LogError(r *http.Request, err error) {
	log.Printf("[HTTP] error: %s %s: %s\n", r.URL.Path, r.Method, err)
}

func WriteJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(data)
}

var codes = map[string]int{
	insight.EINVALID:        http.StatusBadRequest,
	insight.ENOTFOUND:       http.StatusNotFound,
	insight.ENOTIMPLEMENTED: http.StatusNotImplemented,
	insight.EINTERNAL:       http.StatusInternalServerError,

	// data-contract violations surface as unprocessable input. The
	// statistical codes never escape the engine but map anyway.
	insight.EINVALIDRECORD:    http.StatusUnprocessableEntity,
	insight.EEMPTYINPUT:       http.StatusInternalServerError,
	insight.EINSUFFICIENTDATA: http.StatusInternalServerError,
	insight.ELENGTHMISMATCH:   http.StatusInternalServerError,
}

// FromErrorCodeToStatus maps an insight error code to a http status code,
// if no mapping is possible status code 500 is returned.
func FromErrorCodeToStatus(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// FromStatusToErrorCode maps a http status code to an insight error code,
// if no mapping is possible insight.EINTERNAL is returned.
func FromStatusToErrorCode(code int) string {
	for k, v := range codes {
		if v == code {
			return k
		}
	}
	return insight.EINTERNAL
}
