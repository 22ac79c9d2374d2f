package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the wrapper every endpoint returns.
//
//	{"ok": true,  "code": 0,   "data": {...}}
//	{"ok": false, "code": 203, "msg": "bad input"}
//
// Older endpoints send "message" instead of "msg"; both are accepted.
type Envelope struct {
	OK      bool            `json:"ok"`
	Code    int             `json:"code"`
	Msg     string          `json:"msg,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Text returns the human-readable detail, preferring msg over message.
func (e *Envelope) Text() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

var errNotEnvelope = errors.New("response is not an API envelope")

// DecodeEnvelope parses body as an envelope. A JSON document without an "ok"
// field is rejected so arbitrary error pages are not mistaken for API failures.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var probe struct {
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotEnvelope, err)
	}
	if probe.OK == nil {
		return nil, errNotEnvelope
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotEnvelope, err)
	}
	return &env, nil
}
