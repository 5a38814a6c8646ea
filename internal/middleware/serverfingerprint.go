package middleware

import (
	"embedhttp/internal/http/header"
	"embedhttp/internal/version"
)

type ServerFingerprint struct {
	value string
}

func NewServerFingerprint() *ServerFingerprint {
	return &ServerFingerprint{value: version.ServerHeader()}
}

func (h *ServerFingerprint) HandleResponse(header header.Headers, body []byte) error {
	header.Set("Server", h.value)
	return nil
}
