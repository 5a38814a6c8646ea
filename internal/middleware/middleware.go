package middleware

import (
	"embedhttp/internal/http/header"
)

type RequestMiddleware interface {
	HandleRequest(header header.Headers) error
}

type ResponseMiddleware interface {
	HandleResponse(header header.Headers, body []byte) error
}
