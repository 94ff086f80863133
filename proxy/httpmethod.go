package proxy

// HttpMethod is an enum of the standard Http Methods.
type HttpMethod int

const (
	GET HttpMethod = iota
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

var httpMethodNames = [...]string{
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	CONNECT: "CONNECT",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
	PATCH:   "PATCH",
}

// String returns the upper case wire name of the method as sent by api
// gateway in requestContext.http.method.
func (m HttpMethod) String() string {
	if m < 0 || int(m) >= len(httpMethodNames) {
		return "HttpMethod(?)"
	}

	return httpMethodNames[m]
}
