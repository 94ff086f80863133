package proxy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// RouteContext contains all the request information for a route when matched.
type RouteContext struct {
	Context context.Context
	Request events.APIGatewayV2HTTPRequest
	Params  map[string]string

	// Route is the matched route, nil until the router has found one.
	Route *Route

	// CallerID is the authenticated subject of the request, empty when the
	// request is anonymous.
	CallerID string

	// Payload is the JSON decoded request body, nil when no body was sent.
	Payload interface{}
}

// NewRouteContext returns a RouteContext for request with no route attached.
func NewRouteContext(ctx context.Context, request events.APIGatewayV2HTTPRequest) *RouteContext {
	return &RouteContext{
		Context: ctx,
		Request: request,
		Params:  map[string]string{},
	}
}

// Method returns the http method of the request.
func (ctx *RouteContext) Method() string {
	return ctx.Request.RequestContext.HTTP.Method
}

// Path returns the raw request path.
func (ctx *RouteContext) Path() string {
	return ctx.Request.RawPath
}

// Body returns a string representation of the request body
func (ctx *RouteContext) Body() (string, error) {
	if ctx.Request.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(ctx.Request.Body)
		if err != nil {
			return "", errors.Wrapf(err, "unable to decode request body for %s %s", ctx.Method(), ctx.Path())
		}

		return string(b), nil
	}

	return ctx.Request.Body, nil
}

// DecodeJSON parses the request body into Payload. An empty body leaves
// Payload nil.
func (ctx *RouteContext) DecodeJSON() error {
	body, err := ctx.Body()
	if err != nil {
		return err
	}

	if strings.TrimSpace(body) == "" {
		ctx.Payload = nil
		return nil
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return errors.Wrap(err, "malformed json request body")
	}

	ctx.Payload = payload
	return nil
}

// Claim returns the named claim the gateway's jwt authorizer attached to the
// request, or an empty string.
func (ctx *RouteContext) Claim(name string) string {
	authorizer := ctx.Request.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return ""
	}

	return authorizer.JWT.Claims[name]
}
