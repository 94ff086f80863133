package proxy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// RouteHandler defines the function interface the route uses to execute a
// request when the route is matched.
type RouteHandler func(*RouteContext) (events.APIGatewayProxyResponse, error)

// Route defines a HttpMethod and path template that are used in combination
// for matching against an incoming request. When a match occurs the
// configured handler is called.
type Route struct {
	Method   HttpMethod
	Template string
	Params   []string
	Regex    *regexp.Regexp
	Handler  RouteHandler
}

var paramName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewRoute returns a Route for the specified method, path template and
// handler. A template segment of the form {name} captures one non empty path
// segment under name; every other segment is matched literally.
func NewRoute(method HttpMethod, template string, handler RouteHandler) (*Route, error) {
	rx, params, err := compileTemplate(template)
	if err != nil {
		return nil, errors.Wrapf(err, "failed compiling path template '%s'", template)
	}

	route := &Route{
		Method:   method,
		Template: template,
		Params:   params,
		Regex:    rx,
		Handler:  handler,
	}

	return route, nil
}

// compileTemplate turns a path template into a regex anchored at both ends.
func compileTemplate(template string) (*regexp.Regexp, []string, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, nil, errors.New("template must start with '/'")
	}

	var (
		sb     strings.Builder
		params []string
		seen   = map[string]bool{}
	)

	sb.WriteString("^")
	for _, segment := range strings.Split(template[1:], "/") {
		sb.WriteString("/")

		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			name := segment[1 : len(segment)-1]
			if !paramName.MatchString(name) {
				return nil, nil, errors.Errorf("invalid parameter name '%s'", name)
			}
			if seen[name] {
				return nil, nil, errors.Errorf("duplicate parameter name '%s'", name)
			}
			seen[name] = true
			params = append(params, name)

			sb.WriteString("(?P<" + name + ">[^/]+)")
			continue
		}

		if strings.ContainsAny(segment, "{}") {
			return nil, nil, errors.Errorf("unbalanced braces in segment '%s'", segment)
		}

		sb.WriteString(regexp.QuoteMeta(segment))
	}
	sb.WriteString("$")

	rx, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, nil, err
	}

	return rx, params, nil
}

// String returns a string representation of this route.
func (route *Route) String() string {
	return fmt.Sprintf("%s %s", route.Method, route.Template)
}

// IsMatch returns true and the captured path parameters when method and path
// match the route. The method comparison is case sensitive.
func (route *Route) IsMatch(method string, path string) (bool, map[string]string) {
	if route.Method.String() != method {
		return false, nil
	}

	groups := route.Regex.FindStringSubmatch(path)
	if len(groups) == 0 {
		return false, nil
	}

	params := make(map[string]string, len(route.Params))
	for i, name := range route.Regex.SubexpNames() {
		if i != 0 && name != "" {
			params[name] = groups[i]
		}
	}

	return true, params
}

// Follow executes the route's handler with the given context after attaching
// the matched path parameters.
func (route *Route) Follow(rctx *RouteContext, params map[string]string) (events.APIGatewayProxyResponse, error) {
	if rctx == nil {
		return events.APIGatewayProxyResponse{}, errors.Errorf("no context available for route %v", route)
	}

	rctx.Params = params
	rctx.Route = route

	return route.Handler(rctx)
}
