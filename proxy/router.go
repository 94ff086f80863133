package proxy

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ErrRouteNotFound is returned by the router when no route matches and no
// catch all handler is configured.
var ErrRouteNotFound = errors.New("route not found")

// ErrorHandler defines the function interface the router uses to handle any
// error that occurs while processing routes.
type ErrorHandler func(*RouteContext, error) (events.APIGatewayProxyResponse, error)

// CatchAllHandler defines the function interface the router uses to handle any
// request that doesn't match a route.
type CatchAllHandler func(*RouteContext) (events.APIGatewayProxyResponse, error)

// Router will route an incoming events.APIGatewayV2HTTPRequest the appropriate
// route based upon the router configuration and then return the
// events.APIGatewayProxyResponse.
//
// Route matching is a simple process that loops through all routes added in the
// order they were added and checks if a match is present. If so that route gets
// executed, otherwise it moves onto the next route for comparison.
//
// If the CatchAll handler is set any request that doesn't match a route will be
// handled by it.
//
// If the CatchError handler is set any route that returns an error will first
// be passed into the hander for additional processing.
//
// Example:
//
//	func getEmployee(ctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
//		return proxy.JSON(200, map[string]string{"employee_id": ctx.Params["id"]})
//	}
//
//	func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
//		router := &proxy.Router{}
//		router.GET("/employees/{id}", getEmployee)
//
//		if !router.Valid() {
//			return events.APIGatewayProxyResponse{}, router.BuildErrors()
//		}
//
//		return router.Route(ctx, request)
//	}
type Router struct {
	Routes     []*Route
	CatchAll   CatchAllHandler
	CatchError ErrorHandler

	errors []error
}

// Valid returns true if the routers' routes have all been built successfully.
// Otherwise false.
func (router *Router) Valid() bool {
	return len(router.errors) == 0
}

// AddRoute appends route to the list of routes used for request matching.
func (router *Router) AddRoute(route *Route) {
	router.Routes = append(router.Routes, route)
}

// AddBuildError appends an error to the list of router errors.
func (router *Router) AddBuildError(err error) {
	router.errors = append(router.errors, err)
}

// BuildErrors returns a single error that encapsulates all the route errors
// found during router construction.
func (router *Router) BuildErrors() error {
	topError := errors.New("failed building router")

	for _, err := range router.errors {
		topError = errors.Wrap(topError, err.Error())
	}

	return topError
}

// AddRouteIfNoError appends the provided route if no error is present.
// Otherwise it adds the error to the build errors.
//
// This method is provided to simplify router construction with many routes by
// reducing error checking boilerplate.
func (router *Router) AddRouteIfNoError(route *Route, err error) {
	if err != nil {
		router.AddBuildError(err)
	} else {
		router.AddRoute(route)
	}
}

// GET adds a new GET route with the specified path template and handler.
func (router *Router) GET(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(GET, template, handler))
}

// HEAD adds a new HEAD route with the specified path template and handler.
func (router *Router) HEAD(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(HEAD, template, handler))
}

// POST adds a new POST route with the specified path template and handler.
func (router *Router) POST(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(POST, template, handler))
}

// PUT adds a new PUT route with the specified path template and handler.
func (router *Router) PUT(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(PUT, template, handler))
}

// DELETE adds a new DELETE route with the specified path template and handler.
func (router *Router) DELETE(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(DELETE, template, handler))
}

// PATCH adds a new PATCH route with the specified path template and handler.
func (router *Router) PATCH(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(PATCH, template, handler))
}

// OPTIONS adds a new OPTIONS route with the specified path template and handler.
func (router *Router) OPTIONS(template string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(OPTIONS, template, handler))
}

// AddCatchAllHandler attaches a catchall handler to the router.
func (router *Router) AddCatchAllHandler(handler CatchAllHandler) {
	router.CatchAll = handler
}

// AddErrorHandler attaches a error handler to the router.
func (router *Router) AddErrorHandler(handler ErrorHandler) {
	router.CatchError = handler
}

// Match returns the first route, in insertion order, matching method and path
// together with its path parameters. The route is nil when nothing matches.
func (router *Router) Match(method string, path string) (*Route, map[string]string) {
	for _, route := range router.Routes {
		if matched, params := route.IsMatch(method, path); matched {
			return route, params
		}
	}

	return nil, nil
}

// dispatchInternal executes the matched route's handler, the catch all
// handler, or returns ErrRouteNotFound.
func (router *Router) dispatchInternal(rctx *RouteContext) (events.APIGatewayProxyResponse, error) {
	route, params := router.Match(rctx.Method(), rctx.Path())
	if route != nil {
		return route.Follow(rctx, params)
	}

	if router.CatchAll != nil {
		return router.CatchAll(rctx)
	}

	return events.APIGatewayProxyResponse{}, errors.Wrapf(ErrRouteNotFound, "'%s %s'", rctx.Method(), rctx.Path())
}

// Dispatch routes an already prepared RouteContext. Callers use it when they
// need to populate the context (caller identity, decoded body) before
// routing.
//
// If there is an error handler set and an error occurs the error handler is
// executed and its result returned.
func (router *Router) Dispatch(rctx *RouteContext) (events.APIGatewayProxyResponse, error) {
	response, err := router.dispatchInternal(rctx)

	if err != nil && router.CatchError != nil {
		return router.CatchError(rctx, err)
	}

	return response, err
}

// Route loops through all routes and checks if the request matches any of them.
//
// If there is a match it executes the route's handler.
//
// If the catch all handler is set and no route is matched it gets executed.
//
// If there is no catch all handler and no route is matched an error is returned.
func (router *Router) Route(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	return router.Dispatch(NewRouteContext(ctx, request))
}
