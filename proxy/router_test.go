package proxy

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestRouter_Valid_true(t *testing.T) {
	r := &Router{}

	assert.True(t, r.Valid())
}

func TestRouter_Valid_false(t *testing.T) {
	r := &Router{}
	r.AddBuildError(errors.New("some error"))

	assert.False(t, r.Valid())
}

func TestRouter_AddRoute(t *testing.T) {
	r := &Router{}

	assert.Empty(t, r.Routes)

	route, err := NewRoute(GET, "/employees", testHandler)
	assert.NoError(t, err)

	r.AddRoute(route)

	assert.Len(t, r.Routes, 1)
	assert.Equal(t, route, r.Routes[0])

	route2, err := NewRoute(GET, "/employees/{id}", testHandler)
	assert.NoError(t, err)

	r.AddRoute(route2)

	assert.Len(t, r.Routes, 2)
	assert.Equal(t, route2, r.Routes[1])
}

func TestRouter_BuildErrors(t *testing.T) {
	r := &Router{}

	r.AddBuildError(errors.New("some error"))
	r.AddBuildError(errors.New("some other error"))

	err := r.BuildErrors()

	assert.Equal(t, "some other error: some error: failed building router", err.Error())
}

func TestRouter_AddRouteIfNoError(t *testing.T) {
	r := &Router{}

	r.AddRouteIfNoError(NewRoute(GET, "/employees", testHandler))
	r.AddRouteIfNoError(NewRoute(GET, "/employees/{bad-name}", testHandler))

	assert.Len(t, r.Routes, 1)
	assert.False(t, r.Valid())
	assert.Equal(t, "GET /employees", r.Routes[0].String())

	err := r.BuildErrors()
	assert.Equal(t, "failed compiling path template '/employees/{bad-name}': invalid parameter name 'bad-name': failed building router", err.Error())
}

func TestRouter_ConvenienceMethods(t *testing.T) {
	r := &Router{}
	r.GET("/route", testHandler)
	r.HEAD("/route", testHandler)
	r.POST("/route", testHandler)
	r.PUT("/route", testHandler)
	r.DELETE("/route", testHandler)
	r.PATCH("/route", testHandler)
	r.OPTIONS("/route", testHandler)

	assert.Len(t, r.Routes, 7)
	assert.Equal(t, "GET /route", r.Routes[0].String())
	assert.Equal(t, "HEAD /route", r.Routes[1].String())
	assert.Equal(t, "POST /route", r.Routes[2].String())
	assert.Equal(t, "PUT /route", r.Routes[3].String())
	assert.Equal(t, "DELETE /route", r.Routes[4].String())
	assert.Equal(t, "PATCH /route", r.Routes[5].String())
	assert.Equal(t, "OPTIONS /route", r.Routes[6].String())
}

func TestRouter_AddCatchAllHandler(t *testing.T) {
	r := &Router{}

	assert.Nil(t, r.CatchAll)

	r.AddCatchAllHandler(func(ctx *RouteContext) (events.APIGatewayProxyResponse, error) {
		return Message(404, "Endpoint not found"), nil
	})

	assert.NotNil(t, r.CatchAll)
}

func TestRouter_AddErrorHandler(t *testing.T) {
	r := &Router{}

	assert.Nil(t, r.CatchError)

	r.AddErrorHandler(func(ctx *RouteContext, err error) (events.APIGatewayProxyResponse, error) {
		return Message(500, "Server error"), nil
	})

	assert.NotNil(t, r.CatchError)
}

func TestRouter_Match_firstWins(t *testing.T) {
	r := &Router{}
	r.GET("/employees/{id}", namedHandler("first"))
	r.GET("/employees/{other}", namedHandler("second"))

	route, params := r.Match("GET", "/employees/1")

	assert.Equal(t, r.Routes[0], route)
	assert.Equal(t, map[string]string{"id": "1"}, params)
}

func TestRouter_Match_none(t *testing.T) {
	r := &Router{}
	r.GET("/employees", testHandler)

	route, params := r.Match("DELETE", "/employees")

	assert.Nil(t, route)
	assert.Nil(t, params)
}

func TestRouter_Route(t *testing.T) {
	r := &Router{}
	r.GET("/employees", namedHandler("list"))
	r.POST("/employees", namedHandler("create"))
	r.GET("/employees/{id}", namedHandler("get"))
	r.PUT("/employees/{id}", namedHandler("update"))
	r.DELETE("/employees/{id}", namedHandler("delete"))

	assert.True(t, r.Valid())

	cases := []struct {
		method   HttpMethod
		path     string
		expected string
	}{
		{GET, "/employees", "list"},
		{POST, "/employees", "create"},
		{GET, "/employees/1", "get"},
		{PUT, "/employees/1", "update"},
		{DELETE, "/employees/1", "delete"},
	}

	for _, c := range cases {
		response, err := r.Route(context.Background(), testRequest(c.method, c.path))

		assert.NoError(t, err)
		assert.Equal(t, c.expected, response.Body)
	}
}

func TestRouter_Route_notFound(t *testing.T) {
	r := &Router{}
	r.GET("/employees", testHandler)

	_, err := r.Route(context.Background(), testRequest(GET, "/departments"))

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRouteNotFound))
	assert.Contains(t, err.Error(), "'GET /departments'")
}

func TestRouter_Route_catchAll(t *testing.T) {
	r := &Router{}
	r.GET("/employees", testHandler)
	r.AddCatchAllHandler(func(ctx *RouteContext) (events.APIGatewayProxyResponse, error) {
		return Message(404, "Endpoint not found"), nil
	})

	response, err := r.Route(context.Background(), testRequest(GET, "/departments"))

	assert.NoError(t, err)
	assert.Equal(t, 404, response.StatusCode)
}

func TestRouter_Route_catchError(t *testing.T) {
	r := &Router{}
	r.GET("/employees", func(ctx *RouteContext) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("boom")
	})

	var caught error
	r.AddErrorHandler(func(ctx *RouteContext, err error) (events.APIGatewayProxyResponse, error) {
		caught = err
		return Message(500, "Server error"), nil
	})

	response, err := r.Route(context.Background(), testRequest(GET, "/employees"))

	assert.NoError(t, err)
	assert.Equal(t, 500, response.StatusCode)
	assert.EqualError(t, caught, "boom")
}

func TestRouter_Dispatch_preparedContext(t *testing.T) {
	r := &Router{}
	r.PUT("/employees/{id}", func(ctx *RouteContext) (events.APIGatewayProxyResponse, error) {
		return JSON(200, map[string]interface{}{
			"id":      ctx.Params["id"],
			"caller":  ctx.CallerID,
			"payload": ctx.Payload,
		})
	})

	rctx := NewRouteContext(context.Background(), testRequest(PUT, "/employees/9"))
	rctx.CallerID = "user-1"
	rctx.Payload = map[string]interface{}{"role": "Manager"}

	response, err := r.Dispatch(rctx)

	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"9","caller":"user-1","payload":{"role":"Manager"}}`, response.Body)
}
