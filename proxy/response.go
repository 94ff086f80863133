package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// CORSHeaders returns the headers attached to every response. A fresh map is
// returned on each call so callers may add to it.
func CORSHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
	}
}

// JSON serializes body into a response with the given status code and the
// CORS headers. A 204 response carries no body.
func JSON(statusCode int, body interface{}) (events.APIGatewayProxyResponse, error) {
	response := events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    CORSHeaders(),
	}

	if statusCode == http.StatusNoContent {
		return response, nil
	}

	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrapf(err, "failed marshalling %d response body", statusCode)
	}

	response.Body = string(b)
	return response, nil
}

// Message returns a JSON response of the form {"message": message}.
func Message(statusCode int, message string) events.APIGatewayProxyResponse {
	// a map of strings always marshals
	response, _ := JSON(statusCode, map[string]string{"message": message})
	return response
}
