package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/prognoshealth/employees/proxy"
)

// HandleFunc is the lambda handler signature the gateway drives.
type HandleFunc func(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error)

// gateway plays the part of api gateway in front of the lambda handler: it
// turns http requests into v2 http events and verifies bearer tokens the way
// the jwt authorizer would.
type gateway struct {
	handle HandleFunc
	secret []byte
	logger *zap.Logger
}

// newRouter returns a chi router sending every request through g.
func newRouter(g *gateway) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	r.HandleFunc("/*", g.ServeHTTP)

	return r
}

func (g *gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		_ = r.Body.Close()
	}()

	request, err := toEvent(r)
	if err != nil {
		g.logger.Error("gateway_bad_request", zap.Error(err))
		write(w, proxy.Message(http.StatusBadRequest, "Bad request"))
		return
	}

	if token := bearer(r.Header.Get("Authorization")); token != "" {
		claims, err := g.verify(token)
		if err != nil {
			g.logger.Info("gateway_token_rejected", zap.String("path", r.URL.Path), zap.Error(err))
			write(w, proxy.Message(http.StatusUnauthorized, "Unauthorized"))
			return
		}

		request.RequestContext.Authorizer = &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{Claims: claims},
		}
	}

	requestID := middleware.GetReqID(r.Context())
	request.RequestContext.RequestID = requestID
	ctx := lambdacontext.NewContext(r.Context(), &lambdacontext.LambdaContext{AwsRequestID: requestID})

	response, err := g.handle(ctx, request)
	if err != nil {
		g.logger.Error("gateway_handler_failed", zap.String("request_id", requestID), zap.Error(err))
		write(w, proxy.Message(http.StatusBadGateway, "Internal Server Error"))
		return
	}

	write(w, response)
}

// verify checks an HS256 token against the local secret and returns its
// claims flattened to strings.
func (g *gateway) verify(token string) (map[string]string, error) {
	if len(g.secret) == 0 {
		return nil, errors.New("no jwt secret configured")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed parsing token")
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	claims := make(map[string]string, len(mapClaims))
	for name, value := range mapClaims {
		switch v := value.(type) {
		case string:
			claims[name] = v
		case float64:
			claims[name] = fmt.Sprintf("%.0f", v)
		default:
			claims[name] = fmt.Sprint(v)
		}
	}

	return claims, nil
}

// toEvent converts r into the payload format 2.0 event api gateway sends.
func toEvent(r *http.Request) (events.APIGatewayV2HTTPRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayV2HTTPRequest{}, errors.Wrap(err, "failed reading request body")
	}

	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		headers[strings.ToLower(name)] = strings.Join(values, ",")
	}

	now := time.Now().UTC()

	return events.APIGatewayV2HTTPRequest{
		Version:        "2.0",
		RouteKey:       "$default",
		RawPath:        r.URL.Path,
		RawQueryString: r.URL.RawQuery,
		Headers:        headers,
		Body:           string(body),
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RouteKey:  "$default",
			Stage:     "$default",
			Time:      now.Format("02/Jan/2006:15:04:05 -0700"),
			TimeEpoch: now.UnixMilli(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  r.RemoteAddr,
				UserAgent: r.UserAgent(),
			},
		},
	}, nil
}

func bearer(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

func write(w http.ResponseWriter, response events.APIGatewayProxyResponse) {
	for name, value := range response.Headers {
		w.Header().Set(name, value)
	}

	w.WriteHeader(response.StatusCode)
	if response.Body != "" {
		_, _ = io.WriteString(w, response.Body)
	}
}
