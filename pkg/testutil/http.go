// Package testutil provides common test utilities for handler and
// integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GraphQLRequest is the standard GraphQL-over-HTTP envelope.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError mirrors the error shape of a GraphQL response body.
type GraphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

// GraphQLResponse is a decoded GraphQL response with raw data.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// NewGraphQLRequest builds a POST /graphql request with the query and
// variables marshaled into the JSON envelope.
func NewGraphQLRequest(t *testing.T, query string, variables map[string]any) *http.Request {
	t.Helper()
	body, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	require.NoError(t, err, "failed to marshal graphql request")
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewJSONRequest creates an HTTP request with a JSON body.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeGraphQL unmarshals the recorder body as a GraphQL response.
func DecodeGraphQL(t *testing.T, rr *httptest.ResponseRecorder) *GraphQLResponse {
	t.Helper()
	var resp GraphQLResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "failed to unmarshal graphql response")
	return &resp
}

// UnmarshalData unmarshals the response data into the target struct and
// fails the test when the response carried errors.
func UnmarshalData[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	resp := DecodeGraphQL(t, rr)
	require.Empty(t, resp.Errors, "unexpected graphql errors")
	var result T
	require.NoError(t, json.Unmarshal(resp.Data, &result), "failed to unmarshal data")
	return &result
}

// AssertStatus asserts the response status code matches expected.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code")
}

// AssertGraphQLErrorCode asserts the response carries exactly one error with
// the expected extensions code.
func AssertGraphQLErrorCode(t *testing.T, rr *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	resp := DecodeGraphQL(t, rr)
	require.Len(t, resp.Errors, 1, "expected exactly one graphql error")
	assert.Equal(t, expectedCode, resp.Errors[0].Extensions["code"], "unexpected error code")
}
