package service

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelopeValidation(t *testing.T) {
	_, err := NewEnvelope("", NewBoardRequest("GetDepartureBoardRequest", "PAD", 8, 120))
	assert.Error(t, err)

	_, err = NewEnvelope("token", nil)
	assert.Error(t, err)
}

func TestToPayloadShape(t *testing.T) {
	req := NewBoardRequest("GetDepartureBoardRequest", "PAD", 8, 120)
	env, err := NewEnvelope("secret-token", req)
	require.NoError(t, err)

	payload, err := env.ToPayload()
	require.NoError(t, err)

	s := string(payload)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<soap:Envelope")
	assert.Contains(t, s, Soapenv)
	assert.Contains(t, s, "<typ:TokenValue>secret-token</typ:TokenValue>")
	assert.Contains(t, s, "<ldb:GetDepartureBoardRequest>")
	assert.Contains(t, s, "<ldb:crs>PAD</ldb:crs>")
	assert.Contains(t, s, "<ldb:numRows>8</ldb:numRows>")
	assert.Contains(t, s, "<ldb:timeWindow>120</ldb:timeWindow>")
}

// fakeHTTPClient captures the outgoing request and returns a canned response.
type fakeHTTPClient struct {
	req    *http.Request
	status int
	body   string
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.req = req
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewBufferString(f.body)),
	}, nil
}

func TestClientRequesterPost(t *testing.T) {
	fake := &fakeHTTPClient{status: 200, body: "<ok/>"}
	cr := &ClientRequester{Client: fake}

	body, status, err := cr.Post("https://example.invalid/OpenLDBWS", "GetDepartureBoard", []byte("<payload/>"))
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "<ok/>", string(body))

	require.NotNil(t, fake.req)
	assert.Equal(t, http.MethodPost, fake.req.Method)
	ct := fake.req.Header.Get("Content-Type")
	assert.Contains(t, ct, "application/soap+xml")
	assert.Contains(t, ct, Soapldb+"GetDepartureBoard")
}

func TestExtractFault(t *testing.T) {
	assert.Equal(t, "Invalid token", ExtractFault(`<soap:Fault><faultstring>Invalid token</faultstring></soap:Fault>`))
	assert.Equal(t, "Unauthorized", ExtractFault(`<soap:Reason><soap:Text xml:lang="en">Unauthorized</soap:Text></soap:Reason>`))
	assert.Equal(t, "", ExtractFault(`<ok/>`))
}
