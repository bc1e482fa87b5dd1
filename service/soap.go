package service

import (
	"bytes"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// soap.go builds the OpenLDBWS SOAP 1.2 envelope and performs the HTTPS POST.
// Retry policy lives with the caller; this layer reports one round trip.

const (
	Soapenv = "http://www.w3.org/2003/05/soap-envelope"
	Soaptyp = "http://thalesgroup.com/RTTI/2013-11-28/Token/types"
	Soapldb = "http://thalesgroup.com/RTTI/2016-02-16/ldb/"

	// DefaultEndpoint is the single well-known Darwin OpenLDBWS endpoint.
	DefaultEndpoint = "https://lite.realtime.nationalrail.co.uk/OpenLDBWS/ldb9.asmx"

	httpTimeout = 12 * time.Second
)

// Envelope represents the SOAP envelope.
type Envelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	Xmlns   string   `xml:"xmlns:soap,attr"`
	Typ     string   `xml:"xmlns:typ,attr"`
	Ldb     string   `xml:"xmlns:ldb,attr"`
	Header  Header   `xml:"soap:Header"`
	Body    Body     `xml:"soap:Body"`
}

type Header struct {
	AccessToken AccessToken `xml:"typ:AccessToken"`
}

type AccessToken struct {
	TokenValue string `xml:"typ:TokenValue"`
}

type Body struct {
	Content interface{} `xml:",any"`
}

// BoardRequest is the body of a departure or arrival board request. The
// element name carries the mode, so it is set per request via xml.Name.
type BoardRequest struct {
	XMLName    xml.Name
	NumRows    int    `xml:"ldb:numRows"`
	Crs        string `xml:"ldb:crs"`
	TimeOffset int    `xml:"ldb:timeOffset"`
	TimeWindow int    `xml:"ldb:timeWindow"`
}

// NewBoardRequest builds the request body for the given request tag
// (GetDepartureBoardRequest or GetArrivalBoardRequest).
func NewBoardRequest(reqTag, crs string, numRows, timeWindow int) *BoardRequest {
	return &BoardRequest{
		XMLName:    xml.Name{Local: "ldb:" + reqTag},
		NumRows:    numRows,
		Crs:        crs,
		TimeOffset: 0,
		TimeWindow: timeWindow,
	}
}

// NewEnvelope wraps a request body in the SOAP envelope with the access token.
func NewEnvelope(token string, request interface{}) (*Envelope, error) {
	if len(token) == 0 {
		return nil, fmt.Errorf("token is empty")
	}
	if request == nil {
		return nil, fmt.Errorf("request is nil")
	}
	return &Envelope{
		XMLName: xml.Name{Local: "soap:Envelope"},
		Xmlns:   Soapenv,
		Typ:     Soaptyp,
		Ldb:     Soapldb,
		Header:  Header{AccessToken: AccessToken{TokenValue: token}},
		Body:    Body{Content: request},
	}, nil
}

// ToPayload marshals the envelope with the XML declaration prepended.
func (req *Envelope) ToPayload() ([]byte, error) {
	payload, err := xml.Marshal(req)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), payload...), nil
}

// HTTPClient abstracts the transport so tests can inject canned responses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient is the production transport. Certificate validation is
// disabled: the appliance talks to exactly one closed endpoint and carries no
// CA bundle. Connections are not reused between polls.
type StandardHTTPClient struct{}

func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	client := &http.Client{
		Timeout: httpTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
			DisableKeepAlives: true,
		},
	}
	return client.Do(req)
}

// ClientRequester wraps the HTTPClient for SOAP posts.
type ClientRequester struct {
	Client HTTPClient
}

func NewClientRequester() *ClientRequester {
	return &ClientRequester{Client: &StandardHTTPClient{}}
}

// Requester abstracts the SOAP POST for the orchestrator and for tests.
type Requester interface {
	Post(url, method string, payload []byte) (body []byte, status int, err error)
}

// Post performs one SOAP 1.2 POST and returns the body and HTTP status. A
// non-200 status is not an error at this layer; the caller inspects both.
func (cr *ClientRequester) Post(url, method string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	action := Soapldb + method
	req.Header.Set("Content-Type", fmt.Sprintf("application/soap+xml; charset=utf-8; action=%q", action))
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("Connection", "close")

	resp, err := cr.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("error reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// ExtractFault pulls a SOAP fault/reason string out of a failure body for
// diagnostics. Empty when none is present, which is not itself an error.
func ExtractFault(body string) string {
	if s := ExtractTag(body, "faultstring"); s != "" {
		return s
	}
	reason := ExtractTag(body, "Reason")
	return ExtractTag(reason, "Text")
}
