package imgsrc

import (
	"context"
	"testing"
)

// fakeCall records one request made through a fakeTransport.
type fakeCall struct {
	Method      string
	Host        string
	Path        string
	Params      Params
	Body        []byte
	ContentType string
}

// fakeNet hands out fakeTransports and records every dial and request.
type fakeNet struct {
	dials []string
	calls []fakeCall

	get  func(host, path string, params Params) (*Response, error)
	post func(host, path string, params Params, body []byte) (*Response, error)
}

func (n *fakeNet) dial(host string) Transport {
	n.dials = append(n.dials, host)
	return &fakeTransport{net: n, host: host}
}

func (n *fakeNet) callsTo(method string) []fakeCall {
	var out []fakeCall
	for _, c := range n.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

type fakeTransport struct {
	net  *fakeNet
	host string
}

func (t *fakeTransport) Host() string { return t.host }

func (t *fakeTransport) Get(ctx context.Context, path string, params Params) (*Response, error) {
	t.net.calls = append(t.net.calls, fakeCall{Method: "GET", Host: t.host, Path: path, Params: params})
	if t.net.get == nil {
		return &Response{StatusCode: 500}, nil
	}
	return t.net.get(t.host, path, params)
}

func (t *fakeTransport) Post(ctx context.Context, path string, params Params, body []byte, contentType string) (*Response, error) {
	t.net.calls = append(t.net.calls, fakeCall{
		Method:      "POST",
		Host:        t.host,
		Path:        path,
		Params:      params,
		Body:        body,
		ContentType: contentType,
	})
	if t.net.post == nil {
		return &Response{StatusCode: 500}, nil
	}
	return t.net.post(t.host, path, params, body)
}

func ok(body string) *Response {
	return &Response{StatusCode: 200, Body: []byte(body)}
}

// value returns the first value for key, and whether it was present.
func (p Params) value(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

const loginTrip = `<info proto="0.8"><status>OK</status><store>3</store><albums><album id="42"><name>Trip</name><photos>5</photos></album></albums></info>`

// newTestClient creates a client wired to a fakeNet.
func newTestClient(t *testing.T, n *fakeNet) *Client {
	t.Helper()

	client, err := NewClient(Config{
		Username:    "alice",
		PasswordMD5: "5f4dcc3b5aa765d61d8327deb882cf99",
		Dial:        n.dial,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// newLoggedInClient creates a client and logs it in with loginTrip.
func newLoggedInClient(t *testing.T, n *fakeNet) *Client {
	t.Helper()

	if n.get == nil {
		n.get = func(host, path string, params Params) (*Response, error) {
			return ok(loginTrip), nil
		}
	}
	client := newTestClient(t, n)
	if _, err := client.Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	n.calls = nil
	return client
}
