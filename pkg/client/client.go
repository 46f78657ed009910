package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Client talks to the daemon over its unix socket.
type Client struct {
	httpc          http.Client
	unixSocketPath string
}

func NewClient(unixSocketPath string) *Client {
	return &Client{
		unixSocketPath: unixSocketPath,
		httpc: http.Client{
			Transport: &http.Transport{
				DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
					conn, err := net.Dial("unix", unixSocketPath)
					if err != nil {
						// errors.Is unwraps the net.OpError; os.IsNotExist
						// would not.
						if errors.Is(err, os.ErrNotExist) {
							return nil, ErrDaemonNotRunning
						}
						if errors.Is(err, os.ErrPermission) {
							return nil, ErrPermissionDenied
						}
						// A stale socket file gives ECONNREFUSED instead of ENOENT.
						if errors.Is(err, syscall.ECONNREFUSED) {
							return nil, ErrDaemonNotRunning
						}
						logrus.Errorf("failed to connect to unix socket: %v", err)
						return nil, err
					}
					return conn, err
				},
			},
		},
	}
}

func (c *Client) Send(method string, path string, data string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"data":   data,
		"unix":   c.unixSocketPath,
	}).Debug("sending request")

	var resp *http.Response
	var err error

	switch method {
	case "GET":
		resp, err = c.httpc.Get("http://unix" + path)
	case "POST":
		resp, err = c.httpc.Post("http://unix"+path, "application/octet-stream", strings.NewReader(data))
	case "PUT":
		req, err2 := http.NewRequest("PUT", "http://unix"+path, strings.NewReader(data))
		if err2 != nil {
			return "", fmt.Errorf("failed to create request: %w", err2)
		}
		resp, err = c.httpc.Do(req)
	default:
		return "", fmt.Errorf("unknown method: %s", method)
	}

	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	body := string(b)

	code := resp.StatusCode

	logrus.WithFields(logrus.Fields{
		"code": code,
		"body": body,
	}).Debug("got response")

	if code == http.StatusNotFound {
		return "", ErrNotFound
	}
	if code < 200 || code > 299 {
		return "", fmt.Errorf("got %d: %s", code, body)
	}

	return body, nil
}

func (c *Client) Get(path string) (string, error) {
	return c.Send("GET", path, "")
}

func (c *Client) Put(path string, data string) (string, error) {
	return c.Send("PUT", path, data)
}
