package webhdfs

import (
	"context"
	"errors"
	"net/http"

	"github.com/Ratio1/webhdfs_sdk_go/internal/httpx"
)

// transfer describes one redirect-driven operation.
type transfer struct {
	op     Operation
	method string
}

var (
	createTransfer = transfer{op: OpCreate, method: http.MethodPut}
	appendTransfer = transfer{op: OpAppend, method: http.MethodPost}
	openTransfer   = transfer{op: OpOpen, method: http.MethodGet}
)

var octetStream = http.Header{"Content-Type": []string{"application/octet-stream"}}

// call runs one exchange. Failures of the exchange itself become
// *TransportError; every status code is returned as a response.
func (c *Client) call(ctx context.Context, op Operation, target string, phase Phase, req *httpx.Request) (*httpx.Response, error) {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		var reqErr *httpx.RequestError
		if errors.As(err, &reqErr) {
			err = reqErr.Err
		}
		return nil, &TransportError{Op: op, Target: target, Phase: phase, Method: req.Method, URL: req.URL, Err: err}
	}
	return resp, nil
}

// location extracts the phase 2 target from a redirect.
func location(op Operation, target, method string, resp *httpx.Response) (string, error) {
	loc, err := resp.Location()
	if err != nil {
		if errors.Is(err, httpx.ErrNoLocation) {
			err = ErrMissingLocation
		}
		u := ""
		if resp.URL != nil {
			u = resp.URL.String()
		}
		return "", &TransportError{Op: op, Target: target, Phase: PhaseInitiate, Method: method, URL: u, Err: err}
	}
	return loc.String(), nil
}

// send pushes the local file at localPath to remotePath. Phase 1 must answer
// 307; the file is read only then and sent whole to the Location target,
// which must answer 200 or 201. Phase 1 is never repeated.
func (c *Client) send(ctx context.Context, t transfer, target, remotePath, localPath string) (int64, error) {
	resp, err := c.call(ctx, t.op, target, PhaseInitiate, &httpx.Request{
		Method: t.method,
		URL:    buildURL(c.endpoint, remotePath, t.op),
	})
	if err != nil {
		return 0, err
	}
	if !resp.IsRedirect() {
		return 0, newRemoteError(t.op, target, PhaseInitiate, resp)
	}
	dataURL, err := location(t.op, target, t.method, resp)
	if err != nil {
		return 0, err
	}

	data, err := c.local.ReadFile(localPath)
	if err != nil {
		return 0, &LocalIOError{Op: t.op, Path: localPath, Err: err}
	}

	resp, err = c.call(ctx, t.op, target, PhaseData, &httpx.Request{
		Method: t.method,
		URL:    dataURL,
		Header: octetStream,
		Body:   data,
	})
	if err != nil {
		return 0, err
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return int64(len(data)), nil
	default:
		return 0, newRemoteError(t.op, target, PhaseData, resp)
	}
}

// receive fetches remotePath into localPath. Phase 1 may answer 200 with the
// content directly, or 307; the Location target is then fetched with
// redirects allowed and must answer 200. The destination is created or
// truncated only once the content is in hand.
func (c *Client) receive(ctx context.Context, target, remotePath, localPath string) (int64, error) {
	t := openTransfer
	resp, err := c.call(ctx, t.op, target, PhaseInitiate, &httpx.Request{
		Method: t.method,
		URL:    buildURL(c.endpoint, remotePath, t.op),
	})
	if err != nil {
		return 0, err
	}

	switch {
	case resp.IsRedirect():
		dataURL, err := location(t.op, target, t.method, resp)
		if err != nil {
			return 0, err
		}
		resp, err = c.call(ctx, t.op, target, PhaseData, &httpx.Request{
			Method:          t.method,
			URL:             dataURL,
			FollowRedirects: true,
		})
		if err != nil {
			return 0, err
		}
		if resp.StatusCode != http.StatusOK {
			return 0, newRemoteError(t.op, target, PhaseData, resp)
		}
	case resp.StatusCode == http.StatusOK:
	default:
		return 0, newRemoteError(t.op, target, PhaseInitiate, resp)
	}

	if err := c.local.WriteFile(localPath, resp.Body); err != nil {
		return 0, &LocalIOError{Op: t.op, Path: localPath, Err: err}
	}
	return int64(len(resp.Body)), nil
}
