package inference

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"

	"github.com/killallgit/media-gateway/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 * 1024

// classifyTransportError maps a failed http.Client.Do into the gateway taxonomy
func classifyTransportError(ctx context.Context, service string, err error) error {
	var netErr net.Error
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.UpstreamTimeout(service, err)
	case stderrors.As(err, &netErr) && netErr.Timeout():
		return errors.UpstreamTimeout(service, err)
	case stderrors.Is(err, context.Canceled) || ctx.Err() != nil:
		// The inbound client went away; nobody will read this response
		return errors.Internal(err)
	default:
		return errors.UpstreamUnreachable(service, err)
	}
}

// classifyStatus converts a non-2xx response into an UpstreamHTTP error
func classifyStatus(service string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return errors.UpstreamHTTP(service, resp.StatusCode, upstreamMessage(body))
}
