package rtm

import (
	"context"

	"github.com/flemzord/rtmtail/internal/directory"
)

// Session is what a snapshot provider hands to the stream runner: the
// workspace snapshot and, when streaming, the websocket URL to connect to.
type Session struct {
	URL      string
	Snapshot directory.Snapshot
}

// RTMProvider fetches the snapshot with a single rtm.start call.
type RTMProvider struct {
	Client *Client
}

// Snapshot implements the stream snapshot provider.
func (p *RTMProvider) Snapshot(ctx context.Context) (*Session, error) {
	return p.Client.StartRTM(ctx)
}
