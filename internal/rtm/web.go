package rtm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flemzord/rtmtail/internal/directory"
	"github.com/slack-go/slack"
)

const conversationsPageSize = 1000

// conversationTypes covers every conversation kind the directory tracks.
var conversationTypes = []string{"public_channel", "private_channel", "mpim", "im"}

// WebProvider assembles the snapshot from users.list and conversations.list
// and obtains the stream URL from rtm.connect. Use it for workspaces where
// rtm.start is no longer available.
type WebProvider struct {
	api *slack.Client
}

// NewWebProvider creates a provider backed by the slack-go client. An empty
// apiURL selects the public Slack endpoint.
func NewWebProvider(token, apiURL string) *WebProvider {
	var opts []slack.Option
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimSuffix(apiURL, "/")+"/"))
	}
	return &WebProvider{api: slack.New(token, opts...)}
}

// Snapshot implements the stream snapshot provider.
func (p *WebProvider) Snapshot(ctx context.Context) (*Session, error) {
	var snap directory.Snapshot

	users, err := p.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("rtm: users.list: %w", err)
	}
	for _, u := range users {
		ent, err := toEntity(u)
		if err != nil {
			return nil, err
		}
		snap.Users = append(snap.Users, ent)
	}

	cursor := ""
	for {
		convs, next, err := p.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Cursor: cursor,
			Limit:  conversationsPageSize,
			Types:  conversationTypes,
		})
		if err != nil {
			return nil, fmt.Errorf("rtm: conversations.list: %w", err)
		}
		for _, c := range convs {
			ent, err := toEntity(c)
			if err != nil {
				return nil, err
			}
			switch {
			case c.IsIM:
				snap.IMs = append(snap.IMs, ent)
			case c.IsMpIM:
				snap.MPIMs = append(snap.MPIMs, ent)
			case c.IsPrivate || c.IsGroup:
				snap.Groups = append(snap.Groups, ent)
			default:
				snap.Channels = append(snap.Channels, ent)
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}

	_, streamURL, err := p.api.ConnectRTMContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("rtm: rtm.connect: %w", err)
	}
	if streamURL == "" {
		return nil, ErrNoURL
	}

	return &Session{URL: streamURL, Snapshot: snap}, nil
}

// toEntity converts a typed slack-go value to the loosely typed form the
// directory stores, using the API's own JSON field names.
func toEntity(v any) (directory.Entity, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rtm: encode entity: %w", err)
	}
	var ent directory.Entity
	if err := json.Unmarshal(data, &ent); err != nil {
		return nil, fmt.Errorf("rtm: decode entity: %w", err)
	}
	return ent, nil
}
