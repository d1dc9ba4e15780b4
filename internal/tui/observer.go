package tui

// ChannelObserver adapts domain.RefreshObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan bool
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan bool) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnRefreshStateChanged sends the state to the channel. When the channel is
// full the oldest pending state is dropped so the newest one always arrives.
func (o *ChannelObserver) OnRefreshStateChanged(refreshing bool) {
	for {
		select {
		case o.ch <- refreshing:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}
