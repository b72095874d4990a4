package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	title, message, icon string
}

func stubNotify(t *testing.T, err error) *[]sent {
	t.Helper()
	var calls []sent
	orig := notifyFunc
	notifyFunc = func(title, message, icon string) error {
		calls = append(calls, sent{title, message, icon})
		return err
	}
	t.Cleanup(func() { notifyFunc = orig })
	return &calls
}

func TestSend(t *testing.T) {
	calls := stubNotify(t, nil)

	n := New(DefaultConfig())
	require.NoError(t, n.Send(context.Background(), Notification{Title: "safe-auth", Message: "safe-auth:abc", Icon: "/icon.png"}))

	require.Len(t, *calls, 1)
	assert.Equal(t, sent{"sysuri: safe-auth", "safe-auth:abc", "/icon.png"}, (*calls)[0])
}

func TestSendKeepsTitleMentioningApp(t *testing.T) {
	calls := stubNotify(t, nil)

	require.NoError(t, New(DefaultConfig()).Send(context.Background(), Notification{Title: "sysuri handled a URI"}))
	assert.Equal(t, "sysuri handled a URI", (*calls)[0].title)
}

func TestSendDisabled(t *testing.T) {
	calls := stubNotify(t, nil)

	require.NoError(t, New(Config{Disabled: true}).Send(context.Background(), Notification{Title: "x"}))
	assert.Empty(t, *calls)
}

func TestSendError(t *testing.T) {
	stubNotify(t, errors.New("no session bus"))

	err := New(DefaultConfig()).Send(context.Background(), Notification{Title: "x"})
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.ErrorContains(t, err, "no session bus")
}

func TestSendCanceled(t *testing.T) {
	calls := stubNotify(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, New(DefaultConfig()).Send(ctx, Notification{Title: "x"}), context.Canceled)
	assert.Empty(t, *calls)
}
