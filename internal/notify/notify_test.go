package notify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/studioflow/internal/notify"
)

func TestFanout_DeliversToEveryNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := notify.NewMockNotifier(ctrl)
	second := notify.NewMockNotifier(ctrl)

	payload := map[string]int{"updated": 2}

	gomock.InOrder(
		first.EXPECT().Emit(gomock.Any(), notify.EventProjectsOverdue, payload),
		second.EXPECT().Emit(gomock.Any(), notify.EventProjectsOverdue, payload),
	)

	notify.Fanout{first, nil, second}.Emit(context.Background(), notify.EventProjectsOverdue, payload)
}

func TestLog_WritesEvent(t *testing.T) {
	var buf bytes.Buffer

	n := notify.NewLog(slog.New(slog.NewTextHandler(&buf, nil)))
	n.Emit(context.Background(), notify.EventDocumentCreated, "doc-1")

	assert.Contains(t, buf.String(), "event="+notify.EventDocumentCreated)
	assert.Contains(t, buf.String(), "payload=doc-1")
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, notify.Nop{}, notify.OrNop(nil))

	n := notify.NewLog(nil)
	assert.Same(t, n, notify.OrNop(n))
}
