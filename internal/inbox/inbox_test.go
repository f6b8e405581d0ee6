package inbox

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/processor"
)

func touch(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestIsTrigger(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/standup.screen.webm", true},
		{"/in/a.b.screen.MP4", true},
		{"/in/standup.mic.webm", false},
		{"/in/standup.system.wav", false},
		{"/in/screen.webm", false},
		{"/in/standup.screen.txt", false},
		{"/in/.screen.webm", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrigger(tt.path))
		})
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	screen := touch(t, dir, "standup.screen.webm", "video")
	mic := touch(t, dir, "standup.mic.ogg", "audio")
	touch(t, dir, "other.system.webm", "audio")
	touch(t, dir, "standup.notes.txt", "x")

	b, err := Collect(screen)
	require.NoError(t, err)
	assert.Equal(t, Bundle{Stem: "standup", Screen: screen, Mic: mic}, b)
	assert.Equal(t, []string{screen, mic}, b.Files())

	_, err = Collect(mic)
	require.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, dir, "b.screen.webm", "video")
	a := touch(t, dir, "a.screen.mp4", "video")
	touch(t, dir, "a.mic.webm", "audio")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "x.screen.webm"), 0755))

	got, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, got)
}

type fakeProcessor struct {
	got map[string]string
	err error
}

func (f *fakeProcessor) Process(_ context.Context, u processor.Uploads) (*processor.Result, error) {
	f.got = map[string]string{}
	for slot, up := range map[string]*processor.Upload{"screen": u.Screen, "system": u.System, "mic": u.Mic} {
		if up == nil {
			continue
		}
		data, err := io.ReadAll(up.Body)
		if err != nil {
			return nil, err
		}
		f.got[slot] = string(data)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &processor.Result{SessionID: "s1", VideoPath: "/sessions/s1/final.webm"}, nil
}

func TestHandle(t *testing.T) {
	inbox := t.TempDir()
	archived := filepath.Join(t.TempDir(), "archived")
	screen := touch(t, inbox, "standup.screen.webm", "video")
	touch(t, inbox, "standup.system.webm", "audio system")

	proc := &fakeProcessor{}
	h := NewHandler(proc, archived, logger.New("error"))

	require.NoError(t, h.Handle(context.Background(), screen))
	assert.Equal(t, map[string]string{"screen": "video", "system": "audio system"}, proc.got)

	assert.NoFileExists(t, screen)
	assert.FileExists(t, filepath.Join(archived, "standup.screen.webm"))
	assert.FileExists(t, filepath.Join(archived, "standup.system.webm"))
}

func TestHandleFailureArchivesToFailed(t *testing.T) {
	inbox := t.TempDir()
	archived := filepath.Join(t.TempDir(), "archived")
	screen := touch(t, inbox, "broken.screen.webm", "")

	h := NewHandler(&fakeProcessor{err: processor.ErrMissingRequiredInput}, archived, logger.New("error"))

	err := h.Handle(context.Background(), screen)
	require.ErrorIs(t, err, processor.ErrMissingRequiredInput)
	assert.FileExists(t, filepath.Join(archived, "failed", "broken.screen.webm"))
}

func TestHandleCancelledKeepsInputs(t *testing.T) {
	inbox := t.TempDir()
	screen := touch(t, inbox, "late.screen.webm", "video")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewHandler(&fakeProcessor{err: context.Canceled}, filepath.Join(t.TempDir(), "archived"), logger.New("error"))
	require.ErrorIs(t, h.Handle(ctx, screen), context.Canceled)
	assert.FileExists(t, screen)
}
