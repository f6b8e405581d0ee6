package capture

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

// recorderScript stands in for ffmpeg: the output path arrives as $0 and is written on SIGINT.
const recorderScript = `trap 'echo captured > "$0"; exit 0' INT; while :; do sleep 0.05; done`

// stubbornScript ignores SIGINT and must be killed.
const stubbornScript = `trap '' INT; while :; do sleep 0.05; done`

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCaptureStopWritesFiles(t *testing.T) {
	requireShell(t)
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	c := New(config.CaptureConfig{
		Screen:      []string{"-c", recorderScript},
		Mic:         []string{"-c", recorderScript},
		StopTimeout: 5 * time.Second,
	}, "sh", logger.New("error"))

	h, err := c.Start(context.Background(), dir, "standup")
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	files, err := h.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "standup.screen.mkv"), files.Screen)
	assert.Equal(t, filepath.Join(dir, "standup.mic.wav"), files.Mic)
	assert.Empty(t, files.System, "unconfigured slot is not recorded")

	again, err := h.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, files, again)
}

func TestCaptureKillsAfterGrace(t *testing.T) {
	requireShell(t)

	c := New(config.CaptureConfig{
		Screen:      []string{"-c", stubbornScript},
		StopTimeout: 200 * time.Millisecond,
	}, "sh", logger.New("error"))

	h, err := c.Start(context.Background(), t.TempDir(), "stuck")
	require.NoError(t, err)

	start := time.Now()
	_, err = h.Stop(context.Background())
	require.ErrorIs(t, err, ErrNothingCaptured)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCaptureHandlesAreIndependent(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	c := New(config.CaptureConfig{Screen: []string{"-c", recorderScript}}, "sh", logger.New("error"))

	a, err := c.Start(context.Background(), dir, "a")
	require.NoError(t, err)
	b, err := c.Start(context.Background(), dir, "b")
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	fa, err := a.Stop(context.Background())
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "b.screen.mkv"))
	assert.True(t, os.IsNotExist(statErr), "stopping one handle leaves the other recording")

	fb, err := b.Stop(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, fa.Screen, fb.Screen)
}

func TestCaptureWithoutInputs(t *testing.T) {
	c := New(config.CaptureConfig{}, "ffmpeg", logger.New("error"))
	_, err := c.Start(context.Background(), t.TempDir(), "x")
	require.Error(t, err)
}

func TestVideoEncoder(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short flag", []string{"-f", "x11grab", "-i", ":0", "-c:v", "libvpx-vp9"}, "libvpx-vp9"},
		{"vcodec", []string{"-i", ":0", "-vcodec", "libx264"}, "libx264"},
		{"last one wins", []string{"-c:v", "libx264", "-codec:v", "libvpx"}, "libvpx"},
		{"unset", []string{"-i", ":0"}, ""},
		{"dangling flag", []string{"-i", ":0", "-c:v"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoEncoder(tt.args))
		})
	}
}

// The sample config's screen recording must be stream-copyable into every final container.
func TestSampleConfigScreenFitsEveryContainer(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "config.yaml"))
	require.NoError(t, err)

	encoder := VideoEncoder(cfg.Capture.Screen)
	codec := media.VideoEncoderCodec(encoder)
	require.NotEmpty(t, codec, "unknown screen encoder %q", encoder)

	for _, container := range []media.Container{media.ContainerWebM, media.ContainerMP4} {
		assert.True(t, container.AcceptsVideo(codec), "%s video cannot be copied into final.%s", codec, container)
	}
}
