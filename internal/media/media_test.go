package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const encodersOutput = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ..S... = Slice-level multithreading
 ...X.. = Codec is experimental
 ....B. = Supports draw_horiz_band
 .....D = Supports direct rendering method 1
 ------
 V....D libvpx               libvpx VP8 (codec vp8)
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libopus              libopus Opus (codec opus)
 A....D pcm_s16le            PCM signed 16-bit little-endian
 S..... srt                  SubRip subtitle
`

func TestParseEncoders(t *testing.T) {
	set := ParseEncoders(encodersOutput)

	assert.True(t, set.Has("aac"))
	assert.True(t, set.Has("libopus"))
	assert.True(t, set.Has("pcm_s16le"))
	assert.False(t, set.Has("libvpx"), "video encoders are not audio encoders")
	assert.False(t, set.Has("srt"))
	assert.False(t, set.Has("Audio"), "legend lines must be skipped")
	assert.Len(t, set, 3)
}

func TestSelectCodec(t *testing.T) {
	tests := []struct {
		name          string
		available     EncoderSet
		wantCodec     Codec
		wantContainer Container
		wantErr       bool
	}{
		{"all available prefers opus", NewEncoderSet("libopus", "libvorbis", "aac"), CodecOpus, ContainerWebM, false},
		{"vorbis over aac", NewEncoderSet("libvorbis", "aac"), CodecVorbis, ContainerWebM, false},
		{"aac maps to mp4", NewEncoderSet("aac", "pcm_s16le"), CodecAAC, ContainerMP4, false},
		{"opus without vorbis", NewEncoderSet("libopus", "aac"), CodecOpus, ContainerWebM, false},
		{"none available", NewEncoderSet("pcm_s16le", "flac"), "", "", true},
		{"empty set", NewEncoderSet(), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, container, err := SelectCodec(tt.available)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoAudioEncoder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCodec, codec)
			assert.Equal(t, tt.wantContainer, container)
		})
	}
}

func TestSelectCodecDeterministic(t *testing.T) {
	set := NewEncoderSet("aac", "libvorbis")
	c1, k1, _ := SelectCodec(set)
	for i := 0; i < 20; i++ {
		c, k, err := SelectCodec(set)
		require.NoError(t, err)
		assert.Equal(t, c1, c)
		assert.Equal(t, k1, k)
	}
}

type stubExecutor struct {
	out  string
	err  error
	args []string
}

func (s *stubExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	s.args = append([]string{name}, args...)
	return s.out, s.err
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		err     error
		wantErr error
		video   int
		audio   int
	}{
		{
			name:  "video and audio",
			out:   `{"streams":[{"index":0,"codec_type":"video","codec_name":"vp8"},{"index":1,"codec_type":"audio","codec_name":"opus"}],"format":{"format_name":"matroska,webm","duration":"12.5"}}`,
			video: 1,
			audio: 1,
		},
		{
			name:    "no streams",
			out:     `{"streams":[],"format":{"format_name":"matroska,webm"}}`,
			wantErr: ErrNoDecodableStream,
		},
		{
			name:    "stream without codec",
			out:     `{"streams":[{"index":0,"codec_type":"audio","codec_name":""}],"format":{}}`,
			wantErr: ErrNoDecodableStream,
		},
		{
			name: "ffprobe failure",
			err:  errors.New("exit status 1"),
		},
		{
			name: "garbage output",
			out:  "not json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExecutor{out: tt.out, err: tt.err}
			info, err := NewProber(stub, "").Probe(context.Background(), "/tmp/x.webm")

			if tt.video+tt.audio == 0 {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.video, info.Count("video"))
			assert.Equal(t, tt.audio, info.Count("audio"))
			assert.Equal(t, "ffprobe", stub.args[0])
			assert.Equal(t, "/tmp/x.webm", stub.args[len(stub.args)-1])
		})
	}
}

func TestListEncoders(t *testing.T) {
	stub := &stubExecutor{out: encodersOutput}
	set, err := ListEncoders(context.Background(), stub, "/usr/bin/ffmpeg")
	require.NoError(t, err)
	assert.True(t, set.Has("libopus"))
	assert.Equal(t, []string{"/usr/bin/ffmpeg", "-hide_banner", "-encoders"}, stub.args)

	_, err = ListEncoders(context.Background(), &stubExecutor{err: errors.New("boom")}, "ffmpeg")
	require.Error(t, err)
}

func TestContainerAcceptsVideo(t *testing.T) {
	tests := []struct {
		encoder   string
		container Container
		want      bool
	}{
		{"libvpx-vp9", ContainerWebM, true},
		{"libvpx-vp9", ContainerMP4, true},
		{"libvpx", ContainerWebM, true},
		{"libx264", ContainerMP4, true},
		{"libx264", ContainerWebM, false},
		{"libx265", ContainerWebM, false},
		{"libsvtav1", ContainerWebM, true},
	}

	for _, tt := range tests {
		t.Run(tt.encoder+"/"+string(tt.container), func(t *testing.T) {
			codec := VideoEncoderCodec(tt.encoder)
			require.NotEmpty(t, codec)
			assert.Equal(t, tt.want, tt.container.AcceptsVideo(codec))
		})
	}

	assert.Empty(t, VideoEncoderCodec("prores_ks"))
	assert.False(t, ContainerWebM.AcceptsVideo(""))
}

func TestKnownExtension(t *testing.T) {
	assert.True(t, KnownExtension(".webm"))
	assert.True(t, KnownExtension(".MKV"))
	assert.False(t, KnownExtension(".txt"))
	assert.False(t, KnownExtension(""))
}
