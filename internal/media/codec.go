package media

import "errors"

// Codec is an ffmpeg audio encoder name.
type Codec string

// Container is the output container family, used verbatim as the file extension.
type Container string

const (
	CodecOpus   Codec = "libopus"
	CodecVorbis Codec = "libvorbis"
	CodecAAC    Codec = "aac"

	ContainerWebM Container = "webm"
	ContainerMP4  Container = "mp4"
)

// ErrNoAudioEncoder is returned when none of the preferred audio encoders is available.
var ErrNoAudioEncoder = errors.New("no suitable audio encoder found (need libopus, libvorbis or aac)")

// codecPreference is the strict selection order. There is no fourth fallback.
var codecPreference = []struct {
	codec     Codec
	container Container
}{
	{CodecOpus, ContainerWebM},
	{CodecVorbis, ContainerWebM},
	{CodecAAC, ContainerMP4},
}

// SelectCodec picks the first preferred encoder present in available and the container it maps to.
// The result depends only on available.
func SelectCodec(available EncoderSet) (Codec, Container, error) {
	for _, p := range codecPreference {
		if available.Has(string(p.codec)) {
			return p.codec, p.container, nil
		}
	}
	return "", "", ErrNoAudioEncoder
}

// videoEncoders maps ffmpeg video encoder names to the codec their stream carries.
var videoEncoders = map[string]string{
	"libx264":           "h264",
	"h264_videotoolbox": "h264",
	"h264_nvenc":        "h264",
	"libx265":           "hevc",
	"hevc_videotoolbox": "hevc",
	"libvpx":            "vp8",
	"libvpx-vp9":        "vp9",
	"libaom-av1":        "av1",
	"libsvtav1":         "av1",
	"mpeg4":             "mpeg4",
}

// containerVideo lists the video codecs each container takes as a stream copy.
var containerVideo = map[Container]map[string]bool{
	ContainerWebM: {"vp8": true, "vp9": true, "av1": true},
	ContainerMP4:  {"h264": true, "hevc": true, "vp9": true, "av1": true, "mpeg4": true},
}

// VideoEncoderCodec returns the codec produced by an ffmpeg video encoder, or "" if unknown.
func VideoEncoderCodec(encoder string) string {
	return videoEncoders[encoder]
}

// AcceptsVideo reports whether a video stream of codec can be copied into c unchanged.
func (c Container) AcceptsVideo(codec string) bool {
	return containerVideo[c][codec]
}
