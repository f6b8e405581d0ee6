package config

import (
	"fmt"
	"time"
)

type Config struct {
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Mix         MixConfig         `yaml:"mix"`
	Timeouts    TimeoutsConfig    `yaml:"timeouts"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Frames      FramesConfig      `yaml:"frames"`
	Notes       NotesConfig       `yaml:"notes"`
	Paths       PathsConfig       `yaml:"paths"`
	Session     SessionConfig     `yaml:"session"`
	Server      ServerConfig      `yaml:"server"`
	Capture     CaptureConfig     `yaml:"capture"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// PCM target every audio track is normalized to. whisper.cpp only accepts 16 kHz mono.
const (
	PCMSampleRate = 16000
	PCMChannels   = 1
)

// FFmpegConfig locates the media tools and fixes the canonical PCM target.
// SampleRate/Channels may only be left empty or set to PCMSampleRate/PCMChannels.
type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

// MixConfig controls which single track survives when mixing two tracks fails.
type MixConfig struct {
	Fallback string `yaml:"fallback"` // "system" or "mic"
}

type TimeoutsConfig struct {
	Probe      time.Duration `yaml:"probe"`
	Normalize  time.Duration `yaml:"normalize"`
	Mix        time.Duration `yaml:"mix"`
	Mux        time.Duration `yaml:"mux"`
	Transcribe time.Duration `yaml:"transcribe"`
	Summarize  time.Duration `yaml:"summarize"`
}

type WhisperConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type GeminiConfig struct {
	Model           string   `yaml:"model"`
	APIKeys         []string `yaml:"api_keys"`
	MaxImages       int      `yaml:"max_images"`
	MaxChars        int      `yaml:"max_chars"`
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	Temperature     *float32 `yaml:"temperature"` // nil means 0.3; 0 is a valid setting
}

type FramesConfig struct {
	Mode           string  `yaml:"mode"` // "uniform" or "scene"
	EveryNSeconds  float64 `yaml:"every_n_seconds"`
	SceneThreshold float64 `yaml:"scene_threshold"`
	ScaleWidth     int     `yaml:"scale_width"`
	Quality        int     `yaml:"quality"`
	MaxFrames      int     `yaml:"max_frames"`
}

type NotesConfig struct {
	ExportDocx bool `yaml:"export_docx"`
}

type PathsConfig struct {
	Sessions string `yaml:"sessions"`
	Inbox    string `yaml:"inbox"`
	Archived string `yaml:"archived"`
	Database string `yaml:"database"`
}

type SessionConfig struct {
	RetainOnFailure bool          `yaml:"retain_on_failure"`
	Retention       time.Duration `yaml:"retention"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	RequestsPerMin  int           `yaml:"requests_per_min"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CaptureConfig holds the ffmpeg input arguments used by the record command, one set per slot.
// An empty set disables capture for that slot.
type CaptureConfig struct {
	Screen      []string      `yaml:"screen"`
	System      []string      `yaml:"system"`
	Mic         []string      `yaml:"mic"`
	StopTimeout time.Duration `yaml:"stop_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

func (c *Config) Validate() error {
	if c.Paths.Sessions == "" {
		return fmt.Errorf("paths.sessions is required")
	}
	if c.Whisper.Enabled {
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required when whisper is enabled")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required when whisper is enabled")
		}
	}

	switch c.Mix.Fallback {
	case "":
		c.Mix.Fallback = "system"
	case "system", "mic":
	default:
		return fmt.Errorf("mix.fallback must be \"system\" or \"mic\", got %q", c.Mix.Fallback)
	}

	switch c.Frames.Mode {
	case "":
		c.Frames.Mode = "uniform"
	case "uniform", "scene":
	default:
		return fmt.Errorf("frames.mode must be \"uniform\" or \"scene\", got %q", c.Frames.Mode)
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = ResolveFFprobeBin("", c.FFmpeg.BinaryPath)
		if c.FFmpeg.ProbePath == "" {
			c.FFmpeg.ProbePath = "ffprobe"
		}
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = PCMSampleRate
	}
	if c.FFmpeg.SampleRate != PCMSampleRate {
		return fmt.Errorf("ffmpeg.sample_rate must be %d, got %d", PCMSampleRate, c.FFmpeg.SampleRate)
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = PCMChannels
	}
	if c.FFmpeg.Channels != PCMChannels {
		return fmt.Errorf("ffmpeg.channels must be %d, got %d", PCMChannels, c.FFmpeg.Channels)
	}

	if c.Timeouts.Probe == 0 {
		c.Timeouts.Probe = 30 * time.Second
	}
	if c.Timeouts.Normalize == 0 {
		c.Timeouts.Normalize = 5 * time.Minute
	}
	if c.Timeouts.Mix == 0 {
		c.Timeouts.Mix = 5 * time.Minute
	}
	if c.Timeouts.Mux == 0 {
		c.Timeouts.Mux = 10 * time.Minute
	}
	if c.Timeouts.Transcribe == 0 {
		c.Timeouts.Transcribe = 30 * time.Minute
	}
	if c.Timeouts.Summarize == 0 {
		c.Timeouts.Summarize = 5 * time.Minute
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.MaxImages == 0 {
		c.Gemini.MaxImages = 4
	}
	if c.Gemini.MaxChars == 0 {
		c.Gemini.MaxChars = 12000
	}
	if c.Gemini.MaxOutputTokens == 0 {
		c.Gemini.MaxOutputTokens = 800
	}
	if c.Gemini.Temperature == nil {
		temp := float32(0.3)
		c.Gemini.Temperature = &temp
	}
	if *c.Gemini.Temperature < 0 || *c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature must be between 0 and 2, got %v", *c.Gemini.Temperature)
	}

	if c.Frames.EveryNSeconds == 0 {
		c.Frames.EveryNSeconds = 60
	}
	if c.Frames.SceneThreshold == 0 {
		c.Frames.SceneThreshold = 0.35
	}
	if c.Frames.ScaleWidth == 0 {
		c.Frames.ScaleWidth = 1280
	}
	if c.Frames.Quality == 0 {
		c.Frames.Quality = 4
	}
	if c.Frames.MaxFrames == 0 {
		c.Frames.MaxFrames = 6
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}

	if c.Session.Retention == 0 {
		c.Session.Retention = 7 * 24 * time.Hour
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = time.Hour
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 2 << 30
	}
	if c.Server.RequestsPerMin == 0 {
		c.Server.RequestsPerMin = 30
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}

	if c.Capture.StopTimeout == 0 {
		c.Capture.StopTimeout = 10 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
