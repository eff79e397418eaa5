package ffmpeg

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV encodes a quarter second sawtooth as 16-bit PCM WAV
func writeTestWAV(t *testing.T, path string, sampleRate, channels int) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, sampleRate, 16, channels, wavFormatPCM)
	frames := sampleRate / 4
	data := make([]int, frames*channels)
	for i := range data {
		data[i] = (i % 200) * 100
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestNew(t *testing.T) {
	ffmpeg := New("ffmpeg", "ffprobe", 30*time.Second)
	if ffmpeg.ffmpegPath != "ffmpeg" {
		t.Errorf("Expected ffmpegPath to be 'ffmpeg', got %s", ffmpeg.ffmpegPath)
	}
	if ffmpeg.ffprobePath != "ffprobe" {
		t.Errorf("Expected ffprobePath to be 'ffprobe', got %s", ffmpeg.ffprobePath)
	}
	if ffmpeg.timeout != 30*time.Second {
		t.Errorf("Expected timeout to be 30s, got %v", ffmpeg.timeout)
	}
	if ffmpeg.FFmpegPath() != "ffmpeg" {
		t.Errorf("Expected FFmpegPath() to be 'ffmpeg', got %s", ffmpeg.FFmpegPath())
	}
}

func TestInspectWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")
	writeTestWAV(t, path, 44100, 2)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	format, err := InspectWAV(data)
	if err != nil {
		t.Fatalf("InspectWAV failed: %v", err)
	}
	if format.SampleRate != 44100 {
		t.Errorf("Expected 44100 Hz, got %d", format.SampleRate)
	}
	if format.Channels != 2 {
		t.Errorf("Expected 2 channels, got %d", format.Channels)
	}
	if format.BitDepth != 16 {
		t.Errorf("Expected 16 bit, got %d", format.BitDepth)
	}
}

func TestInspectWAVRejectsGarbage(t *testing.T) {
	tests := map[string][]byte{
		"empty":  {},
		"text":   []byte("definitely not a riff header"),
		"id3tag": append([]byte("ID3"), make([]byte, 64)...),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := InspectWAV(data)
			if !errors.Is(err, ErrInvalidOutput) {
				t.Errorf("Expected ErrInvalidOutput, got %v", err)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	output := &ffprobeOutput{}
	output.Format.Duration = "12.500000"
	output.Format.Size = "200000"
	output.Format.Bitrate = "128000"
	output.Format.FormatName = "mp3"
	output.Streams = append(output.Streams, struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	}{CodecType: "audio", CodecName: "mp3", SampleRate: "44100", Channels: 2})

	metadata, err := parseMetadata(output, "clip.mp3")
	if err != nil {
		t.Fatalf("parseMetadata failed: %v", err)
	}
	if metadata.Duration != 12.5 {
		t.Errorf("Expected duration 12.5, got %f", metadata.Duration)
	}
	if metadata.SampleRate != 44100 || metadata.Channels != 2 {
		t.Errorf("Unexpected layout %d Hz / %d ch", metadata.SampleRate, metadata.Channels)
	}
	if metadata.Bitrate != 128000 || metadata.Size != 200000 {
		t.Errorf("Unexpected bitrate/size %d / %d", metadata.Bitrate, metadata.Size)
	}
	if metadata.Codec != "mp3" || metadata.Format != "mp3" {
		t.Errorf("Unexpected codec/format %s / %s", metadata.Codec, metadata.Format)
	}
}

func TestParseMetadataNoAudioStream(t *testing.T) {
	output := &ffprobeOutput{}
	output.Format.FormatName = "png_pipe"

	_, err := parseMetadata(output, "cover.png")
	if !errors.Is(err, ErrInvalidAudioFile) {
		t.Errorf("Expected ErrInvalidAudioFile, got %v", err)
	}

	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("Expected ProcessingError, got %T", err)
	}
	if procErr.Operation != "metadata_validation" {
		t.Errorf("Expected operation metadata_validation, got %s", procErr.Operation)
	}
}

// requireBinaries skips integration tests when ffmpeg/ffprobe are not installed
func requireBinaries(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("FFmpeg binaries not available: %v", err)
		}
	}
}

// writeScript installs an executable shell script standing in for ffmpeg
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestResampleToWAVCancelled(t *testing.T) {
	// exec replaces the shell so the kill reaches the sleeping process
	ffmpeg := New(writeScript(t, "exec sleep 5"), "ffprobe", 0)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	dir := t.TempDir()
	err := ffmpeg.ResampleToWAV(ctx, filepath.Join(dir, "in"), filepath.Join(dir, "out.wav"), ResampleOptions{SampleRate: 16000, Channels: 1})
	if !errors.Is(err, ErrProcessingCancelled) {
		t.Fatalf("Expected ErrProcessingCancelled, got %v", err)
	}
	if errors.Is(err, ErrInvalidAudioFile) {
		t.Error("Cancellation must not be reported as invalid audio")
	}
}

func TestResampleToWAVDeadline(t *testing.T) {
	ffmpeg := New(writeScript(t, "exec sleep 5"), "ffprobe", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dir := t.TempDir()
	err := ffmpeg.ResampleToWAV(ctx, filepath.Join(dir, "in"), filepath.Join(dir, "out.wav"), ResampleOptions{SampleRate: 16000, Channels: 1})
	if !errors.Is(err, ErrProcessingTimeout) {
		t.Fatalf("Expected ErrProcessingTimeout, got %v", err)
	}
}

func TestResampleToWAVFailure(t *testing.T) {
	ffmpeg := New(writeScript(t, "echo 'Invalid data found when processing input' >&2; exit 1"), "ffprobe", 0)

	dir := t.TempDir()
	err := ffmpeg.ResampleToWAV(context.Background(), filepath.Join(dir, "in"), filepath.Join(dir, "out.wav"), ResampleOptions{SampleRate: 16000, Channels: 1})
	if !errors.Is(err, ErrInvalidAudioFile) {
		t.Fatalf("Expected ErrInvalidAudioFile, got %v", err)
	}
	var procErr *ProcessingError
	if !errors.As(err, &procErr) || !strings.Contains(procErr.Stderr, "Invalid data") {
		t.Errorf("Expected stderr to be kept, got %v", err)
	}
}

func TestVersionWithRealBinary(t *testing.T) {
	requireBinaries(t)
	ffmpeg := New("ffmpeg", "ffprobe", 30*time.Second)

	line, err := ffmpeg.Version(context.Background())
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if len(line) == 0 {
		t.Error("Expected non-empty version line")
	}
}

func TestConvertBytesWithRealBinary(t *testing.T) {
	requireBinaries(t)
	ffmpeg := New("ffmpeg", "ffprobe", 30*time.Second)

	dir := t.TempDir()
	src := filepath.Join(dir, "source.wav")
	writeTestWAV(t, src, 44100, 2)
	input, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	for _, rate := range []int{16000, 48000} {
		opts := ResampleOptions{SampleRate: rate, Channels: 1, TempDir: dir}
		conversion, err := ffmpeg.ConvertBytes(context.Background(), input, opts)
		if err != nil {
			t.Fatalf("ConvertBytes(%d) failed: %v", rate, err)
		}
		if conversion.Format.SampleRate != rate {
			t.Errorf("Expected %d Hz, got %d", rate, conversion.Format.SampleRate)
		}
		if conversion.Format.Channels != 1 {
			t.Errorf("Expected mono output, got %d channels", conversion.Format.Channels)
		}
		if conversion.InputLen != len(input) {
			t.Errorf("Expected InputLen %d, got %d", len(input), conversion.InputLen)
		}
		if conversion.Source != nil && conversion.Source.Channels != 2 {
			t.Errorf("Expected stereo source, got %d channels", conversion.Source.Channels)
		}
	}

	// Work directories must not leak into TempDir
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the fixture in temp dir, found %d entries", len(entries))
	}
}

func TestConvertBytesCorruptInput(t *testing.T) {
	requireBinaries(t)
	ffmpeg := New("ffmpeg", "ffprobe", 30*time.Second)

	opts := ResampleOptions{SampleRate: 16000, Channels: 1, TempDir: t.TempDir()}
	_, err := ffmpeg.ConvertBytes(context.Background(), []byte("this is not audio"), opts)
	if !errors.Is(err, ErrInvalidAudioFile) {
		t.Errorf("Expected ErrInvalidAudioFile, got %v", err)
	}
}
