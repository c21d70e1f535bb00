package video

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Contains video file information
type Metadata struct {
	Width      int
	Height     int
	FPS        float64
	Duration   time.Duration
	Codec      string
	FrameCount int
}

// Checks if metadata has all the required fields
func (m *Metadata) IsValid() bool {
	return m.Width > 0 && m.Height > 0 && m.FrameCount > 0
}

// Extracts metadata from the video file
func Probe(path string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	meta := &Metadata{}

	// Probe video stream
	if err := probeVideoStream(ctx, path, meta); err != nil {
		return nil, err
	}

	// Probe Duration
	probeDuration(ctx, path, meta)

	// Set defaults
	if meta.FPS <= 0 {
		meta.FPS = 25
	}

	// The container's sample table is exact, prefer it
	if isMP4Family(path) {
		if n, err := CountContainerFrames(path); err == nil && n > 0 {
			meta.FrameCount = n
		}
	}
	if meta.FrameCount <= 0 {
		meta.FrameCount = estimateFrameCount(meta.Duration, meta.FPS)
	}

	if !meta.IsValid() {
		return nil, ErrNoVideoStream
	}

	return meta, nil
}

func probeVideoStream(ctx context.Context, path string, meta *Metadata) error {
	// Video stream info
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,codec_name,nb_frames",
		"-of", "default=noprint_wrappers=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("ffprobe failed: %w", err)
	}

	parseProbeOutput(string(out), meta)
	return nil
}

func parseProbeOutput(output string, meta *Metadata) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}

		key := line[:idx]
		val := line[idx+1:]

		switch key {
		case "width":
			meta.Width, _ = strconv.Atoi(val)
		case "height":
			meta.Height, _ = strconv.Atoi(val)
		case "r_frame_rate":
			meta.FPS = parseFPS(val)
		case "codec_name":
			meta.Codec = val
		case "nb_frames":
			// "N/A" for containers without a frame index
			meta.FrameCount, _ = strconv.Atoi(val)
		}
	}
}

func probeDuration(ctx context.Context, path string, meta *Metadata) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return
	}

	if dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64); err == nil && dur > 0 {
		meta.Duration = time.Duration(dur * float64(time.Second))
	}
}

func parseFPS(s string) float64 {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "/"); idx > 0 {
		num, _ := strconv.ParseFloat(s[:idx], 64)
		den, _ := strconv.ParseFloat(s[idx+1:], 64)
		if den > 0 {
			return num / den
		}
		return 0
	}
	fps, _ := strconv.ParseFloat(s, 64)
	return fps
}

func estimateFrameCount(d time.Duration, fps float64) int {
	if d <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * fps))
}

func isMP4Family(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov", ".3gp":
		return true
	}
	return false
}

// Counts video samples in an MP4/MOV sample table
func CountContainerFrames(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return CountContainerFramesFromReader(f)
}

// Only box headers and the sample tables are read; mdat payloads stay on disk
func CountContainerFramesFromReader(r io.ReadSeeker) (int, error) {
	mp4File, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return 0, fmt.Errorf("decode mp4: %w", err)
	}
	return countVideoSamples(mp4File)
}

func countVideoSamples(mp4File *mp4.File) (int, error) {
	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return 0, ErrNoVideoStream
	}

	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}

		// Fragmented files keep their samples in moof boxes
		if mp4File.IsFragmented() {
			if trak.Tkhd == nil {
				return 0, ErrNoVideoStream
			}
			return countFragmentSamples(mp4File, trak.Tkhd.TrackID), nil
		}

		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsz == nil {
			return 0, ErrNoVideoStream
		}
		return int(trak.Mdia.Minf.Stbl.Stsz.SampleNumber), nil
	}

	return 0, ErrNoVideoStream
}

func countFragmentSamples(mp4File *mp4.File, trackID uint32) int {
	total := 0
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					total += int(trun.SampleCount())
				}
			}
		}
	}
	return total
}
