package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoProber 探测视频时长，课程创建时写入 VideoContent.DurationSeconds
type VideoProber interface {
	ProbeDuration(ctx context.Context, videoURL string) (float64, error)
}

// FFmpegProber 调用 ffprobe；站内 /uploads/ 路径映射到本地存储目录
type FFmpegProber struct {
	LocalPath string
	Timeout   time.Duration
}

func NewFFmpegProber(localPath string) *FFmpegProber {
	return &FFmpegProber{LocalPath: localPath, Timeout: 20 * time.Second}
}

func (p *FFmpegProber) source(videoURL string) string {
	if rest, ok := strings.CutPrefix(videoURL, "/uploads/"); ok {
		return filepath.Join(p.LocalPath, filepath.FromSlash(rest))
	}
	return videoURL
}

func (p *FFmpegProber) ProbeDuration(ctx context.Context, videoURL string) (float64, error) {
	timeout := p.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return 0, ctx.Err()
	}

	out, err := ffmpeg.ProbeWithTimeout(p.source(videoURL), timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", videoURL, err)
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(probeJSON string) (float64, error) {
	var result struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &result); err != nil {
		return 0, fmt.Errorf("解析视频信息失败: %w", err)
	}
	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", result.Format.Duration, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid duration %v", duration)
	}
	return duration, nil
}
