package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

const maxRecordingLine = 8 << 20

// recordedFrame is one server frame of a recording and its offset from the
// start of the session.
type recordedFrame struct {
	At   time.Duration
	Data []byte
}

// parseRecordingLine splits an optional "<ms>\t" prefix off a recording
// line. Lines without a prefix get offset -1 and inherit the previous one.
func parseRecordingLine(line []byte) (time.Duration, []byte, error) {
	tab := bytes.IndexByte(line, '\t')
	if tab < 0 || bytes.HasPrefix(bytes.TrimSpace(line), []byte("{")) {
		return -1, line, nil
	}
	ms, err := strconv.ParseInt(string(bytes.TrimSpace(line[:tab])), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("bad offset %q: %w", line[:tab], err)
	}
	return time.Duration(ms) * time.Millisecond, line[tab+1:], nil
}

// parseRecording reads newline-delimited frames. Blank lines and lines
// starting with '#' are skipped.
func parseRecording(r io.Reader) ([]recordedFrame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxRecordingLine)
	var (
		frames []recordedFrame
		last   time.Duration
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		at, data, err := parseRecordingLine(line)
		if err != nil {
			return frames, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if at < 0 {
			at = last
		}
		last = at
		frames = append(frames, recordedFrame{At: at, Data: append([]byte(nil), data...)})
	}
	if err := sc.Err(); err != nil {
		return frames, fmt.Errorf("line %d: %w", lineNo, err)
	}
	return frames, nil
}

func loadRecording(path string) ([]recordedFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	frames, err := parseRecording(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

func recordingDuration(frames []recordedFrame) time.Duration {
	if len(frames) == 0 {
		return 0
	}
	return frames[len(frames)-1].At
}

// recordingSummary describes a recording for logs and notices.
func recordingSummary(frames []recordedFrame) string {
	var size uint64
	for _, f := range frames {
		size += uint64(len(f.Data))
	}
	dur := recordingDuration(frames).Round(time.Second)
	return fmt.Sprintf("%s frames, %s, %s",
		humanize.Comma(int64(len(frames))),
		humanize.Bytes(size),
		durafmt.Parse(dur).LimitFirstN(2).Format(shortUnits))
}

// moviePlayer feeds a recording into a session at the recorded pace scaled
// by speed. A speed of 0 replays as fast as the session consumes frames.
type moviePlayer struct {
	frames []recordedFrame
	speed  float64
}

func newMoviePlayer(frames []recordedFrame, speed float64) *moviePlayer {
	return &moviePlayer{frames: frames, speed: speed}
}

// run returns a channel that yields the frames in order and is closed at
// the end of the recording or when ctx is done.
func (p *moviePlayer) run(ctx context.Context) <-chan []byte {
	out := make(chan []byte, frameQueue)
	go func() {
		defer close(out)
		start := time.Now()
		for i, f := range p.frames {
			if p.speed > 0 {
				due := time.Duration(float64(f.At) / p.speed)
				if wait := due - time.Since(start); wait > 0 {
					t := time.NewTimer(wait)
					select {
					case <-t.C:
					case <-ctx.Done():
						t.Stop()
						return
					}
				}
			}
			select {
			case out <- f.Data:
			case <-ctx.Done():
				return
			}
			if i > 0 && i%1000 == 0 {
				logDebug("replayed %d/%d frames", i, len(p.frames))
			}
		}
		addNotice("Recording finished")
	}()
	return out
}
