package resize

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

type ffmpegEngine struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// ffmpegArgs builds the transcode invocation for one output.
func ffmpegArgs(source string, out Output) []string {
	return []string{
		"-y",
		"-i", source,
		"-vf", fmt.Sprintf("scale=%d:-1", out.Width),
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(out.Quality),
		out.Path,
	}
}

func (e *ffmpegEngine) Resize(ctx context.Context, source string, out Output) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var (
		mu   sync.Mutex
		tail []string
	)
	err := e.exec.Run(ctx, e.binary, ffmpegArgs(source, out), func(line string) {
		mu.Lock()
		defer mu.Unlock()
		tail = append(tail, line)
		if len(tail) > 5 {
			tail = tail[1:]
		}
	})
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("ffmpeg timed out after %s", e.timeout)
	}
	if len(tail) > 0 {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.Join(tail, " | "))
	}
	return fmt.Errorf("ffmpeg: %w", err)
}
