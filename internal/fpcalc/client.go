package fpcalc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"stylus/internal/services"
)

// Result holds the fingerprint fpcalc produced for a file.
type Result struct {
	DurationSeconds float64
	Fingerprint     string
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps fpcalc CLI interactions.
type Client struct {
	binary        string
	lengthSeconds int
	timeout       time.Duration
	exec          Executor
}

// New constructs an fpcalc client. lengthSeconds caps how much audio is
// fingerprinted from the start of each file.
func New(binary string, lengthSeconds, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "fpcalc", "new", "binary required", nil)
	}
	if lengthSeconds <= 0 {
		lengthSeconds = 120
	}
	client := &Client{
		binary:        binary,
		lengthSeconds: lengthSeconds,
		timeout:       time.Duration(timeoutSeconds) * time.Second,
		exec:          commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Generate runs fpcalc against the file and parses its KEY=VALUE output.
// Exit status 1 means fpcalc could not read the format; status 2 means the
// file is corrupt. Both surface as external tool errors with that detail.
func (c *Client) Generate(ctx context.Context, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrExternalTool, "fpcalc", "generate", "empty path", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"-length", strconv.Itoa(c.lengthSeconds), path}

	var result Result
	var sawFingerprint bool
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			return
		}
		switch key {
		case "DURATION":
			if seconds, err := strconv.ParseFloat(value, 64); err == nil {
				result.DurationSeconds = seconds
			}
		case "FINGERPRINT":
			result.Fingerprint = value
			sawFingerprint = true
		}
	})
	if err != nil {
		if runErr := runCtx.Err(); errors.Is(runErr, context.DeadlineExceeded) {
			return Result{}, services.Wrap(services.ErrToolTimeout, "fpcalc", "generate", fmt.Sprintf("timed out after %s", c.timeout), nil)
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "fpcalc", "generate", exitDetail(err), err)
	}
	if !sawFingerprint || strings.TrimSpace(result.Fingerprint) == "" {
		return Result{}, services.Wrap(services.ErrExternalTool, "fpcalc", "generate", "no fingerprint in output", nil)
	}
	return result, nil
}

func exitDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case 1:
			return "unsupported audio format"
		case 2:
			return "corrupt file"
		}
	}
	return "run"
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
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

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if onStdout != nil {
			onStdout(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, func(string) {})

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	return cmd.Wait()
}
