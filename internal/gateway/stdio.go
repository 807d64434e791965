package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davrd/steward/internal/intent"
)

// StdioConfig describes how to spawn the external tool provider.
type StdioConfig struct {
	Command string
	Args    []string
}

// StdioClient talks JSON-RPC 2.0 to a provider subprocess over stdio,
// one line per message. It is the only component that crosses the process
// boundary; every transport fault is normalized into a failed Result.
type StdioClient struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader
	stderr *tailBuffer

	exitMu   sync.RWMutex
	exited   bool
	exitErr  error
	exitDone chan struct{}

	mu     sync.Mutex
	nextID int64
}

// NewStdioClient spawns the provider process and performs the initialize
// handshake.
func NewStdioClient(ctx context.Context, cfg StdioConfig) (*StdioClient, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("stdio transport requires command")
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start provider %q: %w", cfg.Command, err)
	}

	client := &StdioClient{
		cmd:      cmd,
		stdin:    stdin,
		reader:   bufio.NewReader(stdout),
		stderr:   newTailBuffer(4096),
		exitDone: make(chan struct{}),
	}

	// Drain stderr to avoid blocking and retain a bounded tail for diagnostics.
	go io.Copy(client.stderr, stderr)
	go func() {
		client.markExited(cmd.Wait())
	}()

	if err := client.initialize(ctx); err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		client.waitForExit(500 * time.Millisecond)
		return nil, client.decorateError(err)
	}
	return client, nil
}

func (c *StdioClient) initialize(ctx context.Context) error {
	if _, err := c.call(ctx, "initialize", buildInitializeParams()); err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	return c.notify("notifications/initialized", map[string]any{})
}

// Invoke performs one tools/call round trip. Provider-side and transport
// failures both come back as a failed Result, never as a fault.
func (c *StdioClient) Invoke(ctx context.Context, in intent.Intent) (Result, error) {
	if !intent.Known(in.Tool) {
		return Result{}, fmt.Errorf("unknown tool reached gateway: %s", in.Tool)
	}

	args := make(map[string]any, len(in.Args))
	for k, v := range in.Args {
		args[k] = v
	}

	result, err := c.call(ctx, "tools/call", map[string]any{
		"name":      string(in.Tool),
		"arguments": args,
	})
	if err != nil {
		return Errf("%s", c.decorateError(err).Error()), nil
	}

	value, err := decodeCallResult(result)
	if err != nil {
		return Errf("%s", err.Error()), nil
	}
	return Ok(value), nil
}

// Close terminates the provider process.
func (c *StdioClient) Close() error {
	_ = c.stdin.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	c.waitForExit(time.Second)
	return nil
}

func (c *StdioClient) call(ctx context.Context, method string, params any) (any, error) {
	if err := c.processExitError(); err != nil {
		return nil, err
	}

	id := atomic.AddInt64(&c.nextID, 1)
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": jsonRPCVersion,
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode json-rpc request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeLine(payload); err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read provider response: %w", err)
		}
		result, matched, err := decodeRPCResponse(line, id)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		return result, nil
	}
}

func (c *StdioClient) notify(method string, params any) error {
	if err := c.processExitError(); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"jsonrpc": jsonRPCVersion,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return fmt.Errorf("encode json-rpc notification: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLine(payload)
}

func (c *StdioClient) writeLine(payload []byte) error {
	if _, err := c.stdin.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write provider request: %w", err)
	}
	return nil
}

func (c *StdioClient) markExited(err error) {
	c.exitMu.Lock()
	defer c.exitMu.Unlock()

	if c.exited {
		return
	}
	c.exited = true
	c.exitErr = err
	close(c.exitDone)
}

func (c *StdioClient) waitForExit(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	select {
	case <-c.exitDone:
	case <-time.After(timeout):
	}
}

func (c *StdioClient) processExitError() error {
	c.exitMu.RLock()
	defer c.exitMu.RUnlock()

	if !c.exited {
		return nil
	}
	if c.exitErr == nil {
		return fmt.Errorf("provider process exited")
	}
	return fmt.Errorf("provider process exited: %w", c.exitErr)
}

func (c *StdioClient) decorateError(err error) error {
	if err == nil {
		return nil
	}

	stderrTail := c.stderr.String()
	if processErr := c.processExitError(); processErr != nil {
		if stderrTail != "" {
			return fmt.Errorf("%w; process=%v; stderr=%s", err, processErr, stderrTail)
		}
		return fmt.Errorf("%w; process=%v", err, processErr)
	}

	if stderrTail != "" {
		return fmt.Errorf("%w; stderr=%s", err, stderrTail)
	}
	return err
}

type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = 1024
	}
	return &tailBuffer{max: max}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if len(b.buf) > b.max {
		b.buf = append([]byte(nil), b.buf[len(b.buf)-b.max:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
