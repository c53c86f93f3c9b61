package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// Agent runs actions on a remote host over SSH, one session per
// action. The connection is established lazily on the first action
// and reused afterwards.
type Agent struct {
	host       string
	username   string
	workdir    string
	privateKey []byte
	timeout    time.Duration

	logger *slog.Logger

	client *ssh.Client
	mu     sync.Mutex
}

func NewAgent(
	host, username, workdir string,
	privateKey []byte,
	timeout time.Duration,
	logger *slog.Logger,
) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if !strings.Contains(host, ":") {
		host += ":22"
	}
	return &Agent{
		host:       host,
		username:   username,
		workdir:    workdir,
		privateKey: privateKey,
		timeout:    timeout,
		logger:     logger,
	}
}

func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

func (a *Agent) Execute(ctx context.Context, action, description string, opts Options) Result {
	a.logger.Info("running on agent", "step", description, "host", a.host)
	started := time.Now()

	err := a.run(ctx, action, opts)
	elapsed := time.Since(started)

	if err != nil {
		a.logger.Error("step failed",
			"step", description,
			"elapsed", elapsed.Round(time.Millisecond),
			"error", err,
		)
		return Result{Success: false, Elapsed: elapsed}
	}

	a.logger.Info("step passed",
		"step", description,
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return Result{Success: true, Elapsed: elapsed}
}

func (a *Agent) run(ctx context.Context, action string, opts Options) error {
	if err := a.connect(); err != nil {
		return err
	}

	sess, err := a.client.NewSession()
	if err != nil {
		return fmt.Errorf("err creating new session: %w", err)
	}
	defer sess.Close()

	if !opts.Silent {
		stdout, err := sess.StdoutPipe()
		if err != nil {
			return fmt.Errorf("err getting stdout pipe: %w", err)
		}
		stderr, err := sess.StderrPipe()
		if err != nil {
			return fmt.Errorf("err getting stderr pipe: %w", err)
		}
		go stream(io.MultiReader(stdout, stderr))
	}

	cmd := action
	if a.workdir != "" {
		cmd = fmt.Sprintf("cd %s && %s", a.workdir, action)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- sess.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		sess.Signal(ssh.SIGINT)
		return ctx.Err()
	case err := <-doneCh:
		return err
	}
}

func (a *Agent) connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return nil
	}

	signer, err := ssh.ParsePrivateKey(a.privateKey)
	if err != nil {
		return fmt.Errorf("err parsing ssh private key: %w", err)
	}
	config := &ssh.ClientConfig{
		User:            a.username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	client, err := ssh.Dial("tcp", a.host, config)
	if err != nil {
		return fmt.Errorf("err dialing agent: %w", err)
	}

	a.client = client
	return nil
}

func stream(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fmt.Fprintln(os.Stdout, scanner.Text())
	}
}
