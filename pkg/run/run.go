// Package run provides thin helpers for executing external commands
// (aur, pacconf, ninja) with consistent logging and error reporting.
package run

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/aurplan/pkg/errors"
	"github.com/arthur-debert/aurplan/pkg/logging"
)

var log = logging.GetLogger("run")

// Opts controls how a command is executed
type Opts struct {
	// Dir is the working directory; empty means inherit
	Dir string
	// Env holds extra environment variables appended to the current environment
	Env []string
}

// Out runs a command and returns its stdout as a string
func Out(argv []string, opts Opts) (string, error) {
	cmd := build(argv, opts)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("argv", argv).Str("dir", opts.Dir).Msg("Running command")
	if err := cmd.Run(); err != nil {
		return "", commandError(err, argv, stderr.String())
	}
	return stdout.String(), nil
}

// InOut runs a command feeding input on stdin, returning stdout and stderr
func InOut(argv []string, input string, opts Opts) (string, string, error) {
	cmd := build(argv, opts)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("argv", argv).Int("inputBytes", len(input)).Msg("Running command with stdin")
	if err := cmd.Run(); err != nil {
		return "", stderr.String(), commandError(err, argv, stderr.String())
	}
	return stdout.String(), stderr.String(), nil
}

// In runs a command feeding input on stdin; stdout and stderr go to the terminal
func In(argv []string, input string, opts Opts) error {
	cmd := build(argv, opts)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug().Strs("argv", argv).Int("inputBytes", len(input)).Msg("Running command with stdin")
	if err := cmd.Run(); err != nil {
		return commandError(err, argv, "")
	}
	return nil
}

// Interactive runs a command wired directly to the user's terminal.
// The returned exit code is valid whenever err is nil or an exit error.
func Interactive(argv []string, opts Opts) (int, error) {
	cmd := build(argv, opts)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug().Strs("argv", argv).Str("dir", opts.Dir).Msg("Running interactive command")
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.Wrapf(err, errors.ErrCommandStart, "failed to start %s", argv[0])
}

func build(argv []string, opts Opts) *exec.Cmd {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	return cmd
}

func commandError(err error, argv []string, stderr string) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return errors.Wrapf(err, errors.ErrCommandFailed, "%s exited with code %d", strings.Join(argv, " "), exitErr.ExitCode()).
			WithDetail("exitCode", exitErr.ExitCode()).
			WithDetail("stderr", strings.TrimSpace(stderr))
	}
	return errors.Wrapf(err, errors.ErrCommandStart, "failed to start %s", argv[0])
}
