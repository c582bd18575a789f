// Package driver runs line-oriented command scripts against a queue, in the
// manner of an interactive test harness. Every mutating command is followed
// by a check of the queue's ring invariants.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/Invicton-Labs/go-linkedqueue/log"
	"github.com/Invicton-Labs/go-linkedqueue/queue"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type Options struct {
	// MaxBlocks caps the number of live allocations, 0 for no cap.
	MaxBlocks int
	// StopOnError makes Run stop at the first failing line.
	StopOnError bool
	// Output receives the text printed by commands. Defaults to io.Discard.
	Output io.Writer
	// Seed seeds the generator behind RAND values.
	Seed int64
}

// Session holds the state of one script run: at most one current queue and
// the ledger that accounts for all of its storage.
type Session struct {
	id     string
	opts   Options
	q      *queue.Queue
	ledger *queue.Ledger
	rand   *rand.Rand
	logger log.Logger
	out    io.Writer
}

// NewSession creates a session that logs through the logger in ctx.
func NewSession(ctx context.Context, opts Options) *Session {
	id := uuid.New().String()
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	return &Session{
		id:     id,
		opts:   opts,
		ledger: queue.NewLedger(opts.MaxBlocks),
		rand:   rand.New(rand.NewSource(opts.Seed)),
		logger: log.FromContext(ctx).With("session", id),
		out:    out,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Queue returns the current queue, nil if there is none.
func (s *Session) Queue() *queue.Queue {
	return s.q
}

// Ledger returns the ledger backing every queue of the session.
func (s *Session) Ledger() *queue.Ledger {
	return s.ledger
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Exec runs a single command line. Blank lines and lines starting with
// '#' are ignored.
func (s *Session) Exec(ctx context.Context, line string) stackerr.Error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	cmd, ok := commands[name]
	if !ok {
		return stackerr.Errorf("unknown command `%s`", name)
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return stackerr.Errorf("wrong number of arguments for `%s`, usage: %s", name, cmd.usage).With(map[string]any{
			"args": len(args),
		})
	}
	if cmd.needsQueue && s.q == nil {
		return stackerr.Errorf("`%s` needs a queue, run `new` first", name)
	}

	s.logger.Debugw("executing command", "command", name, "args", args)
	if err := cmd.run(s, args); err != nil {
		return err.With(map[string]any{
			"command": name,
		})
	}
	if cmd.mutates && s.q != nil {
		if err := s.q.Validate(); err != nil {
			return err.With(map[string]any{
				"command": name,
			})
		}
	}
	return nil
}

// Run executes every line read from r. Failing lines are logged and
// collected into the returned error; with StopOnError the first failure
// ends the run. The context is checked between lines.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	var errs error
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, stackerr.Wrap(err))
		}
		lineNo++
		if err := s.Exec(ctx, scanner.Text()); err != nil {
			err = err.With(map[string]any{
				"line": lineNo,
			})
			s.logger.Warn(err)
			errs = multierr.Append(errs, err)
			if s.opts.StopOnError {
				return errs
			}
		}
	}
	if err := scanner.Err(); err != nil {
		errs = multierr.Append(errs, stackerr.Wrap(err))
	}
	return errs
}

// Close frees the current queue and reports any storage that was never
// released.
func (s *Session) Close() stackerr.Error {
	s.q.Free()
	s.q = nil
	if leaks := s.ledger.Leaks(); leaks != nil {
		return stackerr.Errorf("storage still allocated: %s", strings.Join(leaks, ", ")).With(map[string]any{
			"session": s.id,
		})
	}
	if n := s.ledger.Overfreed(); n > 0 {
		return stackerr.Errorf("%d block(s) freed more than once", n).With(map[string]any{
			"session": s.id,
		})
	}
	s.logger.Debugw("session closed", "allocs", s.ledger.Allocs(), "frees", s.ledger.Frees())
	return nil
}
