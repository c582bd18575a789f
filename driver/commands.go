package driver

import (
	"strconv"
	"strings"

	"github.com/Invicton-Labs/go-linkedqueue/queue"
	"github.com/Invicton-Labs/go-stackerr"
)

const (
	// Values removed by rh and rt are copied into a buffer of this size.
	removeBufferSize = 1024
	// Keyword that makes ih and it insert random strings.
	randomValue = "RAND"

	minRandomLength = 5
	maxRandomLength = 10
)

type command struct {
	usage      string
	minArgs    int
	maxArgs    int
	needsQueue bool
	mutates    bool
	run        func(s *Session, args []string) stackerr.Error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"new": {
			usage:   "new",
			mutates: true,
			run:     (*Session).cmdNew,
		},
		"free": {
			usage: "free",
			run:   (*Session).cmdFree,
		},
		"ih": {
			usage:      "ih <str|RAND> [n]",
			minArgs:    1,
			maxArgs:    2,
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, args []string) stackerr.Error {
				return s.insert(args, s.q.InsertHead)
			},
		},
		"it": {
			usage:      "it <str|RAND> [n]",
			minArgs:    1,
			maxArgs:    2,
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, args []string) stackerr.Error {
				return s.insert(args, s.q.InsertTail)
			},
		},
		"rh": {
			usage:      "rh [expected]",
			maxArgs:    1,
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, args []string) stackerr.Error {
				return s.remove(args, "head", s.q.RemoveHead)
			},
		},
		"rt": {
			usage:      "rt [expected]",
			maxArgs:    1,
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, args []string) stackerr.Error {
				return s.remove(args, "tail", s.q.RemoveTail)
			},
		},
		"size": {
			usage:      "size",
			needsQueue: true,
			run:        (*Session).cmdSize,
		},
		"dm": {
			usage:      "dm",
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, _ []string) stackerr.Error {
				if !s.q.DeleteMid() {
					return stackerr.Errorf("could not delete the middle element of an empty queue")
				}
				return nil
			},
		},
		"dedup": {
			usage:      "dedup",
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, _ []string) stackerr.Error {
				if !s.q.DeleteDup() {
					return stackerr.Errorf("could not delete duplicates")
				}
				return nil
			},
		},
		"swap": {
			usage:      "swap",
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, _ []string) stackerr.Error {
				s.q.Swap()
				return nil
			},
		},
		"reverse": {
			usage:      "reverse",
			needsQueue: true,
			mutates:    true,
			run: func(s *Session, _ []string) stackerr.Error {
				s.q.Reverse()
				return nil
			},
		},
		"sort": {
			usage:      "sort",
			needsQueue: true,
			mutates:    true,
			run:        (*Session).cmdSort,
		},
		"show": {
			usage: "show",
			run:   (*Session).cmdShow,
		},
		"hash": {
			usage:      "hash",
			needsQueue: true,
			run: func(s *Session, _ []string) stackerr.Error {
				s.printf("hash = %08x", Fingerprint(s.q.Values()))
				return nil
			},
		},
		"leaks": {
			usage: "leaks",
			run:   (*Session).cmdLeaks,
		},
	}
}

func (s *Session) cmdNew(_ []string) stackerr.Error {
	if s.q != nil {
		s.q.Free()
		s.q = nil
	}
	q := queue.New(queue.WithAllocator(s.ledger))
	if q == nil {
		return stackerr.Errorf("could not allocate a new queue")
	}
	s.q = q
	return nil
}

func (s *Session) cmdFree(_ []string) stackerr.Error {
	s.q.Free()
	s.q = nil
	return nil
}

func (s *Session) randomString() string {
	n := minRandomLength + s.rand.Intn(maxRandomLength-minRandomLength+1)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + s.rand.Intn(26)))
	}
	return b.String()
}

func (s *Session) insert(args []string, insert func(string) stackerr.Error) stackerr.Error {
	count := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return stackerr.Errorf("invalid insert count `%s`", args[1])
		}
		count = n
	}
	for i := 0; i < count; i++ {
		value := args[0]
		if value == randomValue {
			value = s.randomString()
		}
		if err := insert(value); err != nil {
			return err.With(map[string]any{
				"inserted": i,
			})
		}
	}
	return nil
}

func (s *Session) remove(args []string, end string, remove func([]byte) *queue.Element) stackerr.Error {
	buf := make([]byte, removeBufferSize)
	e := remove(buf)
	if e == nil {
		return stackerr.Errorf("cannot remove from the %s of an empty queue", end)
	}
	got := queue.CString(buf)
	if err := e.Release(); err != nil {
		return err
	}
	if len(args) == 1 && got != args[0] {
		return stackerr.Errorf("removed %q from the %s, expected %q", got, end, args[0])
	}
	s.printf("Removed %s from queue", got)
	return nil
}

func (s *Session) cmdSize(_ []string) stackerr.Error {
	s.printf("Queue size = %d", s.q.Size())
	return nil
}

func (s *Session) cmdSort(_ []string) stackerr.Error {
	s.q.Sort()
	for e := s.q.Front(); e != nil && e.Next() != nil; e = e.Next() {
		if e.Next().Value() < e.Value() {
			return stackerr.Errorf("queue is not sorted after sort").With(map[string]any{
				"value": e.Value(),
				"next":  e.Next().Value(),
			})
		}
	}
	return nil
}

func (s *Session) cmdShow(_ []string) stackerr.Error {
	if s.q == nil {
		s.printf("q = NULL")
		return nil
	}
	s.printf("q = [%s]", strings.Join(s.q.Values(), " "))
	return nil
}

func (s *Session) cmdLeaks(_ []string) stackerr.Error {
	s.printf("Allocated blocks = %d", s.ledger.LiveBlocks())
	for _, leak := range s.ledger.Leaks() {
		s.printf("  %s", leak)
	}
	return nil
}
