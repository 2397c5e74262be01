package pipeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Source produces the payloads of a run. Next returns ok false once the source
// is exhausted.
type Source interface {
	Next() (payload string, ok bool, err error)
}

// LineSource reads one payload per line until it reads the sentinel token or
// reaches the end of its input. A line equal to the token always ends the
// source, it is never submitted as a payload.
type LineSource struct {
	scanner    *bufio.Scanner
	token      string
	prompt     io.Writer
	promptText string
	done       bool
}

type LineSourceOption func(s *LineSource)

// WithPrompt writes text to w before every line is read.
func WithPrompt(w io.Writer, text string) LineSourceOption {
	return func(s *LineSource) {
		s.prompt = w
		s.promptText = text
	}
}

func NewLineSource(r io.Reader, token string, opts ...LineSourceOption) *LineSource {
	src := &LineSource{
		scanner: bufio.NewScanner(r),
		token:   token,
	}
	for _, opt := range opts {
		opt(src)
	}

	return src
}

func (s *LineSource) Next() (string, bool, error) {
	if s.done {
		return "", false, nil
	}
	if s.prompt != nil {
		_, err := fmt.Fprintln(s.prompt, s.promptText)
		if err != nil {
			return "", false, errors.Wrap(err, "unable to write prompt")
		}
	}
	if !s.scanner.Scan() {
		s.done = true
		err := s.scanner.Err()
		if err != nil {
			return "", false, errors.Wrap(err, "unable to read line")
		}

		return "", false, nil
	}
	line := s.scanner.Text()
	if line == s.token {
		s.done = true

		return "", false, nil
	}

	return line, true, nil
}

// SliceSource submits a fixed list of payloads.
type SliceSource struct {
	payloads []string
	idx      int
}

func NewSliceSource(payloads ...string) *SliceSource {
	return &SliceSource{payloads: payloads}
}

func (s *SliceSource) Next() (string, bool, error) {
	if s.idx >= len(s.payloads) {
		return "", false, nil
	}
	payload := s.payloads[s.idx]
	s.idx++

	return payload, true, nil
}

var (
	_ Source = (*LineSource)(nil)
	_ Source = (*SliceSource)(nil)
)
