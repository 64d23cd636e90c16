package gpu

import "io"

// scope collects handles acquired during one operation and releases them in
// reverse acquisition order.
type scope struct {
	closers []io.Closer
}

func (s *scope) add(c io.Closer) {
	s.closers = append(s.closers, c)
}

// release closes every collected handle, even when some fail, and returns
// the first error. It is safe to call more than once.
func (s *scope) release() error {
	var firstErr error

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.closers = nil

	return firstErr
}
