package store

import (
	"context"
	"time"
)

// Watch polls the change sequence number every interval and calls f with the
// new number whenever it changed since the previous poll. Changes made before
// Watch is called are not reported. It returns when ctx is done or when the
// sequence number cannot be read.
func (s *Store) Watch(ctx context.Context, interval time.Duration, f func(seq uint64)) error {
	last, err := s.Seq()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			seq, err := s.Seq()
			if err != nil {
				logger.Println("watch:", err)
				return err
			}
			if seq != last {
				last = seq
				f(seq)
			}
		}
	}
}
